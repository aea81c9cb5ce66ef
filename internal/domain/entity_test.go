package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func TestNewEntity(t *testing.T) {
	e := domain.NewEntity()

	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if e.Deleted {
		t.Fatal("new entity must not be deleted")
	}
	if e.CreatedAt.Location().String() != "UTC" {
		t.Fatalf("expected UTC timestamps, got %s", e.CreatedAt.Location())
	}
	if !e.ModifiedAt.Equal(e.CreatedAt) {
		t.Fatalf("expected ModifiedAt == CreatedAt, got %s vs %s", e.ModifiedAt, e.CreatedAt)
	}
	// Метки времени должны переживать roundtrip через TIMESTAMPTZ.
	if e.CreatedAt.Nanosecond()%1000 != 0 {
		t.Fatalf("expected microsecond precision, got %d ns", e.CreatedAt.Nanosecond())
	}

	other := domain.NewEntity()
	if other.ID == e.ID {
		t.Fatal("expected unique ids")
	}
}
