package postgres

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

type stubResult struct {
	affected int64
	err      error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.affected, r.err }

func TestAcknowledged(t *testing.T) {
	tests := []struct {
		name    string
		result  stubResult
		wantErr bool
	}{
		{name: "single row confirmed", result: stubResult{affected: 1}},
		{name: "driver cannot report rows", result: stubResult{err: errors.New("rows affected unsupported")}, wantErr: true},
		{name: "nothing written", result: stubResult{affected: 0}, wantErr: true},
		{name: "more than one row touched", result: stubResult{affected: 2}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := acknowledged(tc.result, "orders")
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("acknowledged: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrWriteUnacknowledged) {
				t.Fatalf("expected ErrWriteUnacknowledged, got %v", err)
			}
		})
	}
}
