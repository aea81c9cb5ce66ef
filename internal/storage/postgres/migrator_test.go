package postgres

import (
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsFromEmbeddedFS(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	for i, m := range migrations {
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Fatalf("migration %d_%s is missing a direction", m.Version, m.Name)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Fatal("migrations must be sorted by version")
		}
	}
}

func TestLoadMigrationsValidation(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
	}{
		{
			name: "missing down file",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql": {Data: []byte("SELECT 1")},
			},
		},
		{
			name: "bad file name",
			fsys: fstest.MapFS{
				"sql/migrations/init.sql": {Data: []byte("SELECT 1")},
			},
		},
		{
			name: "empty body",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":   {Data: []byte("   ")},
				"sql/migrations/0001_init.down.sql": {Data: []byte("SELECT 1")},
			},
		},
		{
			name: "name mismatch",
			fsys: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":    {Data: []byte("SELECT 1")},
				"sql/migrations/0001_other.down.sql": {Data: []byte("SELECT 1")},
			},
		},
		{
			name: "no files",
			fsys: fstest.MapFS{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadMigrations(tc.fsys); err == nil {
				t.Fatalf("expected error for case %s", tc.name)
			}
		})
	}
}
