package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/doorquote/internal/db"
	"github.com/Simplici0/doorquote/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 29 {
				t.Fatalf("expected 29 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM units`, nil, 3)
	assertCount(t, database, `SELECT COUNT(*) FROM thickness_options`, nil, 5)
	assertCount(t, database, `SELECT COUNT(*) FROM attributes WHERE name = ?`, "Premium Finish", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM attribute_options WHERE cost = ?`, "75", 2)
	assertCount(t, database, `
		SELECT COUNT(*) FROM attribute_children c
		JOIN attributes p ON p.id = c.parent_id
		WHERE p.name = ? AND p.cost_kind = ?
	`, []any{"Hardware Kit", "nested"}, 3)
}

func TestRunKeepsChildOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-order.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(ctx, database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(ctx, database); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	rows, err := database.Query(`
		SELECT ch.name FROM attribute_children c
		JOIN attributes p ON p.id = c.parent_id
		JOIN attributes ch ON ch.id = c.child_id
		WHERE p.name = 'Hardware Kit'
		ORDER BY c.position
	`)
	if err != nil {
		t.Fatalf("query children: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan child: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate children: %v", err)
	}
	want := []string{"Hinge Set", "Door Handle", "Weatherstrip"}
	if len(names) != len(want) {
		t.Fatalf("children=%v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children=%v, want %v", names, want)
		}
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
