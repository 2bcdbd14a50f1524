package storage

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Pragmas(t *testing.T) {
	db := newTestDB(t)

	pragmas := map[string]int{
		"foreign_keys": 1,
		"busy_timeout": 5000,
	}
	for name, want := range pragmas {
		var got int
		if err := db.QueryRow("PRAGMA " + name).Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", name, err)
		}
		if got != want {
			t.Errorf("PRAGMA %s = %d, want %d", name, got, want)
		}
	}

	if got := db.Stats().MaxOpenConnections; got != 25 {
		t.Errorf("MaxOpenConnections = %d, want 25", got)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	db, err := New("/nonexistent/path/paperqa.db")
	if err == nil {
		_ = db.Close()
		t.Fatal("New() with invalid path should return error")
	}
	if !strings.Contains(err.Error(), "failed to") {
		t.Errorf("error %q should say what failed", err)
	}
}

func TestMigrate_Schema(t *testing.T) {
	db := newTestDB(t)

	// A second run must be a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run error = %v", err)
	}

	columns := map[string][]string{
		"documents":    {"id", "collection", "source", "chunk_count", "page_count", "hash", "processed_at"},
		"interactions": {"id", "document_id", "question", "answer", "model_used", "chunks_used", "created_at"},
	}
	for table, want := range columns {
		rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
		if err != nil {
			t.Fatalf("table_info(%s): %v", table, err)
		}
		var got []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatalf("scan: %v", err)
			}
			got = append(got, name)
		}
		_ = rows.Close()

		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("%s columns = %v, want %v", table, got, want)
		}
	}

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_interactions_document'").Scan(&count)
	if err != nil {
		t.Fatalf("failed to check index: %v", err)
	}
	if count != 1 {
		t.Error("interactions index not created")
	}

	// Interactions are removed explicitly with their document, not by cascade.
	var schema string
	if err := db.QueryRow("SELECT sql FROM sqlite_master WHERE name='interactions'").Scan(&schema); err != nil {
		t.Fatalf("failed to read interactions schema: %v", err)
	}
	if strings.Contains(schema, "REFERENCES") {
		t.Errorf("interactions should not reference documents: %s", schema)
	}
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 6, 789, time.FixedZone("CET", 3600))

	formatted := formatTimestamp(ts)
	if !strings.HasSuffix(formatted, "Z") {
		t.Errorf("formatTimestamp() = %q, want UTC", formatted)
	}
	got, err := parseTimestamp(formatted)
	if err != nil {
		t.Fatalf("parseTimestamp() error = %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}
