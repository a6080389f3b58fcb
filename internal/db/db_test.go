package db

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for testing
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestGetMissingKey(t *testing.T) {
	testDB := setupTestDB(t)

	value, ok, err := testDB.Get("weatherRecentSearches")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Errorf("Expected missing key, got %q", value)
	}
}

func TestPutAndGet(t *testing.T) {
	testDB := setupTestDB(t)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{
			name:  "json list",
			key:   "weatherRecentSearches",
			value: `["Paris","London"]`,
		},
		{
			name:  "overwrite",
			key:   "weatherRecentSearches",
			value: `["Tokyo"]`,
		},
		{
			name:  "empty value",
			key:   "other",
			value: "",
		},
		{
			name:  "unicode",
			key:   "other",
			value: `["Zürich","東京"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := testDB.Put(tt.key, tt.value); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, ok, err := testDB.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !ok {
				t.Fatalf("Expected key %q to exist", tt.key)
			}
			if got != tt.value {
				t.Errorf("Expected %q, got %q", tt.value, got)
			}
		})
	}

	var count int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows after overwrites, got %d", count)
	}
}

func TestNewDB(t *testing.T) {
	// Test with a temporary database file in a directory that does not exist yet
	tmpFile := filepath.Join(t.TempDir(), "nested", "test_weathercast.db")

	db, err := NewDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create new DB: %v", err)
	}

	if err := db.Put("k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	db.Close()

	// Reopen and verify persistence across sessions
	db, err = NewDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to reopen DB: %v", err)
	}
	defer db.Close()

	got, ok, err := db.Get("k")
	if err != nil || !ok || got != "v" {
		t.Errorf("Expected persisted value %q, got %q (ok=%v, err=%v)", "v", got, ok, err)
	}
}

func TestNilDB(t *testing.T) {
	var db *DB

	expectedMsg := "database not initialized"
	if err := db.Put("k", "v"); err == nil || err.Error() != expectedMsg {
		t.Errorf("Expected error %q, got %v", expectedMsg, err)
	}
	if _, _, err := db.Get("k"); err == nil || err.Error() != expectedMsg {
		t.Errorf("Expected error %q, got %v", expectedMsg, err)
	}
}

func TestPutClosedDB(t *testing.T) {
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.Close()

	if err := db.Put("k", "v"); err == nil {
		t.Error("Expected error writing to a closed database")
	}
}
