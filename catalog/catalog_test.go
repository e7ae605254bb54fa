package catalog

import (
	"path/filepath"
	"testing"

	"github.com/vinayprograms/tgkit/rpcerr"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalog_SeededFromRegistry(t *testing.T) {
	c := openTestCatalog(t)

	count, err := c.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	want := uint64(len(rpcerr.Registered()))
	if count != want {
		t.Errorf("Count() = %d, want %d", count, want)
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := openTestCatalog(t)

	tests := []struct {
		tag          string
		wantCategory string
		wantCode     int
	}{
		{"FLOOD_WAIT_X", "FLOOD", 420},
		{"FLOOD_WAIT_30", "FLOOD", 420}, // concrete tag reduces to template
		{"PHONE_MIGRATE_X", "SEE_OTHER", 303},
		{"PHONE_MIGRATE_4", "SEE_OTHER", 303},
		{"MESSAGE_EMPTY", "BAD_REQUEST", 400},
		{"SESSION_REVOKED", "UNAUTHORIZED", 401},
		{"UNKNOWN_ERROR", "UNKNOWN", 520},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			entry, err := c.Lookup(tt.tag)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tt.tag, err)
			}
			if entry == nil {
				t.Fatalf("Lookup(%q) = nil, want entry", tt.tag)
			}
			if entry.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", entry.Category, tt.wantCategory)
			}
			if entry.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", entry.Code, tt.wantCode)
			}
			if entry.Description == "" {
				t.Error("entry should carry a description")
			}
		})
	}
}

func TestCatalog_LookupUnknownTag(t *testing.T) {
	c := openTestCatalog(t)

	entry, err := c.Lookup("SOME_NEW_TAG_123")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry != nil {
		t.Errorf("Lookup for unregistered tag = %+v, want nil", entry)
	}
}

func TestCatalog_Category(t *testing.T) {
	c := openTestCatalog(t)

	entries, err := c.Category(rpcerr.CategoryFlood)
	if err != nil {
		t.Fatalf("Category failed: %v", err)
	}

	// The four flood kinds plus the generic FLOOD fallback.
	if len(entries) != 5 {
		t.Fatalf("flood category has %d entries, want 5", len(entries))
	}

	var generics int
	for _, e := range entries {
		if e.Code != 420 {
			t.Errorf("entry %s has code %d, want 420", e.Tag, e.Code)
		}
		if e.Generic {
			generics++
		}
	}
	if generics != 1 {
		t.Errorf("flood category has %d generic entries, want 1", generics)
	}
}

func TestCatalog_Search(t *testing.T) {
	c := openTestCatalog(t)

	tests := []struct {
		query   string
		wantTag string
	}{
		{"phone number invalid", "PHONE_NUMBER_INVALID"},
		{"two-step verification password", "SESSION_PASSWORD_NEEDED"},
		{"slowmode", "SLOWMODE_WAIT_X"},
		{"FLOOD_WAIT_X", "FLOOD_WAIT_X"}, // exact tag match
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			entries, err := c.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) failed: %v", tt.query, err)
			}
			for _, e := range entries {
				if e.Tag == tt.wantTag {
					return
				}
			}
			t.Errorf("Search(%q) results %v do not include %s", tt.query, tags(entries), tt.wantTag)
		})
	}
}

func TestCatalog_SearchLimit(t *testing.T) {
	c := openTestCatalog(t)

	entries, err := c.Search("invalid", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) > 3 {
		t.Errorf("Search returned %d entries, want at most 3", len(entries))
	}
}

func TestCatalog_OpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.bleve")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := c.Lookup("FLOOD_WAIT_X"); err != nil {
		t.Errorf("Lookup on disk index failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening re-seeds without duplicating entries.
	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c.Close()

	count, err := c.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if want := uint64(len(rpcerr.Registered())); count != want {
		t.Errorf("Count() after reopen = %d, want %d", count, want)
	}
}

func tags(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Tag
	}
	return out
}
