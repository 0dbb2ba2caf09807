package dataset

import (
	"context"
	"testing"
)

func TestDuckStore_IngestAndPage(t *testing.T) {
	f, err := ReadCSV("nums", []byte("a,b\n1,x\n2,y\n3,z\n4,w\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := NewDuckStore(t.TempDir(), "test", f.ColumnNames())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer store.Close()

	if err := store.IngestFrame(f); err != nil {
		t.Fatalf("ingesting frame: %v", err)
	}
	if store.Len() != 4 {
		t.Errorf("expected 4 rows, got %d", store.Len())
	}

	page, err := store.Page(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("paging rows: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page))
	}
	if page[0][0] != "2" || page[0][1] != "y" {
		t.Errorf("unexpected first page row: %v", page[0])
	}
	if page[1][0] != "3" || page[1][1] != "z" {
		t.Errorf("unexpected second page row: %v", page[1])
	}
}

func TestDuckStore_EmptyColumns(t *testing.T) {
	if _, err := NewDuckStore(t.TempDir(), "empty", nil); err == nil {
		t.Error("expected error for empty column list")
	}
}

func TestDuckStore_PageAfterClose(t *testing.T) {
	f, err := ReadCSV("nums", []byte("a,b\n1,x\n2,y\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := NewDuckStore(t.TempDir(), "closing", f.ColumnNames())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := store.IngestFrame(f); err != nil {
		t.Fatalf("ingesting frame: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}
	if !store.Closed() {
		t.Error("expected store to report closed")
	}

	// A reader holding the store across the close gets an error, not a panic.
	if _, err := store.Page(context.Background(), 0, 1); err == nil {
		t.Error("expected error from Page on a closed store")
	}

	// Close is idempotent.
	if err := store.Close(); err != nil {
		t.Errorf("unexpected error on second close: %v", err)
	}
}
