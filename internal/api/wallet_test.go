package api

import (
	"testing"

	"ncs/internal/ncsapi"
)

func makeEntries(n int) []ncsapi.LedgerEntry {
	entries := make([]ncsapi.LedgerEntry, n)
	for i := range entries {
		entries[i] = ncsapi.LedgerEntry{Id: uint(i + 1), Amount: 10}
	}
	return entries
}

func TestPaginateTx(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		page         int
		size         int
		wantLen      int
		wantNext     bool
		wantPrevious bool
	}{
		{"first of many", 45, 1, 20, 20, true, false},
		{"middle page", 45, 2, 20, 20, true, true},
		{"last partial page", 45, 3, 20, 5, false, true},
		{"past the end", 45, 4, 20, 0, false, false},
		{"empty feed", 0, 1, 20, 0, false, false},
		{"exact fit", 40, 2, 20, 20, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginateTx(makeEntries(tt.total), tt.page, tt.size)
			if got.Count != tt.total {
				t.Errorf("Count = %d, want %d", got.Count, tt.total)
			}
			if len(got.Results) != tt.wantLen {
				t.Errorf("len(Results) = %d, want %d", len(got.Results), tt.wantLen)
			}
			if (got.Next != "") != tt.wantNext {
				t.Errorf("Next = %q, want next present = %v", got.Next, tt.wantNext)
			}
			if (got.Previous != "") != tt.wantPrevious {
				t.Errorf("Previous = %q, want previous present = %v", got.Previous, tt.wantPrevious)
			}
		})
	}
}

func TestPaginateTxKeepsOrder(t *testing.T) {
	entries := makeEntries(30)
	got := paginateTx(entries, 2, 10)
	if got.Results[0].Id != 11 {
		t.Errorf("page 2 starts at entry %d, want 11", got.Results[0].Id)
	}
	if got.Results[len(got.Results)-1].Id != 20 {
		t.Errorf("page 2 ends at entry %d, want 20", got.Results[len(got.Results)-1].Id)
	}
}
