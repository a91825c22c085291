package core_test

import (
	"testing"

	"partsdesk/internal/core"
)

func TestSuggestedReorderQty(t *testing.T) {
	tests := []struct {
		name         string
		available    string
		reorderPoint string
		reorderQty   string
		want         string
	}{
		{"standard lot covers the gap", "8", "10", "50", "50"},
		{"gap exceeds the standard lot", "-20", "10", "25", "30"},
		{"exactly at reorder point", "10", "10", "40", "40"},
		{"no standard lot configured", "3", "10", "0", "7"},
		{"above the point still returns the lot", "100", "10", "40", "40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.SuggestedReorderQty(d(tt.available), d(tt.reorderPoint), d(tt.reorderQty))
			if !got.Equal(d(tt.want)) {
				t.Errorf("SuggestedReorderQty(%s, %s, %s) = %s, want %s",
					tt.available, tt.reorderPoint, tt.reorderQty, got, tt.want)
			}
		})
	}
}
