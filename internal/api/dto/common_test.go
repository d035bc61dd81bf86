package dto

import "testing"

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		page, size string
		wantNumber int
		wantSize   int
		wantOffset int
	}{
		{"defaults", "", "", 1, 20, 0},
		{"explicit", "3", "50", 3, 50, 100},
		{"clamped to max", "1", "500", 1, 100, 0},
		{"at the boundary", "2", "100", 2, 100, 100},
		{"garbage falls back", "abc", "-5", 1, 20, 0},
		{"zero falls back", "0", "0", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(tt.page, tt.size)
			if got.Number != tt.wantNumber {
				t.Errorf("number = %d, want %d", got.Number, tt.wantNumber)
			}
			if got.Size != tt.wantSize {
				t.Errorf("size = %d, want %d", got.Size, tt.wantSize)
			}
			if got.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", got.Offset(), tt.wantOffset)
			}
		})
	}
}
