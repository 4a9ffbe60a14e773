package label

import (
	"math"
	"testing"
)

func TestNewBox(t *testing.T) {
	b := NewBox("RIVER", 24)

	if want := 5 * 24 * 0.6; b.Width != want {
		t.Errorf("Width = %g, want %g", b.Width, want)
	}
	if b.Height != 24 {
		t.Errorf("Height = %g, want 24", b.Height)
	}
	if b.Padding != DefaultPadding {
		t.Errorf("Padding = %g, want %g", b.Padding, DefaultPadding)
	}
}

func TestNewBoxCountsRunesNotBytes(t *testing.T) {
	ascii := NewBox("AAAA", 24)
	accented := NewBox("ÄÄÄÄ", 24)
	if ascii.Width != accented.Width {
		t.Errorf("width should depend on rune count: %g vs %g", ascii.Width, accented.Width)
	}
}

func TestHalfDiagonal(t *testing.T) {
	b := Box{Width: 6, Height: 8}
	if got := b.HalfDiagonal(); math.Abs(got-5) > 1e-12 {
		t.Errorf("HalfDiagonal = %g, want 5", got)
	}
}
