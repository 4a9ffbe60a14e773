package errors

import (
	"strings"
	"unicode"
)

// Font size bounds accepted by the placement pipeline, in points.
// The label box height is the font size itself and its width scales with it,
// so sizes outside this window either vanish or dwarf any plausible river.
const (
	MinFontSize = 12
	MaxFontSize = 48
)

// MaxLabelLength bounds label text to keep box widths sane.
const MaxLabelLength = 128

// ValidateLabelText validates label text for placement.
// The text must be non-empty after trimming whitespace and free of
// control characters.
func ValidateLabelText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidLabel, "label text cannot be empty")
	}

	if len(text) > MaxLabelLength {
		return New(ErrCodeInvalidLabel, "label text too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label text contains control characters")
		}
	}

	return nil
}

// ValidateFontSize validates a font size in points.
func ValidateFontSize(size int) error {
	if size < MinFontSize || size > MaxFontSize {
		return New(ErrCodeInvalidFontSize, "font size must be between %d and %d, got %d",
			MinFontSize, MaxFontSize, size)
	}
	return nil
}
