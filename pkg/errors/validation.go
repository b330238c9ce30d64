package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateGridSize checks that width and height are positive and that
// width*height fits in an int.
func ValidateGridSize(width, height int) error {
	if width <= 0 {
		return New(ErrCodeInvalidInput, "width must be a positive integer, got %d", width)
	}
	if height <= 0 {
		return New(ErrCodeInvalidInput, "height must be a positive integer, got %d", height)
	}
	if width > math.MaxInt/height {
		return New(ErrCodeInvalidInput, "grid of %dx%d is too large", width, height)
	}
	return nil
}

// ValidateDimensions checks a generation request's grid size and room count.
// It is applied before any generation work begins.
func ValidateDimensions(width, height, roomCount int) error {
	if err := ValidateGridSize(width, height); err != nil {
		return err
	}
	if roomCount <= 0 {
		return New(ErrCodeInvalidInput, "roomCount must be a positive integer, got %d", roomCount)
	}
	if cells := width * height; roomCount > cells {
		return New(ErrCodeInvalidInput, "roomCount %d exceeds cell count %d", roomCount, cells)
	}
	return nil
}

// ValidatePadding checks a renderer padding string. Padding must stay on one
// line and must not contain digits, which would be mistaken for room labels.
func ValidatePadding(padding string) error {
	const maxPadding = 8
	if len(padding) > maxPadding {
		return New(ErrCodeInvalidInput, "padding too long (max %d characters)", maxPadding)
	}
	for _, r := range padding {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "padding contains control characters")
		}
		if unicode.IsDigit(r) {
			return New(ErrCodeInvalidInput, "padding cannot contain digits")
		}
	}
	return nil
}

// ValidateURI checks that a connection string uses one of the allowed
// schemes, e.g. "redis://" or "mongodb://".
func ValidateURI(uri string, schemes ...string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(uri, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URI must use one of the schemes %s", strings.Join(schemes, ", "))
}
