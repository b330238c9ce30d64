package cellgen

import (
	"github.com/matzehuels/roomgrid/pkg/cell"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

// Func is the signature shared by the generators.
type Func func(cells []cell.Cell, width, height, roomCount int, r rng.Source, opts ...Option) error

// Generate assigns every cell to one of roomCount rooms using the method
// selected with [WithMethod] (growth by default).
func Generate(cells []cell.Cell, width, height, roomCount int, r rng.Source, opts ...Option) error {
	cfg := newConfig(opts)
	return cfg.method.generator()(cells, width, height, roomCount, r, opts...)
}

func (m Method) generator() Func {
	if m == MethodNaive {
		return Naive
	}
	return Growth
}

func validate(cells []cell.Cell, width, height, roomCount int, r rng.Source) error {
	if err := apperr.ValidateDimensions(width, height, roomCount); err != nil {
		return err
	}
	if len(cells) != width*height {
		return apperr.New(apperr.ErrCodeInvalidInput, "got %d cells for a %dx%d grid", len(cells), width, height)
	}
	for i, c := range cells {
		if c.ID != i {
			return apperr.New(apperr.ErrCodeInvalidInput, "cell at index %d has id %d", i, c.ID)
		}
	}
	if r == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "random source is required")
	}
	return nil
}
