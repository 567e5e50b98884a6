package packing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidItem is returned when an item has a non-positive dimension, a
	// negative weight or a negative quantity.
	ErrInvalidItem = errors.New("item dimensions must be positive and weight and quantity non-negative")
	// ErrInvalidContainer is returned when a container has a non-positive
	// dimension or a negative weight.
	ErrInvalidContainer = errors.New("container dimensions must be positive and weights non-negative")
)

// ValidateItem checks an item line before it is expanded and packed.
func ValidateItem(item Item) error {
	if !positive(item.Dim1) || !positive(item.Dim2) || !positive(item.Dim3) ||
		!nonNegative(item.Weight) || item.Quantity < 0 {
		return fmt.Errorf("%w: item %d", ErrInvalidItem, item.ID)
	}
	return nil
}

// ValidateContainer checks a container before items are packed into it.
func ValidateContainer(c Container) error {
	if !positive(c.Length) || !positive(c.Width) || !positive(c.Height) ||
		!nonNegative(c.Weight) || !nonNegative(c.MaxAllowedWeight) {
		return fmt.Errorf("%w: container %d", ErrInvalidContainer, c.ID)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
