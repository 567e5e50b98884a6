package packing

import "math"

// Item is a box-shaped unit to be packed. Dim1..Dim3 are unordered; which
// physical axis each one ends up on is decided per placement.
//
// During packing there is one Item per physical unit. CoordX/Y/Z and
// PackDimX/Y/Z are only meaningful when IsPacked is set.
type Item struct {
	ID       int
	Dim1     float64
	Dim2     float64
	Dim3     float64
	Weight   float64
	Quantity int

	IsPacked bool
	CoordX   float64
	CoordY   float64
	CoordZ   float64
	PackDimX float64
	PackDimY float64
	PackDimZ float64
}

// Volume returns the item's box volume.
func (i Item) Volume() float64 {
	return i.Dim1 * i.Dim2 * i.Dim3
}

func (i Item) isCube() bool {
	return i.Dim1 == i.Dim2 && i.Dim2 == i.Dim3
}

// Container is the single bin items are packed into. A MaxAllowedWeight of
// zero or less means the weight is not limited.
type Container struct {
	ID               int
	Length           float64
	Width            float64
	Height           float64
	Weight           float64
	MaxAllowedWeight float64
}

// Volume returns the container's inner volume.
func (c Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// WeightCapacity returns how much item weight the container can still carry
// on top of its own weight.
func (c Container) WeightCapacity() float64 {
	if c.MaxAllowedWeight <= 0 {
		return math.Inf(1)
	}
	return c.MaxAllowedWeight - c.Weight
}

func (c Container) isCube() bool {
	return c.Length == c.Width && c.Width == c.Height
}

// Layer is a candidate slab thickness along the working height axis. Lower
// Eval is better.
type Layer struct {
	Thickness float64
	Eval      float64
}

// Result is the outcome of a single packing call. PackedItems are in
// placement order with coordinates in the container frame
// (X along Length, Y along Height, Z along Width).
type Result struct {
	PackedItems    []Item
	UnpackedItems  []Item
	PackedVolume   float64
	PackedWeight   float64
	IsCompletePack bool
	// Saturated reports that the search stopped early because a volume or
	// weight bound was reached.
	Saturated bool
	// Variant and Layer identify the replayed combination. Both are zero when
	// nothing could be packed.
	Variant int
	Layer   int
}

// ExpandItems converts item lines with a quantity into one record per unit.
// Every returned record has Quantity 1 and is unpacked.
func ExpandItems(items []Item) []Item {
	total := 0
	for _, item := range items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}

	units := make([]Item, 0, total)
	for _, item := range items {
		for n := 0; n < item.Quantity; n++ {
			units = append(units, Item{
				ID:       item.ID,
				Dim1:     item.Dim1,
				Dim2:     item.Dim2,
				Dim3:     item.Dim3,
				Weight:   item.Weight,
				Quantity: 1,
			})
		}
	}
	return units
}
