package packing

// Canonical container axes. The container frame is (length, height, width).
const (
	axisLength = iota
	axisHeight
	axisWidth
)

// orientation is one assignment of the container dimensions to the working
// axes. The layer height runs along y, the skyline walks x and fills z.
type orientation struct {
	variant int
	x, y, z float64
	// axes[i] is the canonical axis carried by working axis i.
	axes [3]int
}

var variantAxes = [6][3]int{
	{axisLength, axisHeight, axisWidth},
	{axisWidth, axisHeight, axisLength},
	{axisWidth, axisLength, axisHeight},
	{axisHeight, axisLength, axisWidth},
	{axisLength, axisWidth, axisHeight},
	{axisHeight, axisWidth, axisLength},
}

// orientations lists the working frames to search. A cube has a single
// distinct orientation.
func orientations(c Container) []orientation {
	n := len(variantAxes)
	if c.isCube() {
		n = 1
	}

	out := make([]orientation, 0, n)
	for v := 0; v < n; v++ {
		out = append(out, newOrientation(c, v+1))
	}
	return out
}

func newOrientation(c Container, variant int) orientation {
	dims := [3]float64{c.Length, c.Height, c.Width}
	axes := variantAxes[variant-1]
	return orientation{
		variant: variant,
		x:       dims[axes[0]],
		y:       dims[axes[1]],
		z:       dims[axes[2]],
		axes:    axes,
	}
}

// toContainerFrame rewrites the item's working-frame coordinates and packed
// dimensions into the canonical container frame.
func (o orientation) toContainerFrame(item *Item) {
	var coord, dim [3]float64
	working := [3][2]float64{
		{item.CoordX, item.PackDimX},
		{item.CoordY, item.PackDimY},
		{item.CoordZ, item.PackDimZ},
	}
	for i, axis := range o.axes {
		coord[axis] = working[i][0]
		dim[axis] = working[i][1]
	}

	item.CoordX, item.CoordY, item.CoordZ = coord[axisLength], coord[axisHeight], coord[axisWidth]
	item.PackDimX, item.PackDimY, item.PackDimZ = dim[axisLength], dim[axisHeight], dim[axisWidth]
}
