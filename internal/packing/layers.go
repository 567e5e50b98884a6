package packing

import (
	"math"
	"sort"
)

// thicknessChoice is one item dimension proposed as a layer thickness with
// the two dimensions left for the footprint.
type thicknessChoice struct {
	thickness float64
	a, b      float64
}

func thicknessChoices(item Item) [3]thicknessChoice {
	return [3]thicknessChoice{
		{thickness: item.Dim1, a: item.Dim2, b: item.Dim3},
		{thickness: item.Dim2, a: item.Dim1, b: item.Dim3},
		{thickness: item.Dim3, a: item.Dim1, b: item.Dim2},
	}
}

// fitsFootprint reports whether a × b fits the width × depth footprint in
// either of its two rotations.
func fitsFootprint(a, b, width, depth float64) bool {
	return (a <= width && b <= depth) || (b <= width && a <= depth)
}

// layerEval sums, over every other unpacked item, the distance from the
// thickness to that item's closest dimension.
func layerEval(items []Item, skip int, thickness float64) float64 {
	eval := 0.0
	for j := range items {
		if j == skip || items[j].IsPacked {
			continue
		}
		d := math.Abs(thickness - items[j].Dim1)
		d = math.Min(d, math.Abs(thickness-items[j].Dim2))
		d = math.Min(d, math.Abs(thickness-items[j].Dim3))
		eval += d
	}
	return eval
}

// candidateLayers lists every distinct thickness some unpacked item can
// start a layer with, in discovery order.
func candidateLayers(o orientation, items []Item) []Layer {
	var layers []Layer
	for i := range items {
		if items[i].IsPacked {
			continue
		}
		for _, c := range thicknessChoices(items[i]) {
			if c.thickness > o.y || !fitsFootprint(c.a, c.b, o.x, o.z) {
				continue
			}
			if hasThickness(layers, c.thickness) {
				continue
			}
			layers = append(layers, Layer{Thickness: c.thickness, Eval: layerEval(items, i, c.thickness)})
		}
	}
	return layers
}

func hasThickness(layers []Layer, thickness float64) bool {
	for _, l := range layers {
		if l.Thickness == thickness {
			return true
		}
	}
	return false
}

// rankedLayers returns the candidate layers behind a zero sentinel, stable
// sorted by ascending eval. Real candidates start at index 1.
func rankedLayers(o orientation, items []Item) []Layer {
	layers := append([]Layer{{Thickness: 0, Eval: -1}}, candidateLayers(o, items)...)
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].Eval < layers[j].Eval
	})
	return layers
}

// findLayer picks the thickness of the next layer from the unpacked items
// that fit in the remaining height. Packing stops when none is found.
func (r *run) findLayer(thickness float64) {
	best := math.Inf(1)
	r.layerThickness = 0

	for i := range r.items {
		if r.items[i].IsPacked {
			continue
		}
		for _, c := range thicknessChoices(r.items[i]) {
			if c.thickness > thickness || !fitsFootprint(c.a, c.b, r.orient.x, r.orient.z) {
				continue
			}
			if eval := layerEval(r.items, i, c.thickness); eval < best {
				best = eval
				r.layerThickness = c.thickness
			}
		}
	}

	if r.layerThickness == 0 || r.layerThickness > r.remainY {
		r.packing = false
	}
}
