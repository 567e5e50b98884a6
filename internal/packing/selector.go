package packing

import "math"

const noBox = -1

// envelope is the empty space offered to the box selector for the current
// gap of the skyline.
type envelope struct {
	width     float64 // available width along x
	thickness float64 // current layer thickness
	height    float64 // remaining height along y
	depth     float64 // depth that would even the gap with its neighbour
	maxDepth  float64 // remaining depth along z
}

// boxFit is the best candidate found so far for one bucket together with its
// gaps to the envelope, compared lexicographically as (gapY, gapX, gapZ).
type boxFit struct {
	index   int
	x, y, z float64

	gapX, gapY, gapZ float64
}

func emptyFit() boxFit {
	inf := math.Inf(1)
	return boxFit{index: noBox, gapX: inf, gapY: inf, gapZ: inf}
}

func (b boxFit) found() bool {
	return b.index != noBox
}

func (b *boxFit) offer(index int, x, y, z, gapX, gapY, gapZ float64) {
	better := gapY < b.gapY ||
		(gapY == b.gapY && gapX < b.gapX) ||
		(gapY == b.gapY && gapX == b.gapX && gapZ < b.gapZ)
	if !better {
		return
	}
	*b = boxFit{index: index, x: x, y: y, z: z, gapX: gapX, gapY: gapY, gapZ: gapZ}
}

// selection holds the best box that fits within the layer thickness and the
// best one that is taller than the layer.
type selection struct {
	fit      boxFit
	oversize boxFit
}

// findBox looks at every unpacked item in every rotation and keeps the
// closest fit for the envelope.
func (r *run) findBox(env envelope) selection {
	sel := selection{fit: emptyFit(), oversize: emptyFit()}
	for i := range r.items {
		item := r.items[i]
		if item.IsPacked {
			continue
		}

		rots := rotations(item)
		n := len(rots)
		if item.isCube() {
			n = 1
		}
		for _, rot := range rots[:n] {
			sel.analyze(i, rot, env)
		}
	}
	return sel
}

func (s *selection) analyze(index int, rot [3]float64, env envelope) {
	x, y, z := rot[0], rot[1], rot[2]
	if x > env.width || y > env.height || z > env.maxDepth {
		return
	}

	gapX := env.width - x
	gapZ := math.Abs(env.depth - z)
	if y <= env.thickness {
		s.fit.offer(index, x, y, z, gapX, env.thickness-y, gapZ)
		return
	}
	s.oversize.offer(index, x, y, z, gapX, y-env.thickness, gapZ)
}

// rotations lists the six (width, height, depth) assignments of an item.
func rotations(item Item) [6][3]float64 {
	a, b, c := item.Dim1, item.Dim2, item.Dim3
	return [6][3]float64{
		{a, b, c},
		{a, c, b},
		{b, a, c},
		{b, c, a},
		{c, a, b},
		{c, b, a},
	}
}
