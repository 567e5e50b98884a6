package packing

type step int

const (
	stepPlace step = iota
	stepEvened
	stepLayerDone
)

// packLayer fills one layer of the current thickness, always working on the
// lowest segment of the skyline.
func (r *run) packLayer() {
	if r.layerThickness == 0 {
		r.packing = false
		return
	}

	s := &r.sky
	s.reset(r.orient.x)

	for !r.halted {
		sz := s.smallest()
		box, st := r.checkFound(sz, r.findBox(r.envelopeAt(sz)))
		switch st {
		case stepLayerDone:
			return
		case stepEvened:
			continue
		}

		if !r.admit(box.index) {
			return
		}

		item := &r.items[box.index]
		item.CoordY = r.packedY
		item.CoordZ = s.z(sz)
		item.CoordX = r.placeOnEdge(sz, box)
		r.commit(box)
	}
}

// envelopeAt describes the gap above segment sz.
func (r *run) envelopeAt(sz int) envelope {
	s := &r.sky
	pre, post := s.pre(sz), s.post(sz)
	env := envelope{
		thickness: r.layerThickness,
		height:    r.remainY,
		maxDepth:  r.remainZ - s.z(sz),
	}

	switch {
	case pre == noNode && post == noNode:
		env.width = s.x(sz)
		env.depth = env.maxDepth
	case pre == noNode:
		env.width = s.x(sz)
		env.depth = s.z(post) - s.z(sz)
	default:
		env.width = s.x(sz) - s.x(pre)
		env.depth = s.z(pre) - s.z(sz)
	}
	return env
}

// checkFound decides what to do with the selector's answer: place the exact
// fit, grow the layer with an oversize box, even out the gap, or finish the
// layer.
func (r *run) checkFound(sz int, sel selection) (boxFit, step) {
	if sel.fit.found() {
		return sel.fit, stepPlace
	}

	single := r.sky.single(sz)
	if sel.oversize.found() && (r.layerInLayer != 0 || single) {
		if r.layerInLayer == 0 {
			r.preLayer = r.layerThickness
			r.lilZ = r.sky.z(sz)
		}
		r.layerInLayer += sel.oversize.y - r.layerThickness
		r.layerThickness = sel.oversize.y
		return sel.oversize, stepPlace
	}

	if single {
		return boxFit{}, stepLayerDone
	}
	r.even(sz)
	return boxFit{}, stepEvened
}

// even merges segment sz, which nothing fits into, with a neighbour.
func (r *run) even(sz int) {
	s := &r.sky
	pre, post := s.pre(sz), s.post(sz)

	switch {
	case pre == noNode:
		s.setX(sz, s.x(post))
		s.setZ(sz, s.z(post))
		s.unlink(post)
	case post == noNode:
		s.setX(pre, s.x(sz))
		s.unlink(sz)
	case s.z(pre) == s.z(post):
		s.setX(pre, s.x(post))
		s.unlink(post)
		s.unlink(sz)
	default:
		right := s.x(sz)
		lowerLeft := s.z(pre) < s.z(post)
		s.unlink(sz)
		if lowerLeft {
			s.setX(pre, right)
		}
	}
}

// placeOnEdge updates the skyline for a box placed on segment sz and returns
// the box's x coordinate.
func (r *run) placeOnEdge(sz int, box boxFit) float64 {
	s := &r.sky
	pre, post := s.pre(sz), s.post(sz)
	top := s.z(sz) + box.z

	switch {
	case pre == noNode && post == noNode:
		if box.x != s.x(sz) {
			s.insertAfter(sz, s.x(sz), s.z(sz))
			s.setX(sz, box.x)
		}
		s.setZ(sz, top)
		return 0

	case pre == noNode:
		if box.x == s.x(sz) {
			if top == s.z(post) {
				s.setX(sz, s.x(post))
				s.setZ(sz, s.z(post))
				s.unlink(post)
			} else {
				s.setZ(sz, top)
			}
			return 0
		}
		x := s.x(sz) - box.x
		if top != s.z(post) {
			s.insertAfter(sz, s.x(sz), top)
		}
		s.setX(sz, x)
		return x

	case post == noNode:
		left := s.x(pre)
		switch {
		case box.x == s.x(sz)-left && top == s.z(pre):
			s.setX(pre, s.x(sz))
			s.unlink(sz)
		case box.x == s.x(sz)-left:
			s.setZ(sz, top)
		case top == s.z(pre):
			s.setX(pre, left+box.x)
		default:
			s.insertAfter(pre, left+box.x, top)
		}
		return left

	case s.z(pre) == s.z(post):
		return r.placeBetweenLevel(sz, box)

	default:
		return r.placeBetweenUneven(sz, box)
	}
}

// placeBetweenLevel handles a gap whose neighbours are equally deep. A box
// narrower than the gap goes to the side with more room.
func (r *run) placeBetweenLevel(sz int, box boxFit) float64 {
	s := &r.sky
	pre, post := s.pre(sz), s.post(sz)
	left := s.x(pre)
	top := s.z(sz) + box.z

	if box.x == s.x(sz)-left {
		if top == s.z(post) {
			s.setX(pre, s.x(post))
			s.unlink(post)
			s.unlink(sz)
		} else {
			s.setZ(sz, top)
		}
		return left
	}

	if left < r.orient.x-s.x(sz) {
		if top == s.z(pre) {
			x := s.x(sz) - box.x
			s.setX(sz, x)
			return x
		}
		s.insertAfter(pre, left+box.x, top)
		return left
	}

	if top == s.z(pre) {
		s.setX(pre, left+box.x)
		return left
	}
	x := s.x(sz) - box.x
	s.insertAfter(sz, s.x(sz), top)
	s.setX(sz, x)
	return x
}

// placeBetweenUneven handles a gap whose neighbours differ in depth. Boxes
// are pushed against the left neighbour unless they even out the right one.
func (r *run) placeBetweenUneven(sz int, box boxFit) float64 {
	s := &r.sky
	pre, post := s.pre(sz), s.post(sz)
	left := s.x(pre)
	top := s.z(sz) + box.z

	if box.x == s.x(sz)-left {
		if top == s.z(pre) {
			s.setX(pre, s.x(sz))
			s.unlink(sz)
		} else {
			s.setZ(sz, top)
		}
		return left
	}

	switch {
	case top == s.z(pre):
		s.setX(pre, left+box.x)
		return left
	case top == s.z(post):
		x := s.x(sz) - box.x
		s.setX(sz, x)
		return x
	default:
		s.insertAfter(pre, left+box.x, top)
		return left
	}
}
