package packing

const noNode = -1

// edgeNode is one segment of the layer's open edge. The segment spans from
// the previous node's cumX (or 0 for the head) to cumX and is filled up to
// depth cumZ.
type edgeNode struct {
	cumX float64
	cumZ float64
	pre  int
	post int
}

// skyline keeps the edge of the layer under construction as a doubly linked
// list stored in a slice. Links are indices; released slots are reused.
type skyline struct {
	nodes []edgeNode
	free  []int
	head  int
}

// reset leaves a single segment spanning the whole width at depth 0.
func (s *skyline) reset(width float64) {
	s.nodes = s.nodes[:0]
	s.free = s.free[:0]
	s.head = s.alloc(width, 0)
}

func (s *skyline) alloc(cumX, cumZ float64) int {
	node := edgeNode{cumX: cumX, cumZ: cumZ, pre: noNode, post: noNode}
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.nodes[idx] = node
		return idx
	}
	s.nodes = append(s.nodes, node)
	return len(s.nodes) - 1
}

func (s *skyline) x(i int) float64       { return s.nodes[i].cumX }
func (s *skyline) z(i int) float64       { return s.nodes[i].cumZ }
func (s *skyline) pre(i int) int         { return s.nodes[i].pre }
func (s *skyline) post(i int) int        { return s.nodes[i].post }
func (s *skyline) setX(i int, v float64) { s.nodes[i].cumX = v }
func (s *skyline) setZ(i int, v float64) { s.nodes[i].cumZ = v }

// single reports whether i is the only segment.
func (s *skyline) single(i int) bool {
	return s.nodes[i].pre == noNode && s.nodes[i].post == noNode
}

// smallest returns the leftmost segment with the lowest depth.
func (s *skyline) smallest() int {
	best := s.head
	for i := s.nodes[s.head].post; i != noNode; i = s.nodes[i].post {
		if s.nodes[i].cumZ < s.nodes[best].cumZ {
			best = i
		}
	}
	return best
}

// insertAfter links a new segment directly to the right of i.
func (s *skyline) insertAfter(i int, cumX, cumZ float64) int {
	j := s.alloc(cumX, cumZ)
	next := s.nodes[i].post
	s.nodes[j].pre = i
	s.nodes[j].post = next
	if next != noNode {
		s.nodes[next].pre = j
	}
	s.nodes[i].post = j
	return j
}

// unlink removes i and joins its neighbours.
func (s *skyline) unlink(i int) {
	prev, next := s.nodes[i].pre, s.nodes[i].post
	if prev != noNode {
		s.nodes[prev].post = next
	} else {
		s.head = next
	}
	if next != noNode {
		s.nodes[next].pre = prev
	}
	s.nodes[i].pre, s.nodes[i].post = noNode, noNode
	s.free = append(s.free, i)
}

// segments returns the live segments from left to right.
func (s *skyline) segments() []edgeNode {
	var out []edgeNode
	for i := s.head; i != noNode; i = s.nodes[i].post {
		out = append(out, s.nodes[i])
	}
	return out
}
