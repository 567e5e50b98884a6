package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segs(s *skyline) [][2]float64 {
	var out [][2]float64
	for _, n := range s.segments() {
		out = append(out, [2]float64{n.cumX, n.cumZ})
	}
	return out
}

// buildSkyline creates a skyline from (cumX, cumZ) pairs, left to right.
func buildSkyline(pairs ...[2]float64) (*skyline, []int) {
	s := &skyline{}
	s.reset(pairs[0][0])
	s.setZ(s.head, pairs[0][1])
	ids := []int{s.head}
	for _, p := range pairs[1:] {
		ids = append(ids, s.insertAfter(ids[len(ids)-1], p[0], p[1]))
	}
	return s, ids
}

func TestSkylineReset(t *testing.T) {
	s := &skyline{}
	s.reset(10)

	assert.Equal(t, [][2]float64{{10, 0}}, segs(s))
	assert.True(t, s.single(s.head))
}

func TestSkylineInsertAndUnlink(t *testing.T) {
	s, ids := buildSkyline([2]float64{3, 1}, [2]float64{6, 2}, [2]float64{10, 0})
	require.Equal(t, [][2]float64{{3, 1}, {6, 2}, {10, 0}}, segs(s))

	s.unlink(ids[1])
	assert.Equal(t, [][2]float64{{3, 1}, {10, 0}}, segs(s))
	assert.Equal(t, ids[0], s.pre(ids[2]))
	assert.Equal(t, ids[2], s.post(ids[0]))

	s.unlink(ids[0])
	assert.Equal(t, ids[2], s.head)
	assert.True(t, s.single(ids[2]))
}

func TestSkylineReusesFreedSlots(t *testing.T) {
	s, ids := buildSkyline([2]float64{4, 0}, [2]float64{10, 0})
	s.unlink(ids[1])

	j := s.insertAfter(ids[0], 8, 3)
	assert.Equal(t, ids[1], j)
	assert.Len(t, s.nodes, 2)
	assert.Equal(t, [][2]float64{{4, 0}, {8, 3}}, segs(s))
}

func TestSkylineSmallestPrefersLeftmost(t *testing.T) {
	s, ids := buildSkyline([2]float64{2, 4}, [2]float64{5, 1}, [2]float64{7, 3}, [2]float64{10, 1})
	assert.Equal(t, ids[1], s.smallest())
}

func TestEven(t *testing.T) {
	tests := []struct {
		name  string
		edge  [][2]float64
		gap   int
		wantS [][2]float64
	}{
		{
			name:  "NoLeftNeighbour",
			edge:  [][2]float64{{3, 2}, {10, 5}},
			gap:   0,
			wantS: [][2]float64{{10, 5}},
		},
		{
			name:  "NoRightNeighbour",
			edge:  [][2]float64{{3, 5}, {10, 2}},
			gap:   1,
			wantS: [][2]float64{{10, 5}},
		},
		{
			name:  "LevelNeighbours",
			edge:  [][2]float64{{2, 5}, {5, 1}, {10, 5}},
			gap:   1,
			wantS: [][2]float64{{10, 5}},
		},
		{
			name:  "LowerLeftNeighbour",
			edge:  [][2]float64{{2, 3}, {5, 1}, {10, 6}},
			gap:   1,
			wantS: [][2]float64{{5, 3}, {10, 6}},
		},
		{
			name:  "LowerRightNeighbour",
			edge:  [][2]float64{{2, 6}, {5, 1}, {10, 3}},
			gap:   1,
			wantS: [][2]float64{{2, 6}, {10, 3}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, ids := buildSkyline(tc.edge...)
			r := &run{sky: *s}

			r.even(ids[tc.gap])

			assert.Equal(t, tc.wantS, segs(&r.sky))
		})
	}
}

func TestPlaceOnEdgeSingleSegment(t *testing.T) {
	r := &run{orient: orientation{x: 10, y: 10, z: 10}}
	r.sky.reset(10)

	x := r.placeOnEdge(r.sky.head, boxFit{x: 4, y: 1, z: 3})

	assert.Equal(t, 0.0, x)
	assert.Equal(t, [][2]float64{{4, 3}, {10, 0}}, segs(&r.sky))
}

func TestPlaceOnEdgeClosesGapAgainstLeftNeighbour(t *testing.T) {
	s, ids := buildSkyline([2]float64{4, 3}, [2]float64{10, 0})
	r := &run{orient: orientation{x: 10, y: 10, z: 10}, sky: *s}

	x := r.placeOnEdge(ids[1], boxFit{x: 6, y: 1, z: 3})

	assert.Equal(t, 4.0, x)
	assert.Equal(t, [][2]float64{{10, 3}}, segs(&r.sky))
}

func TestPlaceOnEdgeLevelNeighboursUsesWiderSide(t *testing.T) {
	// Gap from 2 to 5 with more room on the right of the gap.
	s, ids := buildSkyline([2]float64{2, 4}, [2]float64{5, 1}, [2]float64{10, 4})
	r := &run{orient: orientation{x: 10, y: 10, z: 10}, sky: *s}

	x := r.placeOnEdge(ids[1], boxFit{x: 1, y: 1, z: 3})

	assert.Equal(t, 4.0, x)
	assert.Equal(t, [][2]float64{{2, 4}, {4, 1}, {10, 4}}, segs(&r.sky))
}
