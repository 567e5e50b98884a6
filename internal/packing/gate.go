package packing

import "math"

// relTolerance absorbs float drift when accumulated volumes are compared to
// their bounds.
const relTolerance = 1e-9

// exceeds reports whether value is above limit by more than the tolerance.
func exceeds(value, limit float64) bool {
	if math.IsInf(limit, 1) {
		return false
	}
	return value-limit > relTolerance*math.Max(1, math.Abs(limit))
}

// admit checks a placement against the container volume, the total item
// volume and the weight capacity before any state is touched. A rejected
// placement ends the run.
func (r *run) admit(index int) bool {
	item := r.items[index]
	volume := r.packedVolume + item.Volume()

	if exceeds(volume, r.containerVolume) ||
		exceeds(volume, r.itemVolume) ||
		exceeds(r.packedWeight+item.Weight, r.weightCapacity) {
		r.packing = false
		r.saturated = true
		r.halted = true
		return false
	}
	return true
}

// commit records an admitted placement.
func (r *run) commit(box boxFit) {
	item := &r.items[box.index]
	item.IsPacked = true
	item.PackDimX, item.PackDimY, item.PackDimZ = box.x, box.y, box.z

	r.packedVolume += item.Volume()
	r.packedWeight += item.Weight

	if r.replay {
		r.order = append(r.order, box.index)
		return
	}
	if !exceeds(r.containerVolume, r.packedVolume) || !exceeds(r.itemVolume, r.packedVolume) {
		r.saturated = true
		r.packing = false
	}
}
