package packing

import "go.uber.org/zap"

// Algorithm packs unit items into a single container.
type Algorithm interface {
	Pack(container Container, items []Item) Result
}

// Option configures the EB-AFIT packer.
type Option func(*ebafit)

// WithLogger sets the logger used for search diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *ebafit) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type ebafit struct {
	logger *zap.Logger
}

// New creates the EB-AFIT layer-building packer. Pack is safe for concurrent
// use; every call works on its own state.
func New(opts ...Option) Algorithm {
	p := &ebafit{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// attempt identifies one search run.
type attempt struct {
	orient    orientation
	layer     int
	thickness float64
}

// run is the mutable state of one Pack call.
type run struct {
	container Container
	items     []Item
	orient    orientation
	sky       skyline

	containerVolume float64
	itemVolume      float64
	weightCapacity  float64

	packedVolume float64
	packedWeight float64
	packedY      float64
	remainY      float64
	remainZ      float64

	layerThickness float64
	layerInLayer   float64
	preLayer       float64
	lilZ           float64

	packing   bool
	halted    bool
	saturated bool

	replay    bool
	order     []int
	subLayers int
}

func newRun(container Container, items []Item) *run {
	r := &run{
		container:       container,
		items:           make([]Item, len(items)),
		containerVolume: container.Volume(),
		weightCapacity:  container.WeightCapacity(),
	}
	copy(r.items, items)
	for i := range r.items {
		r.itemVolume += r.items[i].Volume()
	}
	return r
}

func (p *ebafit) Pack(container Container, items []Item) Result {
	r := newRun(container, items)

	best, found := r.search()
	if !found {
		r.resetItems()
		r.packedVolume, r.packedWeight = 0, 0
		p.logger.Debug("no placement found",
			zap.Int("container_id", container.ID),
			zap.Int("items", len(items)),
		)
		return r.result(attempt{}, false)
	}

	r.orient = best.orient
	r.replay = true
	r.execute(best.thickness)

	p.logger.Debug("packing replayed",
		zap.Int("container_id", container.ID),
		zap.Int("variant", best.orient.variant),
		zap.Int("layer", best.layer),
		zap.Float64("thickness", best.thickness),
		zap.Int("packed", len(r.order)),
		zap.Int("sub_layers", r.subLayers),
		zap.Bool("saturated", r.saturated),
	)
	return r.result(best, true)
}

// search tries every orientation with every candidate starting layer and
// keeps the run that packs the most volume. The first run to reach a volume
// or weight bound ends the search.
func (r *run) search() (attempt, bool) {
	var best attempt
	bestVolume := 0.0
	found := false

	for _, o := range orientations(r.container) {
		r.orient = o
		r.resetItems()
		layers := rankedLayers(o, r.items)

		for i := 1; i < len(layers); i++ {
			r.execute(layers[i].Thickness)
			if r.packedVolume > bestVolume {
				bestVolume = r.packedVolume
				best = attempt{orient: o, layer: i, thickness: layers[i].Thickness}
				found = true
			}
			if r.saturated {
				return best, found
			}
		}
	}
	return best, found
}

// execute packs layer after layer starting with the given thickness.
func (r *run) execute(thickness float64) {
	r.resetItems()
	r.packedVolume, r.packedWeight, r.packedY = 0, 0, 0
	r.packing, r.halted = true, false
	r.layerThickness = thickness
	r.remainY, r.remainZ = r.orient.y, r.orient.z
	r.order = r.order[:0]
	r.subLayers = 0

	for {
		r.layerInLayer = 0
		r.packLayer()

		r.packedY += r.layerThickness
		r.remainY = r.orient.y - r.packedY

		if r.layerInLayer != 0 && !r.halted {
			r.packLayerInLayer()
		}
		if !r.halted {
			r.findLayer(r.remainY)
		}
		if !r.packing || r.halted {
			return
		}
	}
}

// packLayerInLayer fills the slab left above the shorter boxes of a layer
// that grew because of an oversize box.
func (r *run) packLayerInLayer() {
	packedY, remainY := r.packedY, r.remainY

	r.remainY = r.layerThickness - r.preLayer
	r.packedY = r.packedY - r.layerThickness + r.preLayer
	r.remainZ = r.lilZ
	r.layerThickness = r.layerInLayer
	r.subLayers++
	r.packLayer()

	r.packedY, r.remainY, r.remainZ = packedY, remainY, r.orient.z
}

func (r *run) resetItems() {
	for i := range r.items {
		r.items[i].IsPacked = false
	}
}

func (r *run) result(best attempt, found bool) Result {
	res := Result{
		PackedItems:  make([]Item, 0, len(r.order)),
		PackedVolume: r.packedVolume,
		PackedWeight: r.packedWeight,
		Saturated:    r.saturated,
	}
	if found {
		res.Variant = best.orient.variant
		res.Layer = best.layer
	}

	for _, idx := range r.order {
		item := r.items[idx]
		item.Quantity = 1
		r.orient.toContainerFrame(&item)
		res.PackedItems = append(res.PackedItems, item)
	}
	for _, item := range r.items {
		if item.IsPacked {
			continue
		}
		item.Quantity = 1
		item.CoordX, item.CoordY, item.CoordZ = 0, 0, 0
		item.PackDimX, item.PackDimY, item.PackDimZ = 0, 0, 0
		res.UnpackedItems = append(res.UnpackedItems, item)
	}

	res.IsCompletePack = len(res.UnpackedItems) == 0
	return res
}
