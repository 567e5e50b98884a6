// Package service dispatches packing requests to the available algorithms and
// summarises their results.
package service

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/container-packing/internal/metrics"
	"github.com/eugenenazirov/container-packing/internal/packing"
)

// AlgorithmPackingResult is the outcome of one algorithm for one container.
type AlgorithmPackingResult struct {
	AlgorithmID   int
	AlgorithmName string

	IsCompletePack bool
	PackedItems    []packing.Item
	UnpackedItems  []packing.Item

	PackedVolume float64
	PackedWeight float64

	PackTimeInMilliseconds       int64
	PercentContainerVolumePacked float64
	PercentItemVolumePacked      float64
	PercentItemWeightPacked      float64
}

// ContainerPackingResult groups the algorithm results for one container.
type ContainerPackingResult struct {
	ContainerID             int
	AlgorithmPackingResults []AlgorithmPackingResult
}

// Service runs packing requests.
type Service struct {
	logger   *zap.Logger
	metrics  *metrics.Recorder
	maxItems int
	parallel int
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records every run on the given recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMaxItems limits the number of item units a single request may expand
// to. Zero disables the limit.
func WithMaxItems(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxItems = n
		}
	}
}

// WithParallelism caps how many runs execute at the same time.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallel = n
		}
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		logger:   zap.NewNop(),
		parallel: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxItems reports the unit limit, zero when unlimited.
func (s *Service) MaxItems() int {
	return s.maxItems
}

// Pack packs the items into each container independently with every selected
// algorithm. Container results keep the request order; algorithm results are
// sorted by name.
func (s *Service) Pack(ctx context.Context, containers []packing.Container, items []packing.Item, algorithmIDs []int) ([]ContainerPackingResult, error) {
	if len(containers) == 0 {
		return nil, ErrNoContainers
	}
	if len(algorithmIDs) == 0 {
		return nil, ErrNoAlgorithms
	}

	algorithms := make([]AlgorithmType, 0, len(algorithmIDs))
	for _, id := range algorithmIDs {
		a, err := FindAlgorithm(id)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, a)
	}
	for _, c := range containers {
		if err := packing.ValidateContainer(c); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		if err := packing.ValidateItem(item); err != nil {
			return nil, err
		}
	}

	units := packing.ExpandItems(items)
	if s.maxItems > 0 && len(units) > s.maxItems {
		return nil, fmt.Errorf("%w: %d units, limit is %d", ErrTooManyItems, len(units), s.maxItems)
	}

	results := make([]ContainerPackingResult, len(containers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)

	for ci, container := range containers {
		results[ci] = ContainerPackingResult{
			ContainerID:             container.ID,
			AlgorithmPackingResults: make([]AlgorithmPackingResult, len(algorithms)),
		}
		for ai, algorithm := range algorithms {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[ci].AlgorithmPackingResults[ai] = s.run(algorithm, container, units)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}

	for i := range results {
		sort.SliceStable(results[i].AlgorithmPackingResults, func(a, b int) bool {
			return results[i].AlgorithmPackingResults[a].AlgorithmName < results[i].AlgorithmPackingResults[b].AlgorithmName
		})
	}
	return results, nil
}

func (s *Service) run(algorithm AlgorithmType, container packing.Container, units []packing.Item) AlgorithmPackingResult {
	items := make([]packing.Item, len(units))
	copy(items, units)

	start := time.Now()
	res := algorithm.newPacker(s.logger).Pack(container, items)
	elapsed := time.Since(start)

	packedVolume, packedWeight := sumItems(res.PackedItems)
	unpackedVolume, unpackedWeight := sumItems(res.UnpackedItems)

	out := AlgorithmPackingResult{
		AlgorithmID:                  int(algorithm),
		AlgorithmName:                algorithm.String(),
		IsCompletePack:               res.IsCompletePack,
		PackedItems:                  res.PackedItems,
		UnpackedItems:                res.UnpackedItems,
		PackedVolume:                 packedVolume,
		PackedWeight:                 packedWeight,
		PackTimeInMilliseconds:       elapsed.Milliseconds(),
		PercentContainerVolumePacked: percent(packedVolume, container.Volume()),
		PercentItemVolumePacked:      percent(packedVolume, packedVolume+unpackedVolume),
		PercentItemWeightPacked:      percent(packedWeight, packedWeight+unpackedWeight),
	}

	s.metrics.RecordPack(out.AlgorithmName, out.IsCompletePack, len(out.PackedItems), len(out.UnpackedItems),
		ratio(packedVolume, container.Volume()), elapsed)
	s.logger.Info("packing run finished",
		zap.Int("container_id", container.ID),
		zap.String("algorithm", out.AlgorithmName),
		zap.Int("packed", len(out.PackedItems)),
		zap.Int("unpacked", len(out.UnpackedItems)),
		zap.Float64("container_volume_pct", out.PercentContainerVolumePacked),
		zap.Bool("complete", out.IsCompletePack),
		zap.Duration("duration", elapsed),
	)
	return out
}

func sumItems(items []packing.Item) (volume, weight float64) {
	for _, item := range items {
		volume += item.Volume()
		weight += item.Weight
	}
	return volume, weight
}

func ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}

// percent returns part/whole as a percentage rounded to two decimals.
func percent(part, whole float64) float64 {
	return math.Round(ratio(part, whole)*100*100) / 100
}
