package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/eugenenazirov/container-packing/internal/packing"
)

const maxPresets = 100

var (
	// ErrInvalidContainers indicates the provided container presets violate validation rules.
	ErrInvalidContainers = errors.New("containers must contain between 1 and 100 presets with unique positive ids and positive dimensions")
	// ErrContainerNotFound is returned when no preset has the requested id.
	ErrContainerNotFound = errors.New("container preset not found")
)

// Preset is a named container that requests can refer to by id.
type Preset struct {
	ID               int     `yaml:"id"`
	Name             string  `yaml:"name"`
	Length           float64 `yaml:"length"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	Weight           float64 `yaml:"weight"`
	MaxAllowedWeight float64 `yaml:"maxAllowedWeight"`
}

// Container converts the preset into the packing model.
func (p Preset) Container() packing.Container {
	return packing.Container{
		ID:               p.ID,
		Length:           p.Length,
		Width:            p.Width,
		Height:           p.Height,
		Weight:           p.Weight,
		MaxAllowedWeight: p.MaxAllowedWeight,
	}
}

var defaultPresets = []Preset{
	{ID: 1000, Name: "Box1", Length: 15, Width: 13, Height: 9, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1001, Name: "Box2", Length: 23, Width: 9, Height: 4, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1002, Name: "Box3", Length: 16, Width: 16, Height: 6, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1003, Name: "Box4", Length: 10, Width: 8, Height: 5, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1004, Name: "Box5", Length: 40, Width: 28, Height: 20, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1005, Name: "Box6", Length: 29, Width: 19, Height: 4, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1006, Name: "Box7", Length: 18, Width: 13, Height: 1, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1007, Name: "Box8", Length: 6, Width: 6, Height: 6, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1008, Name: "Box9", Length: 8, Width: 5, Height: 5, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1009, Name: "Box10", Length: 18, Width: 13, Height: 8, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1010, Name: "Box11", Length: 17, Width: 16, Height: 15, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1011, Name: "Box12", Length: 32, Width: 10, Height: 9, Weight: 5, MaxAllowedWeight: 100},
	{ID: 1012, Name: "Box13", Length: 60, Width: 60, Height: 60, Weight: 5, MaxAllowedWeight: 100},
}

// Storage provides access to the container presets.
type Storage interface {
	ListContainers() ([]Preset, error)
	GetContainer(id int) (Preset, error)
	SetContainers(presets []Preset) error
}

// MemoryStorage keeps container presets in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	presets []Preset
}

// NewMemoryStorage initialises storage with a copy of the default presets.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		presets: cloneAndSort(defaultPresets),
	}
}

// DefaultContainers returns a copy of the default presets.
func DefaultContainers() []Preset {
	return cloneAndSort(defaultPresets)
}

// ListContainers returns a defensive copy of the presets ordered by id.
func (s *MemoryStorage) ListContainers() ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.presets), nil
}

// GetContainer returns the preset with the given id.
func (s *MemoryStorage) GetContainer(id int) (Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.presets), func(i int) bool { return s.presets[i].ID >= id })
	if i == len(s.presets) || s.presets[i].ID != id {
		return Preset{}, fmt.Errorf("%w: %d", ErrContainerNotFound, id)
	}
	return s.presets[i], nil
}

// SetContainers validates and replaces the stored presets.
func (s *MemoryStorage) SetContainers(presets []Preset) error {
	if err := ValidateContainers(presets); err != nil {
		return err
	}
	normalized := cloneAndSort(presets)

	s.mu.Lock()
	s.presets = normalized
	s.mu.Unlock()

	return nil
}

// ValidateContainers checks a preset list before it is stored.
func ValidateContainers(presets []Preset) error {
	if len(presets) == 0 || len(presets) > maxPresets {
		return ErrInvalidContainers
	}

	seen := make(map[int]struct{}, len(presets))
	for _, p := range presets {
		if p.ID <= 0 {
			return fmt.Errorf("%w: id %d", ErrInvalidContainers, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidContainers, p.ID)
		}
		seen[p.ID] = struct{}{}
		if err := packing.ValidateContainer(p.Container()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidContainers, err)
		}
	}
	return nil
}

func cloneAndSort(src []Preset) []Preset {
	if len(src) == 0 {
		return []Preset{}
	}

	out := make([]Preset, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
