package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packing/internal/packing"
)

// AlgorithmType identifies a packing algorithm in requests and results.
type AlgorithmType int

const (
	// EBAFIT is the layer-building EB-AFIT heuristic.
	EBAFIT AlgorithmType = 1
)

var algorithmNames = map[AlgorithmType]string{
	EBAFIT: "EB-AFIT",
}

func (a AlgorithmType) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AlgorithmType(%d)", int(a))
}

// AlgorithmInfo describes an available algorithm.
type AlgorithmInfo struct {
	ID   int
	Name string
}

// Algorithms lists the available algorithms ordered by id.
func Algorithms() []AlgorithmInfo {
	return []AlgorithmInfo{
		{ID: int(EBAFIT), Name: EBAFIT.String()},
	}
}

// FindAlgorithm resolves an algorithm type id.
func FindAlgorithm(id int) (AlgorithmType, error) {
	a := AlgorithmType(id)
	if _, ok := algorithmNames[a]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlgorithm, id)
	}
	return a, nil
}

func (a AlgorithmType) newPacker(logger *zap.Logger) packing.Algorithm {
	switch a {
	case EBAFIT:
		return packing.New(packing.WithLogger(logger))
	default:
		return nil
	}
}
