package service

import "errors"

var (
	// ErrInvalidAlgorithm is returned when an algorithm type id is not known.
	ErrInvalidAlgorithm = errors.New("invalid algorithm type")
	// ErrNoContainers is returned when a request carries no container.
	ErrNoContainers = errors.New("at least one container is required")
	// ErrNoAlgorithms is returned when a request selects no algorithm.
	ErrNoAlgorithms = errors.New("at least one algorithm type is required")
	// ErrTooManyItems is returned when the expanded item units exceed the configured limit.
	ErrTooManyItems = errors.New("too many item units to pack")
)
