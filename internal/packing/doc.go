// Package packing implements the EB-AFIT heuristic for packing boxes into a
// single container.
//
// The container is tried in each of its distinct orientations. For every
// orientation each candidate layer thickness starts a run that builds the
// container up layer by layer, filling the open edge of the current layer
// with the closest-fitting box. The run with the largest packed volume is
// replayed and its placements are reported in the container frame
// (X along Length, Y along Height, Z along Width).
package packing
