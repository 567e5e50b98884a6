// Package application wires container storage, the packing service, metrics,
// the API router and the HTTP server together so that the main package only
// parses flags and handles shutdown.
package application
