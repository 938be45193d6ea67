// Package lidlog decodes Lowell Instruments .lid data-logger files into a
// temperature CSV stream and an orientation CSV stream.
//
// A .lid file is a 32 KiB tagged ASCII-in-binary header followed by
// fixed-size 1 MiB data pages, each itself prefixed with a small mini-header
// and packed with little-endian binary measurement blocks. See Driver for
// the top-level entry point.
package lidlog
