// Package export turns decoded sprites into files other tools read: GIF
// animations, horizontal sprite sheets and JSON manifests.
package export
