// Package textutil provides text normalization and similarity scoring for
// matching authored panel text against transcription output.
package textutil
