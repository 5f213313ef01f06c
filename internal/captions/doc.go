// Package captions estimates word and segment timing from narration text
// and clip duration alone, for contexts where transcription ground truth is
// unavailable, and exports the result as SRT or WebVTT.
package captions
