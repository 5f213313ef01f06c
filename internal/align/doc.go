// Package align matches authored visual panels against transcription output
// to produce frame-accurate panel timing.
//
// Matching is tiered: a segment-similarity match (score > 0.5) wins,
// otherwise a word-sequence scan reports fixed 0.7 confidence, otherwise the
// panel keeps its authored placement at confidence 0 with a manual-review
// warning. Scenes authored without panels get one auto-generated panel per
// transcription segment. The design favors explainability over matching
// accuracy: every result carries its matchType and confidence, ambiguity is
// surfaced rather than hidden.
package align
