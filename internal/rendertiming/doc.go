// Package rendertiming computes the per-scene frame table for the render
// composition and patches the render project's TypeScript timing constants
// in place.
//
// A scene's slot is ceil(durationSeconds * fps) + bufferFrames, with the
// buffer expressed in frames, never seconds. Start frames are the strict
// prefix sum of earlier slots in declaration order, so the composition is
// gap-free and overlap-free by construction.
package rendertiming
