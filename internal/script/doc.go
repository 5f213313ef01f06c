// Package script models the authored narration document: ordered scenes,
// each with narration text and optional visual panels.
package script
