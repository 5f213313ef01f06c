// Command reeltime drives the narration timing pipeline: synthesize clips,
// probe their durations, transcribe, align panels, estimate captions, and
// patch the render project's timing constants.
package main
