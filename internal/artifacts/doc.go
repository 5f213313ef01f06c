// Package artifacts provides atomic JSON persistence for the pipeline's
// generated timing data. Every store (audio metadata, transcription, visual
// panels, caption timing) goes through WriteJSON/ReadJSON so artifact files
// are always either complete or absent.
package artifacts
