// Package transcribe turns synthesized narration clips into segment- and
// word-level timestamps via a WhisperX-style command-line service.
//
// The adapter is partial-failure tolerant by design: one scene's provider
// error is recorded on that scene's record and processing continues. Every
// timestamp is accompanied by a derived frame number so downstream
// consumers never repeat the seconds-to-frames conversion.
package transcribe
