// Package tts synthesizes scene narration into audio clips. Providers hide
// whether synthesis is a one-shot CLI call or an asynchronous job polled to
// completion.
package tts
