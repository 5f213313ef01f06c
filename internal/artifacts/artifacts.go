package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Canonical artifact file names inside the artifacts directory.
const (
	AudioMetadataFile  = "audio_metadata.json"
	TranscriptionFile  = "transcription.json"
	VisualPanelsFile   = "visual_panels.json"
	CaptionTimingFile  = "caption_timing.json"
)

// Timestamp returns the RFC3339 generatedAt stamp for an artifact written now.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// WriteJSON atomically persists v as indented JSON: the payload goes to a
// temp file in the same directory and is renamed into place, so a crashed
// run never leaves a half-written artifact behind.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}

// ReadJSON loads an artifact into v. A missing file is reported via
// fs.ErrNotExist so callers can distinguish "never generated" from
// corruption.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Exists reports whether an artifact file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
