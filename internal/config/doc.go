// Package config loads and validates the reeltime configuration file.
//
// All ambient inputs (paths, fps, thresholds, provider settings, credentials)
// are resolved once here into a single Config value that gets threaded
// through every stage; leaf code never reads the environment or resolves
// cwd-relative paths on its own.
package config
