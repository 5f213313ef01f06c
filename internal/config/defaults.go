package config

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Project: Project{
			CompositionID:    "main",
			FPS:              60,
			ScriptPath:       "script.json",
			AssetsDir:        "public/audio",
			ArtifactsDir:     "artifacts",
			RenderTimingPath: "src/timing.ts",
			LogDir:           "",
		},
		Synthesis: Synthesis{
			Provider:            "azure",
			Voice:               "ko-KR-InJoonNeural",
			Language:            "ko",
			PollIntervalSeconds: 5,
			PollTimeoutSeconds:  600,
		},
		Transcription: Transcription{
			Model:       "large-v3",
			CUDAEnabled: false,
		},
		Timing: Timing{
			BufferFrames:       5,
			MaxWordsPerCaption: 7,
		},
		Validation: Validation{
			TolerancePercent:       5,
			StrictTolerancePercent: 3,
			MinSceneSeconds:        5,
			MaxSceneSeconds:        45,
			MinCharsPerSecond:      2,
			MaxCharsPerSecond:      8,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
