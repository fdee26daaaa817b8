package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown values return "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// AccelerationForPreset returns the acceleration multiplier for a preset.
func AccelerationForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.75
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

// IsFixedPreset returns true if the preset disables dynamic difficulty.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyRunnerPreset modifies the config based on a difficulty preset.
func ApplyRunnerPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.DDA.Enabled = false
		return
	}
	cfg.DDA.Enabled = true
	cfg.Player.Acceleration *= AccelerationForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Player.BotSkill = min(1, cfg.Player.BotSkill+0.1)
		cfg.Track.RenderDistance *= 0.75
	case DifficultyHard:
		cfg.Obstacles.Baseline++
	}
}
