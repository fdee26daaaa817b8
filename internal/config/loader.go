package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// LoadRunner loads the runner configuration.
// Search order: customPath -> ~/.runner/configs/runner.yaml -> ./configs/runner.yaml -> embedded default
func LoadRunner(customPath string) (RunnerConfig, error) {
	// Start from defaults so partial files only override what they set
	cfg := DefaultRunnerConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("runner.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultRunnerConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/runner.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultRunnerConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultRunnerYAML, &cfg); err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runner", "configs", filename)
}

// Marshal renders the configuration as YAML.
func Marshal(cfg RunnerConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot marshal: %w", err)
	}
	return data, nil
}

// tierStep is the precision speeds are compared at when promoting tiers.
const tierStep = 0.01

// maxFactorProduct is the largest player type factor times the largest
// skill factor the difficulty model can produce.
const maxFactorProduct = 1.2 * 1.5

// MaxSpeedStep returns the largest forward speed gain in one tick.
func (c RunnerConfig) MaxSpeedStep() float64 {
	if c.Simulation.TickRate <= 0 {
		return 0
	}
	mod := 1.0
	if c.DDA.Enabled {
		mod = maxFactorProduct * max(1, c.DDA.SpeedAmplification)
	}
	return c.Player.Acceleration / float64(c.Simulation.TickRate) * mod
}

// Warnings reports settings that are valid but degrade the run.
func (c RunnerConfig) Warnings() []string {
	var warnings []string
	if step := c.MaxSpeedStep(); step >= tierStep {
		warnings = append(warnings, fmt.Sprintf(
			"speed can grow %.4f per tick, tier thresholds are matched at %.2f and may be skipped",
			step, tierStep))
	}
	return warnings
}

// Validate checks the values the generator and model rely on.
func (c RunnerConfig) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Track.RenderDistance > 0, "track.render_distance must be positive")
	check(c.Track.GroundScale.Z > 0, "track.ground_scale.z must be positive")
	check(c.Track.GroundScale.X > 2*c.Obstacles.WallClearance,
		"track.ground_scale.x (%v) must exceed twice obstacles.wall_clearance (%v)",
		c.Track.GroundScale.X, c.Obstacles.WallClearance)
	check(c.Obstacles.AttemptCap > 0, "obstacles.attempt_cap must be positive")
	check(c.Obstacles.RerollChance > 0, "obstacles.reroll_chance must be positive")
	check(c.Obstacles.NarrowFactor >= 0 && c.Obstacles.NarrowFactor <= 0.5,
		"obstacles.narrow_factor must be within [0, 0.5]")
	check(len(c.Obstacles.Catalog) > 0, "obstacles.catalog must not be empty")

	th := []float64{c.Tiers.VeryEasy, c.Tiers.Easy, c.Tiers.Medium, c.Tiers.Hard, c.Tiers.VeryHard, c.Tiers.Extreme}
	for i := 1; i < len(th); i++ {
		check(th[i] > th[i-1], "tiers must be strictly increasing (%v after %v)", th[i], th[i-1])
	}

	check(len(c.DDA.SkillThresholds) == 4, "dda.skill_thresholds needs 4 values, got %d", len(c.DDA.SkillThresholds))
	for i := 1; i < len(c.DDA.SkillThresholds); i++ {
		check(c.DDA.SkillThresholds[i] > c.DDA.SkillThresholds[i-1], "dda.skill_thresholds must be strictly increasing")
	}
	check(c.DDA.SpeedAmplification > 0, "dda.speed_amplification must be positive")
	check(c.DDA.DensityAmplification > 0, "dda.density_amplification must be positive")

	check(c.Player.MaxSpeed >= c.Player.StartSpeed, "player.max_speed must be at least player.start_speed")
	check(c.Player.BotSkill >= 0 && c.Player.BotSkill <= 1, "player.bot_skill must be within [0, 1]")
	check(c.History.MaxSavedValues > 0, "history.max_saved_values must be positive")
	check(c.Simulation.TickRate > 0, "simulation.tick_rate must be positive")

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
}
