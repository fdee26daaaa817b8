package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Track: TrackConfig{
			RenderDistance:      400,
			GroundScale:         Vec3{X: 10, Y: 1, Z: 30},
			WallScale:           Vec3{X: 1, Y: 1, Z: 30},
			GroundOffset:        1.5,
			KeepOccupiedSegment: true,
			Palettes: map[string]Palette{
				"START":     {Ground: Color{0, 255, 10}, Wall: Color{10, 95, 2}},
				"EASY":      {Ground: Color{0, 255, 250}, Wall: Color{10, 125, 120}},
				"MEDIUM":    {Ground: Color{10, 25, 240}, Wall: Color{10, 15, 105}},
				"HARD":      {Ground: Color{255, 155, 0}, Wall: Color{155, 95, 10}},
				"VERY_HARD": {Ground: Color{255, 0, 0}, Wall: Color{115, 5, 5}},
				"EXTREME":   {Ground: Color{255, 0, 255}, Wall: Color{150, 15, 150}},
			},
		},
		Obstacles: ObstacleConfig{
			Baseline:           2,
			MinCount:           1,
			NarrowFactor:       0.4,
			MinSpanToNarrow:    5,
			WallClearance:      1.5,
			AttemptCap:         1000,
			RerollChance:       5,
			RerollHalfExtents:  Vec3{X: 3, Y: 1, Z: 3},
			OverlapHalfExtents: Vec3{X: 1.5, Y: 1, Z: 1.5},
			Catalog: []ObstacleKind{
				{Name: "cube", HalfExtents: Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Color: Color{0, 0, 0}},
				{Name: "pillar", HalfExtents: Vec3{X: 0.5, Y: 2, Z: 0.5}, Color: Color{0, 0, 0}},
				{Name: "quad", HalfExtents: Vec3{X: 1, Y: 1, Z: 0.1}, Color: Color{0, 0, 0}},
			},
		},
		Tiers: TierConfig{
			VeryEasy: 8,
			Easy:     12,
			Medium:   16,
			Hard:     20,
			VeryHard: 24,
			Extreme:  28,
		},
		DDA: DDAConfig{
			Enabled:              true,
			SkillThresholds:      []float64{600, 1200, 2500, 4000},
			SpeedAmplification:   1.1,
			DensityAmplification: 1.25,
			MinHistoryForType:    5,
		},
		Player: PlayerConfig{
			Spawn:        Vec3{X: 0, Y: 1.5, Z: 0},
			HalfExtents:  Vec3{X: 0.5, Y: 0.5, Z: 0.5},
			StartSpeed:   8,
			MaxSpeed:     32,
			Acceleration: 0.3,
			LateralSpeed: 12,
			BotSkill:     0.85,
			LookAhead:    0.6,
		},
		History: HistoryConfig{
			MaxSavedValues: 5000,
		},
		Simulation: SimulationConfig{
			TickRate: 60,
			MaxTicks: 60 * 60 * 10, // 10 minutes of play
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRunnerYAML
}
