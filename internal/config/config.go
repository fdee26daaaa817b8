// Package config provides YAML-based configuration loading and difficulty
// presets for the runner.
package config

import "github.com/go-gl/mathgl/mgl64"

// RunnerConfig contains all configuration for a runner simulation.
type RunnerConfig struct {
	Track      TrackConfig      `yaml:"track"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Tiers      TierConfig       `yaml:"tiers"`
	DDA        DDAConfig        `yaml:"dda"`
	Player     PlayerConfig     `yaml:"player"`
	History    HistoryConfig    `yaml:"history"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// Vec3 is a YAML-friendly 3D vector.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec returns the vector as mgl64.Vec3.
func (v Vec3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Color is a YAML-friendly RGB triple.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Palette is the ground and wall color pair used by a tier.
type Palette struct {
	Ground Color `yaml:"ground"`
	Wall   Color `yaml:"wall"`
}

// TrackConfig defines segment geometry and the generation window.
type TrackConfig struct {
	RenderDistance      float64 `yaml:"render_distance"`       // Look-ahead window in front of the player
	GroundScale         Vec3    `yaml:"ground_scale"`          // Starting ground size; Z is the length
	WallScale           Vec3    `yaml:"wall_scale"`            // Starting wall size; Z tracks ground length
	GroundOffset        float64 `yaml:"ground_offset"`         // Distance from player spawn height to the ground
	KeepOccupiedSegment bool    `yaml:"keep_occupied_segment"` // Prune one ground length behind the player
	// Palettes per tier name (START, EASY, ...). Tiers without an entry keep
	// the previous palette.
	Palettes map[string]Palette `yaml:"palettes"`
}

// ObstacleConfig defines obstacle placement constraints.
type ObstacleConfig struct {
	Baseline           int            `yaml:"baseline"`             // Added to the density-driven count
	MinCount           int            `yaml:"min_count"`            // Lower end of the count range
	NarrowFactor       float64        `yaml:"narrow_factor"`        // Range narrowing factor
	MinSpanToNarrow    int            `yaml:"min_span_to_narrow"`   // Span required before narrowing
	WallClearance      float64        `yaml:"wall_clearance"`       // X margin from each wall
	AttemptCap         int            `yaml:"attempt_cap"`          // Attempts per obstacle slot
	RerollChance       int            `yaml:"reroll_chance"`        // Proceed-anyway odds are 1 in N
	RerollHalfExtents  Vec3           `yaml:"reroll_half_extents"`  // Proximity probe
	OverlapHalfExtents Vec3           `yaml:"overlap_half_extents"` // Strict overlap probe
	Catalog            []ObstacleKind `yaml:"catalog"`
}

// ObstacleKind describes one obstacle type in the catalog.
type ObstacleKind struct {
	Name        string `yaml:"name"`
	HalfExtents Vec3   `yaml:"half_extents"`
	Color       Color  `yaml:"color"`
}

// TierConfig defines the speed thresholds for each tier.
type TierConfig struct {
	VeryEasy float64 `yaml:"very_easy"`
	Easy     float64 `yaml:"easy"`
	Medium   float64 `yaml:"medium"`
	Hard     float64 `yaml:"hard"`
	VeryHard float64 `yaml:"very_hard"`
	Extreme  float64 `yaml:"extreme"`
}

// DDAConfig defines the dynamic difficulty model.
type DDAConfig struct {
	Enabled              bool      `yaml:"enabled"`
	SkillThresholds      []float64 `yaml:"skill_thresholds"`      // Average distance bounds: beginner, intermediate, advanced, expert
	SpeedAmplification   float64   `yaml:"speed_amplification"`   // Applied to the speed modifier
	DensityAmplification float64   `yaml:"density_amplification"` // Applied to the obstacle density
	MinHistoryForType    int       `yaml:"min_history_for_type"`  // Records needed before classifying player type
}

// PlayerConfig defines the simulated player.
type PlayerConfig struct {
	Spawn        Vec3    `yaml:"spawn"`
	HalfExtents  Vec3    `yaml:"half_extents"`
	StartSpeed   float64 `yaml:"start_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`  // Forward speed gained per second
	LateralSpeed float64 `yaml:"lateral_speed"` // Steering speed in units per second
	BotSkill     float64 `yaml:"bot_skill"`     // Chance to dodge a detected obstacle
	LookAhead    float64 `yaml:"look_ahead"`    // Seconds of travel scanned for obstacles
}

// HistoryConfig defines run history persistence.
type HistoryConfig struct {
	MaxSavedValues int `yaml:"max_saved_values"` // Stored values before the history is wiped
}

// SimulationConfig defines the driver loop.
type SimulationConfig struct {
	TickRate int `yaml:"tick_rate"`
	MaxTicks int `yaml:"max_ticks"` // Upper bound for a single run; 0 = unbounded
}
