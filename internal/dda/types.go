package dda

// SkillLevel classifies a player by average run distance.
type SkillLevel int

const (
	SkillNone SkillLevel = iota - 1
	Noob
	Beginner
	Intermediate // Neutral level for type scoring
	Advanced
	Expert
)

// String returns a human-readable name for the skill level.
func (s SkillLevel) String() string {
	switch s {
	case SkillNone:
		return "NONE"
	case Noob:
		return "NOOB"
	case Beginner:
		return "BEGINNER"
	case Intermediate:
		return "INTERMEDIATE"
	case Advanced:
		return "ADVANCED"
	case Expert:
		return "EXPERT"
	default:
		return "UNKNOWN"
	}
}

// PlayerType classifies what kind of challenge a player enjoys.
type PlayerType int

const (
	TypeNone PlayerType = iota
	EasyFun
	HardFun
)

// String returns a human-readable name for the player type.
func (p PlayerType) String() string {
	switch p {
	case TypeNone:
		return "NONE"
	case EasyFun:
		return "EASY_FUN"
	case HardFun:
		return "HARD_FUN"
	default:
		return "UNKNOWN"
	}
}

// RunRecord is the summary of one finished run as saved to history.
type RunRecord struct {
	Distance    float64
	DeathCount  int // Cumulative, incremented at save time
	Type        PlayerType
	Skill       SkillLevel
	LaunchCount int
}

// Factors are the derived difficulty multipliers.
type Factors struct {
	TypeFactor      float64
	SkillFactor     float64
	SpeedModifier   float64 // Scales player acceleration
	ObstacleDensity float64 // Scales obstacle counts per segment
}

// NeutralFactors leaves speed and density untouched.
func NeutralFactors() Factors {
	return Factors{TypeFactor: 1, SkillFactor: 1, SpeedModifier: 1, ObstacleDensity: 1}
}

// State is a snapshot of the model for logging and display.
type State struct {
	Enabled      bool
	Type         PlayerType
	Skill        SkillLevel
	Factors      Factors
	DeathCounter int
	LaunchCount  int
}
