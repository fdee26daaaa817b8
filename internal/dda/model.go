// Package dda implements dynamic difficulty adjustment. A Model reads the
// saved run history at the start of each run, classifies the player's skill
// and type, and derives the speed and obstacle density multipliers used by
// the player and the track generator.
package dda

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Model holds the current classification and factors.
type Model struct {
	cfg    config.DDAConfig
	logger *log.Logger

	playerType   PlayerType
	skill        SkillLevel
	factors      Factors
	deathCounter int
	launchCount  int
}

// New creates a model with no classification and neutral factors.
func New(cfg config.DDAConfig, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(cfg.SkillThresholds) == 0 {
		cfg.SkillThresholds = DefaultSkillThresholds
	}
	return &Model{
		cfg:        cfg,
		logger:     logger,
		playerType: TypeNone,
		skill:      SkillNone,
		factors:    NeutralFactors(),
	}
}

// RecomputeFromHistory updates the classification and factors from saved
// records in save order. Histories of one record or less are ignored.
func (m *Model) RecomputeFromHistory(records []RunRecord) {
	if len(records) <= 1 {
		m.logger.Debug("not enough history to adjust difficulty", "records", len(records))
		return
	}

	avg := AverageDistance(records)
	m.skill = ClassifySkill(avg, m.cfg.SkillThresholds)

	if len(records) >= m.minHistoryForType() {
		m.playerType = ClassifyType(records, m.cfg.SkillThresholds)
	}

	if m.cfg.Enabled && m.playerType != TypeNone && m.skill != SkillNone {
		typeF := TypeFactor(m.playerType)
		skillF := SkillFactor(m.skill)
		product := typeF * skillF
		m.factors = Factors{
			TypeFactor:      typeF,
			SkillFactor:     skillF,
			SpeedModifier:   Amplify(product, m.cfg.SpeedAmplification),
			ObstacleDensity: Amplify(product, m.cfg.DensityAmplification),
		}
	}

	m.deathCounter = records[len(records)-1].DeathCount

	m.logger.Info("difficulty adjusted",
		"records", len(records),
		"avg", core.Round2(avg),
		"skill", m.skill,
		"type", m.playerType,
		"speed", core.Round2(m.factors.SpeedModifier),
		"density", core.Round2(m.factors.ObstacleDensity),
	)
}

func (m *Model) minHistoryForType() int {
	if m.cfg.MinHistoryForType <= 0 {
		return 5
	}
	return m.cfg.MinHistoryForType
}

// NewRecord builds the record saved when the current run ends.
// The distance is rounded to two decimals. The death counter advances only
// when the player died.
func (m *Model) NewRecord(distance float64, died bool) RunRecord {
	if died {
		m.deathCounter++
	}
	return RunRecord{
		Distance:    core.Round2(distance),
		DeathCount:  m.deathCounter,
		Type:        m.playerType,
		Skill:       m.skill,
		LaunchCount: m.launchCount,
	}
}

// SetLaunchCount sets the number of times the game has been launched.
func (m *Model) SetLaunchCount(n int) {
	m.launchCount = n
}

// SpeedModifier returns the multiplier applied to player acceleration.
func (m *Model) SpeedModifier() float64 {
	return m.factors.SpeedModifier
}

// ObstacleDensity returns the multiplier applied to obstacle counts.
func (m *Model) ObstacleDensity() float64 {
	return m.factors.ObstacleDensity
}

// DeathCounter returns the death count of the latest record.
func (m *Model) DeathCounter() int {
	return m.deathCounter
}

// Snapshot returns the current state.
func (m *Model) Snapshot() State {
	return State{
		Enabled:      m.cfg.Enabled,
		Type:         m.playerType,
		Skill:        m.skill,
		Factors:      m.factors,
		DeathCounter: m.deathCounter,
		LaunchCount:  m.launchCount,
	}
}
