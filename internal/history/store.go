// Package history persists finished runs as an append-only log on top of a
// flat key-value store. Each record is written as one key per field with the
// record index as suffix. When the store grows past its limit the whole log
// is wiped and indexing restarts at zero.
package history

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/dda"
)

// Key prefixes for record fields.
const (
	KeyDistance     = "distance"
	KeyDeathCounter = "deathCounter"
	KeyPlayerType   = "playerType"
	KeyPlayerSkill  = "playerSkill"
	KeyLaunched     = "timesLaunched"

	// KeyLaunchCounter holds the global launch count. It survives wipes.
	KeyLaunchCounter = "launchCounter"
)

// valuesPerRecord is the number of keys written for one record.
const valuesPerRecord = 5

// Store is the run history log.
type Store struct {
	prefs     Prefs
	maxValues int
	logger    *log.Logger

	next   int // Index of the next record, valid once loaded
	loaded bool
}

// NewStore creates a history store over prefs.
func NewStore(prefs Prefs, cfg config.HistoryConfig, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		prefs:     prefs,
		maxValues: cfg.MaxSavedValues,
		logger:    logger,
	}
}

func key(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

// Count returns the number of saved records.
func (s *Store) Count() (int, error) {
	if s.loaded {
		return s.next, nil
	}
	n := 0
	for {
		ok, err := s.prefs.HasKey(key(KeyDistance, n))
		if err != nil {
			return 0, fmt.Errorf("history: cannot probe record %d: %w", n, err)
		}
		if !ok {
			break
		}
		n++
	}
	s.next = n
	s.loaded = true
	return n, nil
}

// LoadAll returns every saved record in save order.
func (s *Store) LoadAll() ([]dda.RunRecord, error) {
	n, err := s.Count()
	if err != nil {
		return nil, err
	}

	records := make([]dda.RunRecord, 0, n)
	for i := 0; i < n; i++ {
		r, err := s.load(i)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Store) load(i int) (dda.RunRecord, error) {
	var r dda.RunRecord
	var err error

	if r.Distance, err = s.prefs.GetFloat(key(KeyDistance, i)); err != nil {
		return r, fmt.Errorf("history: cannot read record %d distance: %w", i, err)
	}
	if r.DeathCount, err = s.prefs.GetInt(key(KeyDeathCounter, i)); err != nil {
		return r, fmt.Errorf("history: cannot read record %d death counter: %w", i, err)
	}
	typ, err := s.prefs.GetInt(key(KeyPlayerType, i))
	if err != nil {
		return r, fmt.Errorf("history: cannot read record %d player type: %w", i, err)
	}
	skill, err := s.prefs.GetInt(key(KeyPlayerSkill, i))
	if err != nil {
		return r, fmt.Errorf("history: cannot read record %d player skill: %w", i, err)
	}
	if r.LaunchCount, err = s.prefs.GetInt(key(KeyLaunched, i)); err != nil {
		return r, fmt.Errorf("history: cannot read record %d launch count: %w", i, err)
	}
	r.Type = dda.PlayerType(typ)
	r.Skill = dda.SkillLevel(skill)
	return r, nil
}

// Append saves a record at the end of the log. If the log is full it is
// wiped first and the record becomes the first entry.
func (s *Store) Append(r dda.RunRecord) error {
	i, err := s.Count()
	if err != nil {
		return err
	}

	if s.maxValues > 0 && i*valuesPerRecord >= s.maxValues {
		s.logger.Warn("run history full, wiping saved runs", "records", i, "max_values", s.maxValues)
		if err := s.wipe(true); err != nil {
			return err
		}
		i = 0
	}

	// Distance goes last: its presence marks a complete record.
	writes := []struct {
		prefix string
		value  int
	}{
		{KeyDeathCounter, r.DeathCount},
		{KeyPlayerType, int(r.Type)},
		{KeyPlayerSkill, int(r.Skill)},
		{KeyLaunched, r.LaunchCount},
	}
	for _, w := range writes {
		if err := s.prefs.SetInt(key(w.prefix, i), w.value); err != nil {
			return fmt.Errorf("history: cannot save record %d: %w", i, err)
		}
	}
	if err := s.prefs.SetFloat(key(KeyDistance, i), r.Distance); err != nil {
		return fmt.Errorf("history: cannot save record %d: %w", i, err)
	}

	s.next = i + 1
	s.logger.Debug("saved run", "index", i, "distance", r.Distance, "deaths", r.DeathCount)
	return nil
}

// LaunchCount returns the global launch counter, 0 if never recorded.
func (s *Store) LaunchCount() (int, error) {
	n, err := s.prefs.GetInt(KeyLaunchCounter)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("history: cannot read launch counter: %w", err)
	}
	return n, nil
}

// RecordLaunch increments the launch counter and returns the new value.
func (s *Store) RecordLaunch() (int, error) {
	n, err := s.LaunchCount()
	if err != nil {
		return 0, err
	}
	n++
	if err := s.prefs.SetInt(KeyLaunchCounter, n); err != nil {
		return 0, fmt.Errorf("history: cannot save launch counter: %w", err)
	}
	return n, nil
}

// Reset deletes all records and the launch counter.
func (s *Store) Reset() error {
	return s.wipe(false)
}

func (s *Store) wipe(keepLaunches bool) error {
	launches, err := s.LaunchCount()
	if err != nil {
		return err
	}
	if err := s.prefs.DeleteAll(); err != nil {
		return fmt.Errorf("history: cannot wipe: %w", err)
	}
	if keepLaunches && launches > 0 {
		if err := s.prefs.SetInt(KeyLaunchCounter, launches); err != nil {
			return fmt.Errorf("history: cannot restore launch counter: %w", err)
		}
	}
	s.next = 0
	s.loaded = true
	return nil
}
