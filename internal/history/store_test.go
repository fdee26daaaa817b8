package history

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/dda"
)

func newTestStore(maxValues int) (*Store, *MemoryPrefs) {
	prefs := NewMemoryPrefs()
	return NewStore(prefs, config.HistoryConfig{MaxSavedValues: maxValues}, nil), prefs
}

func TestAppendAndLoadAll(t *testing.T) {
	s, _ := newTestStore(5000)

	want := []dda.RunRecord{
		{Distance: 512.25, DeathCount: 1, Type: dda.TypeNone, Skill: dda.SkillNone, LaunchCount: 1},
		{Distance: 830.5, DeathCount: 2, Type: dda.EasyFun, Skill: dda.Beginner, LaunchCount: 1},
		{Distance: 1900, DeathCount: 3, Type: dda.HardFun, Skill: dda.Intermediate, LaunchCount: 2},
	}
	for _, r := range want {
		if err := s.Append(r); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("LoadAll() returned %d records, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestLoadAllFromExistingPrefs(t *testing.T) {
	prefs := NewMemoryPrefs()
	first := NewStore(prefs, config.HistoryConfig{MaxSavedValues: 5000}, nil)
	_ = first.Append(dda.RunRecord{Distance: 100, DeathCount: 1})
	_ = first.Append(dda.RunRecord{Distance: 200, DeathCount: 2})

	// A new store over the same prefs finds the saved records.
	second := NewStore(prefs, config.HistoryConfig{MaxSavedValues: 5000}, nil)
	n, err := second.Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, expected 2", n)
	}
}

func TestAppendWipesOnOverflow(t *testing.T) {
	// Room for two records.
	s, prefs := newTestStore(10)
	if _, err := s.RecordLaunch(); err != nil {
		t.Fatalf("RecordLaunch() failed: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := s.Append(dda.RunRecord{Distance: float64(i * 100), DeathCount: i}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}
	if err := s.Append(dda.RunRecord{Distance: 300, DeathCount: 3}); err != nil {
		t.Fatalf("Append() after full failed: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(got) != 1 || got[0].Distance != 300 {
		t.Errorf("after wipe records = %+v, expected only the 300 run", got)
	}

	launches, err := s.LaunchCount()
	if err != nil || launches != 1 {
		t.Errorf("LaunchCount() = %d, %v; expected 1 to survive the wipe", launches, err)
	}
	// launch counter + one record
	if prefs.Len() != 1+valuesPerRecord {
		t.Errorf("prefs hold %d keys, expected %d", prefs.Len(), 1+valuesPerRecord)
	}
}

func TestRecordLaunch(t *testing.T) {
	s, _ := newTestStore(5000)

	n, err := s.LaunchCount()
	if err != nil || n != 0 {
		t.Fatalf("initial LaunchCount() = %d, %v", n, err)
	}
	for want := 1; want <= 3; want++ {
		got, err := s.RecordLaunch()
		if err != nil {
			t.Fatalf("RecordLaunch() failed: %v", err)
		}
		if got != want {
			t.Errorf("RecordLaunch() = %d, expected %d", got, want)
		}
	}
}

func TestReset(t *testing.T) {
	s, prefs := newTestStore(5000)
	_, _ = s.RecordLaunch()
	_ = s.Append(dda.RunRecord{Distance: 10})

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if prefs.Len() != 0 {
		t.Errorf("prefs hold %d keys after reset, expected 0", prefs.Len())
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count() = %d after reset", n)
	}
}

type failingPrefs struct {
	MemoryPrefs
}

var errDisk = errors.New("disk full")

func (p *failingPrefs) SetFloat(string, float64) error { return errDisk }

func TestAppendPropagatesErrors(t *testing.T) {
	s := NewStore(&failingPrefs{}, config.HistoryConfig{MaxSavedValues: 5000}, nil)
	err := s.Append(dda.RunRecord{Distance: 1})
	if !errors.Is(err, errDisk) {
		t.Errorf("Append() error = %v, expected wrapped errDisk", err)
	}
}

func TestMemoryPrefsMissingKey(t *testing.T) {
	p := NewMemoryPrefs()
	if _, err := p.GetInt("nope"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("GetInt() error = %v, expected ErrKeyNotFound", err)
	}
	_ = p.SetInt("k", 1)
	_ = p.SetFloat("k", 2.5)
	if _, err := p.GetInt("k"); err == nil {
		t.Error("SetFloat should replace the int value")
	}
	if v, _ := p.GetFloat("k"); v != 2.5 {
		t.Errorf("GetFloat() = %v, expected 2.5", v)
	}
}
