package history

import (
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Prefs getters for keys that were never set.
var ErrKeyNotFound = errors.New("key not found")

// Prefs is a flat key-value store of numbers.
type Prefs interface {
	SetFloat(key string, v float64) error
	SetInt(key string, v int) error
	GetFloat(key string) (float64, error)
	GetInt(key string) (int, error)
	HasKey(key string) (bool, error)
	DeleteAll() error
}

// MemoryPrefs is an in-memory Prefs. The zero value is ready to use.
type MemoryPrefs struct {
	mu     sync.Mutex
	ints   map[string]int
	floats map[string]float64
}

// NewMemoryPrefs creates an empty in-memory store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{}
}

func (p *MemoryPrefs) init() {
	if p.ints == nil {
		p.ints = make(map[string]int)
		p.floats = make(map[string]float64)
	}
}

// SetFloat stores a float value, replacing any previous value for key.
func (p *MemoryPrefs) SetFloat(key string, v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	delete(p.ints, key)
	p.floats[key] = v
	return nil
}

// SetInt stores an int value, replacing any previous value for key.
func (p *MemoryPrefs) SetInt(key string, v int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	delete(p.floats, key)
	p.ints[key] = v
	return nil
}

// GetFloat returns the float stored at key.
func (p *MemoryPrefs) GetFloat(key string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.floats[key]
	if !ok {
		return 0, ErrKeyNotFound
	}
	return v, nil
}

// GetInt returns the int stored at key.
func (p *MemoryPrefs) GetInt(key string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.ints[key]
	if !ok {
		return 0, ErrKeyNotFound
	}
	return v, nil
}

// HasKey reports whether any value is stored at key.
func (p *MemoryPrefs) HasKey(key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, isInt := p.ints[key]
	_, isFloat := p.floats[key]
	return isInt || isFloat, nil
}

// DeleteAll removes every key.
func (p *MemoryPrefs) DeleteAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ints = nil
	p.floats = nil
	return nil
}

// Len returns the number of stored keys.
func (p *MemoryPrefs) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ints) + len(p.floats)
}
