// Package catalog holds the fixed, ordered set of obstacle kinds the track
// generator can place. Kinds are addressed by index, matching the order in
// the configuration.
package catalog

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Kind describes one obstacle type.
type Kind struct {
	Index       int
	Name        string
	HalfExtents mgl64.Vec3
	Color       core.RGBA
}

// KindInfo contains display metadata about a kind.
type KindInfo struct {
	Index int
	Name  string
}

// Catalog is an immutable, index-addressed list of obstacle kinds.
type Catalog struct {
	kinds  []Kind
	byName map[string]int
}

// New builds a catalog from configured kinds.
// Returns an error if the list is empty or a name repeats.
func New(kinds []config.ObstacleKind) (*Catalog, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("catalog: no obstacle kinds configured")
	}

	c := &Catalog{
		kinds:  make([]Kind, 0, len(kinds)),
		byName: make(map[string]int, len(kinds)),
	}
	for i, k := range kinds {
		if _, exists := c.byName[k.Name]; exists {
			return nil, fmt.Errorf("catalog: obstacle kind %q already registered", k.Name)
		}
		c.byName[k.Name] = i
		c.kinds = append(c.kinds, Kind{
			Index:       i,
			Name:        k.Name,
			HalfExtents: k.HalfExtents.Vec(),
			Color:       core.NewRGBA(k.Color.R, k.Color.G, k.Color.B),
		})
	}
	return c, nil
}

// Size returns the number of kinds.
func (c *Catalog) Size() int {
	return len(c.kinds)
}

// Kind returns the kind at index i.
func (c *Catalog) Kind(i int) (Kind, error) {
	if i < 0 || i >= len(c.kinds) {
		return Kind{}, fmt.Errorf("catalog: unknown obstacle index %d", i)
	}
	return c.kinds[i], nil
}

// Lookup returns the kind with the given name.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Kind{}, false
	}
	return c.kinds[i], true
}

// List returns information about all kinds, sorted by name.
func (c *Catalog) List() []KindInfo {
	result := make([]KindInfo, 0, len(c.kinds))
	for _, k := range c.kinds {
		result = append(result, KindInfo{Index: k.Index, Name: k.Name})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
