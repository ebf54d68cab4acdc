// Package civ answers whether an entity is available to a civilization and
// derives the badge styling shown next to cross-references.
package civ

import (
	"sort"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

// Badge opacities applied by the rendering surface.
const (
	OpacityAvailable   = 1.0
	OpacityUnavailable = 0.2
)

// Badge is the availability of one entity for one civilization.
type Badge struct {
	Civ       string  `json:"civ"`
	Available bool    `json:"available"`
	Opacity   float64 `json:"opacity"`
}

type owned struct {
	civ       *catalogue.Civilization
	units     map[int]bool
	buildings map[int]bool
	techs     map[int]bool
}

// Index is an immutable lookup over a set of civilization profiles.
type Index struct {
	civs map[string]*owned
	ids  []string
}

// NewIndex builds an Index. The profiles are not modified.
func NewIndex(civs map[string]*catalogue.Civilization) *Index {
	idx := &Index{civs: make(map[string]*owned, len(civs))}
	for id, c := range civs {
		if c == nil {
			continue
		}
		idx.civs[id] = &owned{
			civ:       c,
			units:     set(c.Units),
			buildings: set(c.Buildings),
			techs:     set(c.Techs),
		}
		idx.ids = append(idx.ids, id)
	}
	sort.Strings(idx.ids)
	return idx
}

// IsAvailable reports whether civID can obtain the entity with the given
// node id. Units and techs also match the civ's castle- and imperial-age
// unique slots; buildings only match the owned list. Unknown civs and
// malformed ids are never available.
func (idx *Index) IsAvailable(civID string, kind catalogue.Kind, id string) bool {
	o, ok := idx.civs[civID]
	if !ok {
		return false
	}
	n, err := catalogue.NumericID(id)
	if err != nil {
		return false
	}

	slots := o.civ.Unique
	switch kind {
	case catalogue.KindUnit, catalogue.KindUniqueUnit:
		return o.units[n] || inSlot(n, slots.CastleAgeUniqueUnit, slots.ImperialAgeUniqueUnit)
	case catalogue.KindTechnology:
		return o.techs[n] || inSlot(n, slots.CastleAgeUniqueTech, slots.ImperialAgeUniqueTech)
	case catalogue.KindBuilding:
		return o.buildings[n]
	}
	return false
}

// Badges returns the availability of an entity for every known
// civilization, ordered by civ id.
func (idx *Index) Badges(kind catalogue.Kind, id string) []Badge {
	badges := make([]Badge, 0, len(idx.ids))
	for _, civID := range idx.ids {
		ok := idx.IsAvailable(civID, kind, id)
		badges = append(badges, Badge{Civ: civID, Available: ok, Opacity: Opacity(ok)})
	}
	return badges
}

// Civs returns the known civilization ids, sorted.
func (idx *Index) Civs() []string {
	return append([]string(nil), idx.ids...)
}

// Has reports whether civID is a known civilization.
func (idx *Index) Has(civID string) bool {
	_, ok := idx.civs[civID]
	return ok
}

// Opacity maps availability to a badge opacity.
func Opacity(available bool) float64 {
	if available {
		return OpacityAvailable
	}
	return OpacityUnavailable
}

// inSlot matches n against unique slots. A zero slot is unset.
func inSlot(n int, slots ...int) bool {
	for _, s := range slots {
		if s != 0 && s == n {
			return true
		}
	}
	return false
}

func set(ids []int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
