package catalogue

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Cost is a resource breakdown. Absent resources are nil, not zero.
type Cost struct {
	Food  *int `json:"Food,omitempty"`
	Wood  *int `json:"Wood,omitempty"`
	Gold  *int `json:"Gold,omitempty"`
	Stone *int `json:"Stone,omitempty"`
}

// ClassAmount is one attack or armour sub-entry.
type ClassAmount struct {
	Amount float64 `json:"Amount"`
	Class  int     `json:"Class"`
}

// Stats is the numeric record backing an entity. Every field is optional;
// nil means "not applicable".
type Stats struct {
	Cost               *Cost         `json:"Cost,omitempty"`
	HP                 *float64      `json:"HP,omitempty"`
	Attack             *float64      `json:"Attack,omitempty"`
	MeleeArmor         *float64      `json:"MeleeArmor,omitempty"`
	PierceArmor        *float64      `json:"PierceArmor,omitempty"`
	Range              *float64      `json:"Range,omitempty"`
	MinRange           *float64      `json:"MinRange,omitempty"`
	LineOfSight        *float64      `json:"LineOfSight,omitempty"`
	Speed              *float64      `json:"Speed,omitempty"`
	GarrisonCapacity   *float64      `json:"GarrisonCapacity,omitempty"`
	ReloadTime         *float64      `json:"ReloadTime,omitempty"`
	TrainTime          *float64      `json:"TrainTime,omitempty"`
	ResearchTime       *float64      `json:"ResearchTime,omitempty"`
	AccuracyPercent    *float64      `json:"AccuracyPercent,omitempty"`
	FrameDelay         *float64      `json:"FrameDelay,omitempty"`
	MaxCharge          *float64      `json:"MaxCharge,omitempty"`
	RechargeRate       *float64      `json:"RechargeRate,omitempty"`
	RechargeDuration   *float64      `json:"RechargeDuration,omitempty"`
	AttackDelaySeconds *float64      `json:"AttackDelaySeconds,omitempty"`
	Attacks            []ClassAmount `json:"Attacks,omitempty"`
	Armours            []ClassAmount `json:"Armours,omitempty"`
}

// Entity is one row of a stat-table partition: the string-table ids used to
// label it, plus its stat record. Stats is nil when the data provider has no
// numeric record for the entity.
type Entity struct {
	Kind         Kind   `json:"-"`
	ID           int    `json:"-"`
	NameStringID int    `json:"LanguageNameId"`
	HelpStringID int    `json:"LanguageHelpId"`
	Stats        *Stats `json:"-"`
}

// UnmarshalJSON reads the flat record format of data.json, where string ids
// and stats share one object.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var ids struct {
		NameStringID int `json:"LanguageNameId"`
		HelpStringID int `json:"LanguageHelpId"`
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return err
	}
	e.NameStringID = ids.NameStringID
	e.HelpStringID = ids.HelpStringID
	if !stats.empty() {
		e.Stats = &stats
	}
	return nil
}

// MarshalJSON writes the flat record format read by UnmarshalJSON.
func (e Entity) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"LanguageNameId": e.NameStringID,
		"LanguageHelpId": e.HelpStringID,
	}
	if e.Stats != nil {
		raw, err := json.Marshal(e.Stats)
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func (s *Stats) empty() bool {
	return s.Cost == nil && s.HP == nil && s.Attack == nil && s.MeleeArmor == nil &&
		s.PierceArmor == nil && s.Range == nil && s.MinRange == nil && s.LineOfSight == nil &&
		s.Speed == nil && s.GarrisonCapacity == nil && s.ReloadTime == nil && s.TrainTime == nil &&
		s.ResearchTime == nil && s.AccuracyPercent == nil && s.FrameDelay == nil &&
		s.MaxCharge == nil && s.RechargeRate == nil && s.RechargeDuration == nil &&
		s.AttackDelaySeconds == nil && len(s.Attacks) == 0 && len(s.Armours) == 0
}

// StatTable is the data provider's stat store, partitioned by kind and keyed
// by numeric id.
type StatTable map[Partition]map[int]*Entity

// Entity looks up the record for (kind, numeric id).
func (t StatTable) Entity(kind Kind, id int) (*Entity, bool) {
	part, ok := t[kind.Partition()]
	if !ok {
		return nil, false
	}
	e, ok := part[id]
	return e, ok
}

// Put stores e under its kind's partition.
func (t StatTable) Put(e *Entity) {
	p := e.Kind.Partition()
	if t[p] == nil {
		t[p] = make(map[int]*Entity)
	}
	t[p][e.ID] = e
}

// Strings is the localized string table keyed by numeric string id.
type Strings map[int]string

// Lookup returns the text for id.
func (s Strings) Lookup(id int) (string, bool) {
	v, ok := s[id]
	return v, ok
}

// UniqueSlots holds the four civilization-specific ids that grant
// availability outside the owned lists.
type UniqueSlots struct {
	CastleAgeUniqueUnit   int `json:"castleAgeUniqueUnit" toml:"castleAgeUniqueUnit"`
	ImperialAgeUniqueUnit int `json:"imperialAgeUniqueUnit" toml:"imperialAgeUniqueUnit"`
	CastleAgeUniqueTech   int `json:"castleAgeUniqueTech" toml:"castleAgeUniqueTech"`
	ImperialAgeUniqueTech int `json:"imperialAgeUniqueTech" toml:"imperialAgeUniqueTech"`
}

// Civilization is one civilization profile. It is immutable for a session and
// swapped wholesale on civ change.
type Civilization struct {
	ID         string      `json:"id" toml:"id"`
	Buildings  []int       `json:"buildings" toml:"buildings"`
	Units      []int       `json:"units" toml:"units"`
	Techs      []int       `json:"techs" toml:"techs"`
	Unique     UniqueSlots `json:"unique" toml:"unique"`
	MonkPrefix string      `json:"monkPrefix,omitempty" toml:"monkPrefix"`
}

// Owned returns the owned-id list matching kind.
func (c *Civilization) Owned(kind Kind) []int {
	switch kind {
	case KindBuilding:
		return c.Buildings
	case KindTechnology:
		return c.Techs
	default:
		return c.Units
	}
}

// Catalogue bundles everything the data and layout providers hand over.
type Catalogue struct {
	Layout  Layout                   `json:"layout"`
	Stats   StatTable                `json:"-"`
	Strings Strings                  `json:"-"`
	Civs    map[string]*Civilization `json:"-"`
}

// New returns an empty catalogue with all maps allocated.
func New() *Catalogue {
	return &Catalogue{
		Stats:   make(StatTable),
		Strings: make(Strings),
		Civs:    make(map[string]*Civilization),
	}
}

// Civ returns the civilization with the given id.
func (c *Catalogue) Civ(id string) (*Civilization, bool) {
	civ, ok := c.Civs[id]
	return civ, ok
}

// EntityForNode resolves the stat-table entity behind a node id.
func (c *Catalogue) EntityForNode(kind Kind, nodeID string) (*Entity, error) {
	n, err := NumericID(nodeID)
	if err != nil {
		return nil, err
	}
	e, ok := c.Stats.Entity(kind, n)
	if !ok {
		return nil, fmt.Errorf("entity %s %s: %w", kind, nodeID, ErrNotFound)
	}
	return e, nil
}

// DisplayName resolves a node's name through the string table. The node's
// Name field may hold either a numeric string id or literal text.
func (c *Catalogue) DisplayName(n Node) string {
	if e, err := c.EntityForNode(n.Kind, n.ID); err == nil {
		if s, ok := c.Strings.Lookup(e.NameStringID); ok {
			return s
		}
	}
	if id, err := strconv.Atoi(n.Name); err == nil {
		if s, ok := c.Strings.Lookup(id); ok {
			return s
		}
	}
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
