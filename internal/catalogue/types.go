package catalogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a requested entity, node or civilization
// does not exist in the catalogue.
var ErrNotFound = errors.New("not found")

// Kind identifies what a diagram node represents.
type Kind string

const (
	KindUnit       Kind = "UNIT"
	KindUniqueUnit Kind = "UNIQUE_UNIT"
	KindBuilding   Kind = "BUILDING"
	KindTechnology Kind = "TECHNOLOGY"
)

// validKinds is the set of recognized node kinds.
var validKinds = map[Kind]bool{
	KindUnit:       true,
	KindUniqueUnit: true,
	KindBuilding:   true,
	KindTechnology: true,
}

// ParseKind accepts the canonical upper-case names as well as the lower-case
// partition names used in URLs ("unit", "building", "tech").
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case "TECH":
		k = KindTechnology
	case "UNIQUEUNIT", "UNIQUE-UNIT":
		k = KindUniqueUnit
	}
	if !validKinds[k] {
		return "", fmt.Errorf("invalid kind %q: must be one of UNIT, UNIQUE_UNIT, BUILDING, TECHNOLOGY", s)
	}
	return k, nil
}

// Partition is the stat-table partition an entity kind is stored under.
type Partition string

const (
	PartitionUnits     Partition = "units"
	PartitionBuildings Partition = "buildings"
	PartitionTechs     Partition = "techs"
)

// Partition maps a kind to its stat-table partition.
func (k Kind) Partition() Partition {
	switch k {
	case KindBuilding:
		return PartitionBuildings
	case KindTechnology:
		return PartitionTechs
	default:
		return PartitionUnits
	}
}

// Prefix returns the type prefix used in node ids of this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindTechnology:
		return "tech"
	default:
		return "unit"
	}
}

// NumericID strips the leading type-prefix segment from a node id:
// "building_72" -> 72. Ids without a prefix are parsed as-is.
func NumericID(id string) (int, error) {
	s := id
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		s = id[i+1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing entity id %q: %w", id, err)
	}
	return n, nil
}

// FormatID re-attaches the type prefix of kind to a numeric id.
func FormatID(kind Kind, n int) string {
	return kind.Prefix() + "_" + strconv.Itoa(n)
}

// Rect is an axis-aligned rectangle in diagram coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is a single laid-out diagram entity. Geometry is owned by the layout
// provider and never changed here.
type Node struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	Rect
}

// Connection is a directed prerequisite edge from Parent to Child.
type Connection struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// ID returns the stable edge identity used by the rendering surface.
func (c Connection) ID() string {
	return c.Parent + "->" + c.Child
}

// Layout is the node/connection graph handed over by the layout provider.
type Layout struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Node returns the node with the given id.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// UnmarshalJSON accepts both the object form {"parent":..,"child":..} and the
// compact pair form ["parent","child"].
func (c *Connection) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("connection must have exactly 2 ids, got %d", len(pair))
		}
		c.Parent, c.Child = pair[0], pair[1]
		return nil
	}
	type plain Connection
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Connection(p)
	return nil
}
