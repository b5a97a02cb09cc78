// Package inventory holds per-connection entity bookkeeping: the
// number-to-name mappings, the valid-number sets, the zone-to-areas
// mapping, and the entity state cache diffed by the change-of-state
// notifier.
package inventory

import (
	"bytes"
	"sync"

	"github.com/ace2go/ace2/flags"
)

// Kind identifies one of the six entity families the protocol tracks.
type Kind string

const (
	Area    Kind = "area"
	Zone    Kind = "zone"
	Output  Kind = "output"
	Trigger Kind = "trigger"
	Door    Kind = "door"
	Filter  Kind = "filter"
)

// FlagTable returns the flags.Table appropriate for k.
func FlagTable(k Kind) flags.Table {
	switch k {
	case Area:
		return flags.AreaTable
	case Zone:
		return flags.ZoneTable
	case Output:
		return flags.OutputTable
	case Trigger:
		return flags.TriggerTable
	case Door:
		return flags.DoorTable
	case Filter:
		return flags.FilterTable
	default:
		return nil
	}
}

// Inventory is the mutable, connection-scoped record of everything known
// about a panel's entities: names, validity, zone/area membership, and
// cached status.
type Inventory struct {
	mu sync.Mutex

	names map[Kind]map[int]string
	valid map[Kind]map[int]bool

	zoneAreas map[int]map[int]bool // zone number -> set of area numbers

	state map[Kind]map[int]flags.DecodedState
}

// New returns an empty Inventory.
func New() *Inventory {
	return &Inventory{
		names:     make(map[Kind]map[int]string),
		valid:     make(map[Kind]map[int]bool),
		zoneAreas: make(map[int]map[int]bool),
		state:     make(map[Kind]map[int]flags.DecodedState),
	}
}

// SetName records id's display name for kind k. An empty (post-NUL-strip)
// name is not recorded, matching the "skip empty names" pagination rule.
func (inv *Inventory) SetName(k Kind, id int, name string) {
	if name == "" {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m, ok := inv.names[k]
	if !ok {
		m = make(map[int]string)
		inv.names[k] = m
	}
	m[id] = name
}

// Name returns id's recorded name, if any.
func (inv *Inventory) Name(k Kind, id int) (string, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	name, ok := inv.names[k][id]
	return name, ok
}

// SetValid replaces the known-valid number set for kind k.
func (inv *Inventory) SetValid(k Kind, ids []int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	inv.valid[k] = m
}

// IsValid reports whether id is a known-valid number for kind k. When no
// valid set has been recorded for k, every id is considered valid (the
// "no bitmap query available" fallback).
func (inv *Inventory) IsValid(k Kind, id int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m, ok := inv.valid[k]
	if !ok {
		return true
	}
	return m[id]
}

// ValidNumbers returns the recorded valid set for kind k, or nil if none
// has been recorded.
func (inv *Inventory) ValidNumbers(k Kind) []int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m, ok := inv.valid[k]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// SetZoneAreas records which areas zone contains, replacing any prior
// mapping for that zone.
func (inv *Inventory) SetZoneAreas(zone int, areas []int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m := make(map[int]bool, len(areas))
	for _, a := range areas {
		m[a] = true
	}
	inv.zoneAreas[zone] = m
}

// ZoneAreas returns the areas zone is assigned to.
func (inv *Inventory) ZoneAreas(zone int) []int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m := inv.zoneAreas[zone]
	out := make([]int, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	return out
}

// ChangeEvent is emitted when UpdateState reports a status change for an
// entity, including the first status read of an entity not yet cached.
type ChangeEvent struct {
	Kind    Kind
	ID      int
	Name    string
	OldData flags.DecodedState
	NewData flags.DecodedState
}

// UpdateState decodes raw against kind's flag table, compares it to the
// cached value, and reports whether it differs (along with both states
// for the caller to turn into a ChangeEvent). The cache is updated
// unconditionally after a successful read — COS never mutates it
// speculatively, only this call does.
func (inv *Inventory) UpdateState(k Kind, id int, raw []byte) (changed bool, old, updated flags.DecodedState) {
	updated = flags.DecodeBytes(FlagTable(k), raw)

	inv.mu.Lock()
	defer inv.mu.Unlock()

	m, ok := inv.state[k]
	if !ok {
		m = make(map[int]flags.DecodedState)
		inv.state[k] = m
	}
	old, hadPrior := m[id]
	changed = !hadPrior || !bytes.Equal(old.Raw, updated.Raw)
	m[id] = updated
	return changed, old, updated
}

// State returns the cached state for id, if any.
func (inv *Inventory) State(k Kind, id int) (flags.DecodedState, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	s, ok := inv.state[k][id]
	return s, ok
}

// KnownIDs returns every id cached for kind k, regardless of validity.
func (inv *Inventory) KnownIDs(k Kind) []int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	m := inv.state[k]
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
