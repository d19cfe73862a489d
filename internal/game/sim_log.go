package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded arena event.
type SimLogEntry struct {
	Tick     int
	Agent    string  // "P", "N0", "Z2", or "--" for global events
	Faction  string  // "player", "npc", "zombie", or "--"
	Category string  // weapon, loadout, state, vision, interact, zombie, move, player
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // distance, damage, cooldown... depending on the event
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] N0   state     change           patrol → chase
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// SimLogQuery selects entries. Zero fields match anything; ToTick == 0
// leaves the range open-ended.
type SimLogQuery struct {
	Category string
	Key      string
	Agent    string
	Contains string
	FromTick int
	ToTick   int
}

func (q SimLogQuery) matches(e SimLogEntry) bool {
	switch {
	case q.Category != "" && e.Category != q.Category,
		q.Key != "" && e.Key != q.Key,
		q.Agent != "" && e.Agent != q.Agent,
		q.Contains != "" && !strings.Contains(e.Value, q.Contains),
		e.Tick < q.FromTick,
		q.ToTick > 0 && e.Tick > q.ToTick:
		return false
	}
	return true
}

// SimLog is the unbounded, machine-readable event record of an arena.
// ThoughtLog is the on-screen counterpart.
type SimLog struct {
	entries []SimLogEntry
	verbose bool // keep per-tick move and fire detail
}

func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, agent, faction, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick: tick, Agent: agent, Faction: faction,
		Category: category, Key: key, Value: value, NumVal: numVal,
	})
}

// AddVerbose is Add for high-frequency events; dropped unless verbose.
func (sl *SimLog) AddVerbose(tick int, agent, faction, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, agent, faction, category, key, value, numVal)
	}
}

func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

// Select returns every entry matching q, oldest first.
func (sl *SimLog) Select(q SimLogQuery) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if q.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter matches on category and key; "" matches any.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.Select(SimLogQuery{Category: category, Key: key})
}

func (sl *SimLog) FilterAgent(label string) []SimLogEntry {
	return sl.Select(SimLogQuery{Agent: label})
}

// FilterTickRange returns entries within [fromTick, toTick].
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	return sl.Select(SimLogQuery{FromTick: fromTick, ToTick: toTick})
}

func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	q := SimLogQuery{Category: category, Key: key}
	for _, e := range sl.entries {
		if q.matches(e) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent category/key entry.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	q := SimLogQuery{Category: category, Key: key}
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if q.matches(sl.entries[i]) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether any entry matches category, key and a
// substring of its value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	q := SimLogQuery{Category: category, Key: key, Contains: valueSubstr}
	for _, e := range sl.entries {
		if q.matches(e) {
			return true
		}
	}
	return false
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Format renders the whole log, one line per entry, for t.Log output.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

// Summary describes the arena at its current tick: player, NPC states,
// zombies left and the running shot totals.
func (sl *SimLog) Summary(a *Arena) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", a.Tick())

	p := a.Player
	w := p.Loadout.Active()
	fmt.Fprintf(&sb, "Player: hp=%.0f weapon=%s ammo=%s status=%s\n",
		p.Health, w.Spec().ID, w.AmmoText(), p.Loco.Status())

	var states [3]int
	for _, n := range a.NPCs {
		states[n.Machine.State()]++
	}
	fmt.Fprintf(&sb, "NPC states: patrol=%d chase=%d attack=%d\n",
		states[StatePatrol], states[StateChase], states[StateAttack])
	fmt.Fprintf(&sb, "Zombies: alive=%d/%d\n", a.AliveZombies(), len(a.Zombies))

	st := a.Stats
	fmt.Fprintf(&sb, "Shots: fired=%d hits=%d kills=%d reloads=%d switches=%d\n",
		st.ShotsFired, st.Hits, st.Kills, st.Reloads, st.Switches)
	if p.Interact.Inv.LevelComplete {
		sb.WriteString("Level complete\n")
	}
	return sb.String()
}
