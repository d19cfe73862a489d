package game

import (
	"errors"
	"fmt"
)

// SwitchOutcome is the result of a weapon switch request.
type SwitchOutcome int

const (
	Switched SwitchOutcome = iota
	BlockedByCooldown
	Locked
)

func (o SwitchOutcome) String() string {
	switch o {
	case Switched:
		return "switched"
	case BlockedByCooldown:
		return "blocked_by_cooldown"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// DefaultSwitchDelay is the cool-down, in seconds, after a switch.
const DefaultSwitchDelay = 1.0

var errEmptyLoadout = errors.New("loadout needs at least one weapon")

// LoadoutState is the selection part of a loadout.
type LoadoutState struct {
	ActiveIndex             int
	SwitchCooldownRemaining float64
	Unlocked                map[WeaponID]bool
}

// LoadoutManager owns an ordered set of weapons and exactly one active one.
type LoadoutManager struct {
	slots       []*FireControl
	active      int
	cooldown    float64
	switchDelay float64
	unlocked    map[WeaponID]bool
}

// NewLoadoutManager takes ownership of slots. Slot 0 starts unlocked and
// active; every other slot needs Unlock first.
func NewLoadoutManager(slots []*FireControl, switchDelay float64) (*LoadoutManager, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("new loadout: %w", errEmptyLoadout)
	}
	for i, s := range slots {
		if s == nil {
			return nil, fmt.Errorf("new loadout: slot %d is nil", i)
		}
	}
	if switchDelay < 0 {
		return nil, fmt.Errorf("new loadout: negative switch delay %v", switchDelay)
	}
	lm := &LoadoutManager{
		slots:       append([]*FireControl(nil), slots...),
		switchDelay: switchDelay,
		unlocked:    map[WeaponID]bool{slots[0].Spec().ID: true},
	}
	for _, s := range lm.slots {
		s.Deactivate()
	}
	lm.slots[0].Activate()
	return lm, nil
}

// Active returns the weapon receiving fire input.
func (lm *LoadoutManager) Active() *FireControl { return lm.slots[lm.active] }

func (lm *LoadoutManager) ActiveIndex() int { return lm.active }

// Cooldown returns the remaining switch cool-down in seconds.
func (lm *LoadoutManager) Cooldown() float64 { return lm.cooldown }

func (lm *LoadoutManager) Len() int { return len(lm.slots) }

// Slot returns the weapon in slot i, or nil when out of range.
func (lm *LoadoutManager) Slot(i int) *FireControl {
	if i < 0 || i >= len(lm.slots) {
		return nil
	}
	return lm.slots[i]
}

// SlotOf returns the slot index holding id, or -1.
func (lm *LoadoutManager) SlotOf(id WeaponID) int {
	for i, s := range lm.slots {
		if s.Spec().ID == id {
			return i
		}
	}
	return -1
}

// Unlock makes id selectable. It reports whether id was newly unlocked.
func (lm *LoadoutManager) Unlock(id WeaponID) bool {
	if lm.unlocked[id] {
		return false
	}
	lm.unlocked[id] = true
	return true
}

func (lm *LoadoutManager) IsUnlocked(id WeaponID) bool { return lm.unlocked[id] }

// State snapshots the selection state.
func (lm *LoadoutManager) State() LoadoutState {
	u := make(map[WeaponID]bool, len(lm.unlocked))
	for k, v := range lm.unlocked {
		u[k] = v
	}
	return LoadoutState{ActiveIndex: lm.active, SwitchCooldownRemaining: lm.cooldown, Unlocked: u}
}

// Tick runs the switch cool-down down toward zero.
func (lm *LoadoutManager) Tick(dt float64) {
	lm.cooldown -= dt
	if lm.cooldown < 0 {
		lm.cooldown = 0
	}
}

// RequestSwitch activates slot. Selecting the current slot is allowed and
// restarts the cool-down.
func (lm *LoadoutManager) RequestSwitch(slot int) SwitchOutcome {
	if slot < 0 || slot >= len(lm.slots) {
		return Locked
	}
	if !lm.unlocked[lm.slots[slot].Spec().ID] {
		return Locked
	}
	if lm.cooldown > 0 {
		return BlockedByCooldown
	}
	lm.slots[lm.active].Deactivate()
	lm.active = slot
	lm.slots[slot].Activate()
	lm.cooldown = lm.switchDelay
	return Switched
}
