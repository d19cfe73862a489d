package game

import (
	"errors"
	"fmt"
)

// WeaponID identifies a weapon type across loadouts, pickups and config.
type WeaponID string

const (
	WeaponPistol  WeaponID = "pistol"
	WeaponM4      WeaponID = "m4"
	WeaponShotgun WeaponID = "shotgun"
	// WeaponNPCRifle is the sidearm carried by friendly NPCs. Infinite reserve.
	WeaponNPCRifle WeaponID = "npc_rifle"
)

// TriggerMode decides how the fire button maps to fire requests.
type TriggerMode int

const (
	TriggerAuto     TriggerMode = iota // fires every tick the button is held
	TriggerSemiAuto                    // fires only on the press edge
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerAuto:
		return "auto"
	case TriggerSemiAuto:
		return "semi"
	default:
		return "unknown"
	}
}

// ParseTriggerMode maps a config string to a TriggerMode.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch s {
	case "auto", "":
		return TriggerAuto, nil
	case "semi", "semiauto", "semi-auto":
		return TriggerSemiAuto, nil
	}
	return TriggerAuto, fmt.Errorf("unknown trigger mode %q", s)
}

// WeaponSpec is the static definition of a weapon.
type WeaponSpec struct {
	ID      WeaponID
	Name    string
	Trigger TriggerMode

	MagCapacity  int
	ReserveAmmo  int     // starting reserve
	Infinite     bool    // magazine never empties, reload never needed
	FireInterval float64 // seconds between shots
	SpreadFactor float64 // hitscan offset per axis, [-s,+s]
	Range        float64 // hitscan reach

	// Multi-pellet weapons. Pellets == 0 means hitscan.
	Pellets         int
	PelletSpreadDeg float64
	PelletSpeed     float64

	// ReloadDuration > 0 clears the reloading flag after that many seconds.
	// Zero waits for CompleteReload from the animation side.
	ReloadDuration float64

	Damage float64
}

// Validation errors for WeaponSpec.
var (
	ErrBadMagazine = errors.New("magazine capacity must be positive")
	ErrBadReserve  = errors.New("reserve ammo must not be negative")
	ErrBadInterval = errors.New("fire interval must not be negative")
	ErrBadPellets  = errors.New("pellet weapons need a positive speed")
)

// Validate reports construction-time precondition violations.
func (w WeaponSpec) Validate() error {
	if w.MagCapacity <= 0 {
		return fmt.Errorf("weapon %s: %w", w.ID, ErrBadMagazine)
	}
	if w.ReserveAmmo < 0 {
		return fmt.Errorf("weapon %s: %w", w.ID, ErrBadReserve)
	}
	if w.FireInterval < 0 || w.ReloadDuration < 0 {
		return fmt.Errorf("weapon %s: %w", w.ID, ErrBadInterval)
	}
	if w.Pellets < 0 || (w.Pellets > 0 && w.PelletSpeed <= 0) {
		return fmt.Errorf("weapon %s: %w", w.ID, ErrBadPellets)
	}
	return nil
}

// IsPelletWeapon reports whether the weapon launches pellets instead of a
// single hitscan ray.
func (w WeaponSpec) IsPelletWeapon() bool { return w.Pellets > 0 }

// defaultWeaponTable holds the stock weapons. Slot order in the player
// loadout follows playerLoadoutOrder.
var defaultWeaponTable = map[WeaponID]WeaponSpec{
	WeaponPistol: {
		ID: WeaponPistol, Name: "Pistol", Trigger: TriggerAuto,
		MagCapacity: 30, ReserveAmmo: 200, FireInterval: 0.1, SpreadFactor: 0.1, Range: 100,
		ReloadDuration: 1.2, Damage: 20,
	},
	WeaponM4: {
		ID: WeaponM4, Name: "M4", Trigger: TriggerAuto,
		MagCapacity: 30, ReserveAmmo: 120, FireInterval: 0.08, SpreadFactor: 0.06, Range: 100,
		ReloadDuration: 1.8, Damage: 25,
	},
	WeaponShotgun: {
		ID: WeaponShotgun, Name: "Shotgun", Trigger: TriggerSemiAuto,
		MagCapacity: 8, ReserveAmmo: 32, FireInterval: 0.8, SpreadFactor: 0, Range: 30,
		Pellets: 8, PelletSpreadDeg: 6, PelletSpeed: 40,
		ReloadDuration: 2.5, Damage: 12,
	},
	WeaponNPCRifle: {
		ID: WeaponNPCRifle, Name: "AK-47", Trigger: TriggerAuto,
		MagCapacity: 30, Infinite: true, FireInterval: 0.1, Range: 100,
		Damage: 10,
	},
}

// playerLoadoutOrder is the key 1/2/3 slot mapping.
var playerLoadoutOrder = []WeaponID{WeaponPistol, WeaponM4, WeaponShotgun}

// DefaultWeapon returns the stock spec for id.
func DefaultWeapon(id WeaponID) (WeaponSpec, bool) {
	w, ok := defaultWeaponTable[id]
	return w, ok
}

// DefaultWeapons returns a copy of the stock weapon table.
func DefaultWeapons() map[WeaponID]WeaponSpec {
	out := make(map[WeaponID]WeaponSpec, len(defaultWeaponTable))
	for k, v := range defaultWeaponTable {
		out[k] = v
	}
	return out
}

// PlayerLoadoutOrder returns the weapon id for each player slot.
func PlayerLoadoutOrder() []WeaponID {
	return append([]WeaponID(nil), playerLoadoutOrder...)
}
