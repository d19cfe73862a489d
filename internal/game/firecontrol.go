package game

import (
	"fmt"
	"math/rand"
)

// FireOutcome is the result of a fire request.
type FireOutcome int

const (
	Fired FireOutcome = iota
	BlockedByRate
	BlockedByReload
	OutOfAmmo
)

func (o FireOutcome) String() string {
	switch o {
	case Fired:
		return "fired"
	case BlockedByRate:
		return "blocked_by_rate"
	case BlockedByReload:
		return "blocked_by_reload"
	case OutOfAmmo:
		return "out_of_ammo"
	default:
		return "unknown"
	}
}

// ReloadOutcome is the result of a reload request.
type ReloadOutcome int

const (
	ReloadStarted ReloadOutcome = iota
	AlreadyReloading
	NoReserveAmmo
	AlreadyFull
)

func (o ReloadOutcome) String() string {
	switch o {
	case ReloadStarted:
		return "started"
	case AlreadyReloading:
		return "already_reloading"
	case NoReserveAmmo:
		return "no_reserve_ammo"
	case AlreadyFull:
		return "already_full"
	default:
		return "unknown"
	}
}

// WeaponState is the mutable ammo and timing state of one weapon.
type WeaponState struct {
	BulletsInMag      int
	BulletsReserve    int
	MagCapacity       int
	FireInterval      float64
	TimeSinceLastShot float64
	IsReloading       bool
}

// ShotFired is emitted on every successful shot. Directions holds one entry
// for hitscan weapons and one per pellet otherwise; Speed is zero for
// hitscan.
type ShotFired struct {
	Weapon     WeaponID
	Origin     Vec3
	Directions []Vec3
	Speed      float64
	Range      float64
	Damage     float64
}

// ShotSink receives ShotFired events (raycast, VFX and audio collaborators).
type ShotSink interface {
	ShotFired(ShotFired)
}

// ShotSinkFunc adapts a function to ShotSink.
type ShotSinkFunc func(ShotFired)

func (f ShotSinkFunc) ShotFired(s ShotFired) { f(s) }

// FireControl is the per-weapon ammo, fire-rate and reload state machine.
type FireControl struct {
	spec            WeaponSpec
	state           WeaponState
	reloadRemaining float64
	active          bool
	rng             *rand.Rand
	sink            ShotSink
}

// NewFireControl creates a weapon with a full magazine that is ready to fire.
// rng drives spread; sink may be nil.
func NewFireControl(spec WeaponSpec, rng *rand.Rand, sink ShotSink) (*FireControl, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("new fire control: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- game only
	}
	return &FireControl{
		spec: spec,
		state: WeaponState{
			BulletsInMag:      spec.MagCapacity,
			BulletsReserve:    spec.ReserveAmmo,
			MagCapacity:       spec.MagCapacity,
			FireInterval:      spec.FireInterval,
			TimeSinceLastShot: spec.FireInterval,
		},
		rng:  rng,
		sink: sink,
	}, nil
}

// NewFireControlFromState restores a weapon from a saved WeaponState.
// The state must satisfy the ammo invariants.
func NewFireControlFromState(spec WeaponSpec, st WeaponState, rng *rand.Rand, sink ShotSink) (*FireControl, error) {
	fc, err := NewFireControl(spec, rng, sink)
	if err != nil {
		return nil, err
	}
	if st.MagCapacity <= 0 || st.BulletsInMag < 0 || st.BulletsInMag > st.MagCapacity || st.BulletsReserve < 0 {
		return nil, fmt.Errorf("new fire control: weapon %s: invalid state mag=%d/%d reserve=%d",
			spec.ID, st.BulletsInMag, st.MagCapacity, st.BulletsReserve)
	}
	fc.state = st
	return fc, nil
}

// Spec returns the static weapon definition.
func (fc *FireControl) Spec() WeaponSpec { return fc.spec }

// State returns a copy of the current weapon state.
func (fc *FireControl) State() WeaponState { return fc.state }

func (fc *FireControl) Active() bool { return fc.active }
func (fc *FireControl) Activate() { fc.active = true }
func (fc *FireControl) Deactivate() { fc.active = false }

// SetSink replaces the ShotFired consumer.
func (fc *FireControl) SetSink(s ShotSink) { fc.sink = s }

// Tick advances the shot timer and, when a reload duration is configured,
// the reload timer.
func (fc *FireControl) Tick(dt float64) {
	fc.state.TimeSinceLastShot += dt
	if fc.state.IsReloading && fc.spec.ReloadDuration > 0 {
		fc.reloadRemaining -= dt
		if fc.reloadRemaining <= 0 {
			fc.CompleteReload()
		}
	}
}

// CanFire reports whether TryFire would fire right now.
func (fc *FireControl) CanFire() bool {
	return fc.check() == Fired
}

// fireIntervalSlack absorbs float drift in the accumulated shot timer, so a
// 0.1s weapon stepped at 60Hz refires on the sixth tick.
const fireIntervalSlack = 1e-9

func (fc *FireControl) check() FireOutcome {
	switch {
	case fc.state.IsReloading:
		return BlockedByReload
	case fc.state.BulletsInMag <= 0:
		return OutOfAmmo
	case fc.state.TimeSinceLastShot < fc.state.FireInterval-fireIntervalSlack:
		return BlockedByRate
	}
	return Fired
}

// TryFire fires from origin along aim if the rate timer has elapsed, the
// magazine is not empty and no reload is in progress. On OutOfAmmo the
// caller is expected to reload.
func (fc *FireControl) TryFire(origin Vec3, aim Quat) FireOutcome {
	if out := fc.check(); out != Fired {
		return out
	}
	if !fc.spec.Infinite {
		fc.state.BulletsInMag--
	}
	fc.state.TimeSinceLastShot = 0

	shot := ShotFired{
		Weapon: fc.spec.ID,
		Origin: origin,
		Range:  fc.spec.Range,
		Damage: fc.spec.Damage,
	}
	if fc.spec.IsPelletWeapon() {
		shot.Directions = PelletDirections(fc.rng, aim, fc.spec.Pellets, fc.spec.PelletSpreadDeg)
		shot.Speed = fc.spec.PelletSpeed
	} else {
		shot.Directions = []Vec3{SpreadDirection(fc.rng, aim, fc.spec.SpreadFactor)}
	}
	if fc.sink != nil {
		fc.sink.ShotFired(shot)
	}
	return Fired
}

// Reload moves min(capacity-mag, reserve) rounds from reserve to magazine
// immediately and marks the weapon as reloading until CompleteReload (or the
// configured reload duration) clears it.
func (fc *FireControl) Reload() ReloadOutcome {
	if fc.state.IsReloading {
		return AlreadyReloading
	}
	if fc.spec.Infinite {
		return AlreadyFull
	}
	if fc.state.BulletsReserve <= 0 {
		return NoReserveAmmo
	}
	need := fc.state.MagCapacity - fc.state.BulletsInMag
	if need <= 0 {
		return AlreadyFull
	}
	load := need
	if fc.state.BulletsReserve < load {
		load = fc.state.BulletsReserve
	}
	fc.state.BulletsReserve -= load
	fc.state.BulletsInMag += load
	fc.state.IsReloading = true
	fc.reloadRemaining = fc.spec.ReloadDuration
	return ReloadStarted
}

// CompleteReload is the animation-complete signal that ends a reload.
func (fc *FireControl) CompleteReload() {
	fc.state.IsReloading = false
	fc.reloadRemaining = 0
}

// AddReserve adds rounds to the reserve, e.g. from an ammo pickup.
func (fc *FireControl) AddReserve(n int) {
	if n > 0 {
		fc.state.BulletsReserve += n
	}
}

// AmmoText formats the magazine/reserve counter the HUD shows.
func (fc *FireControl) AmmoText() string {
	if fc.spec.Infinite {
		return fmt.Sprintf("%d / inf", fc.state.BulletsInMag)
	}
	return fmt.Sprintf("%d / %d", fc.state.BulletsInMag, fc.state.BulletsReserve)
}
