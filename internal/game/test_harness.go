package game

import (
	"fmt"

	"github.com/rs/zerolog"
)

// SimDT is the fixed step the headless harness runs at.
const SimDT = 1.0 / 60.0

// TestSim is a headless simulation harness around Arena. It mirrors
// Game.Update but has no Ebiten dependency and supports deterministic
// seeding and structured logging.
type TestSim struct {
	Arena  *Arena
	SimLog *SimLog
	DT     float64

	// Input, when set, supplies the player's input for each tick.
	Input func(tick int) PlayerInput

	seed      int64
	cfg       ArenaConfig
	log       zerolog.Logger
	verbose   bool
	playerPos Vec3
	err       error
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, config, logger, verbose: applied first
	simOptEntity                      // obstacles, agents, pickups: applied once the arena exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithCombatConfig replaces the NPC thresholds.
func WithCombatConfig(cfg CombatConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Combat = cfg
	}}
}

// WithArenaConfig replaces the whole arena configuration.
func WithArenaConfig(cfg ArenaConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg = cfg
	}}
}

// WithLogger routes arena diagnostics to log.
func WithLogger(log zerolog.Logger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.log = log
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.verbose = v
	}}
}

// WithPlayerAt places the player.
func WithPlayerAt(x, z float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.playerPos = Vec3{x, 0, z}
	}}
}

// WithObstacle adds an axis-aligned box with its minimum corner at (x,z).
func WithObstacle(x, z, w, d float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.Arena.AddObstacle(BoxAt(x, z, w, d))
	}}
}

// WithNPC adds a friendly NPC at (x,z) facing yaw radians with an optional
// patrol route.
func WithNPC(x, z, yaw float64, waypoints ...Vec3) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		if _, err := ts.Arena.AddNPC(Vec3{x, 0, z}, yaw, waypoints); err != nil && ts.err == nil {
			ts.err = err
		}
	}}
}

// WithZombie adds a zombie at (x,z).
func WithZombie(x, z float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.Arena.AddZombie(Vec3{x, 0, z})
	}}
}

// WithPickup places a pickup zone at (x,z).
func WithPickup(kind PickupKind, x, z float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.Arena.AddPickup(kind, Vec3{x, 0, z})
	}}
}

// WithDoor places a closed door box. end marks the level exit.
func WithDoor(id string, x, z, w, d float64, end bool) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.Arena.AddDoor(id, BoxAt(x, z, w, d), end)
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (seed, config, logger, verbose, player position)
//  2. Build the arena
//  3. Entities
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		DT:   SimDT,
		seed: 1,
		cfg:  DefaultArenaConfig(),
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	a, err := NewArena(ts.cfg, ts.seed, ts.log, ts.playerPos)
	if err != nil {
		return nil, fmt.Errorf("new test sim: %w", err)
	}
	a.SetVerbose(ts.verbose)
	ts.Arena = a
	ts.SimLog = a.SimLog
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	if ts.err != nil {
		return nil, fmt.Errorf("new test sim: %w", ts.err)
	}
	return ts, nil
}

func (ts *TestSim) input() PlayerInput {
	if ts.Input == nil {
		return PlayerInput{}
	}
	return ts.Input(ts.Arena.Tick() + 1)
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Arena.Step(ts.DT, ts.input())
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Arena.Step(ts.DT, ts.input())
		if predicate(ts) {
			return ts.Arena.Tick()
		}
	}
	return -1
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Arena.Tick()
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick    int
	Player  PlayerSnapshot
	NPCs    []NPCSnapshot
	Zombies []ZombieSnapshot
}

// PlayerSnapshot is a copy of the player's state at a tick.
type PlayerSnapshot struct {
	X, Z   float64
	Health float64
	Weapon WeaponID
	Ammo   WeaponState
	Status MoveStatus
}

// NPCSnapshot is a copy of an NPC's state at a tick.
type NPCSnapshot struct {
	Label string
	X, Z  float64
	Yaw   float64
	State CombatState
	Ammo  WeaponState
}

// ZombieSnapshot is a copy of a zombie's state at a tick.
type ZombieSnapshot struct {
	Label  string
	X, Z   float64
	Health float64
}

// Snapshot returns the current state of every agent.
func (ts *TestSim) Snapshot() SimSnapshot {
	a := ts.Arena
	p := a.Player
	w := p.Loadout.Active()
	snap := SimSnapshot{
		Tick: a.Tick(),
		Player: PlayerSnapshot{
			X:      p.Loco.Pos.X,
			Z:      p.Loco.Pos.Z,
			Health: p.Health,
			Weapon: w.Spec().ID,
			Ammo:   w.State(),
			Status: p.Loco.Status(),
		},
	}
	for _, n := range a.NPCs {
		snap.NPCs = append(snap.NPCs, NPCSnapshot{
			Label: n.Label,
			X:     n.Pos.X,
			Z:     n.Pos.Z,
			Yaw:   n.Facing.Yaw(),
			State: n.Machine.State(),
			Ammo:  n.Weapon.State(),
		})
	}
	for _, z := range a.Zombies {
		snap.Zombies = append(snap.Zombies, ZombieSnapshot{
			Label:  z.Label,
			X:      z.Pos.X,
			Z:      z.Pos.Z,
			Health: z.Health,
		})
	}
	return snap
}
