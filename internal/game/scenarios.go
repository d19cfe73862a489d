package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
)

// scenarioBuilders maps a scenario name to the options that lay it out.
var scenarioBuilders = map[string]func() []SimOption{
	"courtyard": courtyardOptions,
	"ambush":    ambushOptions,
	"corridor":  corridorOptions,
}

// ScenarioNames lists the built-in scenarios in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarioBuilders))
	for n := range scenarioBuilders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewScenario builds a TestSim for a named scenario.
func NewScenario(name string, cfg ArenaConfig, seed int64, log zerolog.Logger, extra ...SimOption) (*TestSim, error) {
	build, ok := scenarioBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (supported: %v)", name, ScenarioNames())
	}
	opts := []SimOption{WithArenaConfig(cfg), WithSeed(seed), WithLogger(log)}
	opts = append(opts, build()...)
	opts = append(opts, extra...)
	return NewTestSim(opts...)
}

// courtyardOptions: two patrolling NPCs, a pack of zombies to the north,
// weapon pickups and a locked exit.
func courtyardOptions() []SimOption {
	return []SimOption{
		WithPlayerAt(0, 0),
		WithObstacle(-8, 6, 4, 2),
		WithObstacle(5, 9, 2, 5),
		WithObstacle(-2, 18, 6, 1),
		WithNPC(-4, 2, 0, Vec3{-4, 0, 2}, Vec3{-4, 0, 12}, Vec3{4, 0, 12}),
		WithNPC(4, 2, 0, Vec3{4, 0, 2}, Vec3{10, 0, 6}),
		WithZombie(-6, 24),
		WithZombie(0, 26),
		WithZombie(6, 25),
		WithZombie(9, 30),
		WithPickup(PickupM4, 2, -2),
		WithPickup(PickupShotgun, -2, -2),
		WithPickup(PickupKey, 0, -6),
		WithPickup(PickupHealth, 6, -4),
		WithDoor("gate", -1, -10, 2, 0.5, false),
		WithPickup(PickupEndKey, 0, -14),
		WithDoor("exit", -1, -18, 2, 0.5, true),
	}
}

// ambushOptions: one NPC looking away while zombies close from behind.
func ambushOptions() []SimOption {
	return []SimOption{
		WithPlayerAt(0, -6),
		WithNPC(0, 0, 0),
		WithZombie(0, -20),
		WithZombie(3, -22),
		WithZombie(-3, -22),
	}
}

// corridorOptions: an NPC sighting down a corridor partly blocked by a wall.
func corridorOptions() []SimOption {
	return []SimOption{
		WithPlayerAt(0, -4),
		WithObstacle(-6, 0, 5, 30),
		WithObstacle(1, 0, 5, 30),
		WithObstacle(-1, 14, 1.2, 1),
		WithNPC(0, 2, 0, Vec3{0, 0, 2}, Vec3{0, 0, 8}),
		WithZombie(0.4, 22),
		WithZombie(-0.4, 28),
	}
}

// AutoPlayer returns an input that turns the player toward the nearest
// zombie within reach and fires once roughly aligned.
func AutoPlayer(a *Arena, reach, turnRate, dt float64) PlayerInput {
	p := a.Player
	z := a.nearestZombie(p.Loco.Pos)
	if z == nil || z.Pos.Dist(p.Loco.Pos) > reach {
		return PlayerInput{}
	}
	to := z.Pos.Sub(p.Loco.Pos)
	want := math.Atan2(to.X, to.Z)
	diff := normalizeAngle(want - p.Loco.Yaw)
	maxTurn := turnRate * dt
	turn := clamp(diff, -maxTurn, maxTurn)
	aligned := math.Abs(diff) < 5*math.Pi/180
	return PlayerInput{
		Turn:        turn,
		FireHeld:    aligned,
		FirePressed: aligned && a.Tick()%2 == 0,
	}
}
