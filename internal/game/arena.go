package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
)

// Faction tags every agent in the arena.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionNPC
	FactionZombie
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionNPC:
		return "npc"
	case FactionZombie:
		return "zombie"
	default:
		return "--"
	}
}

// ZombieConfig tunes the melee enemies.
type ZombieConfig struct {
	Health          float64
	Speed           float64
	Radius          float64
	Reach           float64
	DamagePerSecond float64
}

// ArenaConfig gathers every tunable the arena needs.
type ArenaConfig struct {
	Combat       CombatConfig
	Locomotion   LocomotionConfig
	Zombie       ZombieConfig
	Weapons      map[WeaponID]WeaponSpec
	SwitchDelay  float64
	PlayerHealth float64
	EyeHeight    float64
}

// DefaultArenaConfig returns the stock arena tuning.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		Combat:     DefaultCombatConfig(),
		Locomotion: DefaultLocomotionConfig(),
		Zombie: ZombieConfig{
			Health:          100,
			Speed:           1.5,
			Radius:          0.5,
			Reach:           1.2,
			DamagePerSecond: 10,
		},
		Weapons:      DefaultWeapons(),
		SwitchDelay:  DefaultSwitchDelay,
		PlayerHealth: 100,
		EyeHeight:    1.6,
	}
}

// PlayerInput is one frame of player intent. Booleans are edges except
// FireHeld.
type PlayerInput struct {
	Move            MoveInput
	Turn            float64 // yaw delta in radians
	FireHeld        bool
	FirePressed     bool
	ReloadPressed   bool
	InteractPressed bool
	OpenPressed     bool
	SwitchTo        int // weapon key 1..n, 0 = none
}

// Held strips the edge-triggered parts of in, keeping movement axes and the
// fire button.
func (in PlayerInput) Held() PlayerInput {
	move := in.Move
	move.JumpPressed, move.CrouchPressed = false, false
	move.MouseX, move.MouseY = 0, 0
	return PlayerInput{Move: move, FireHeld: in.FireHeld}
}

// Player is the human-controlled agent.
type Player struct {
	Loco      *Locomotion
	Loadout   *LoadoutManager
	Interact  *Interaction
	Anim      *AnimatorAdapter
	Health    float64
	MaxHealth float64
}

func (p *Player) Alive() bool { return p.Health > 0 }

// NPC is a friendly AI rifleman.
type NPC struct {
	ID     int
	Label  string
	Pos    Vec3
	Facing Quat

	Machine *CombatStateMachine
	Weapon  *FireControl
	Anim    *AnimatorAdapter

	sensor       Sensor
	nav          Navigator
	target       *Zombie
	lastDecision Decision
}

// Target returns the zombie the NPC is currently tracking, or nil.
func (n *NPC) Target() *Zombie { return n.target }

// LastDecision returns the decision taken on the last tick.
func (n *NPC) LastDecision() Decision { return n.lastDecision }

// Zombie is a melee enemy that walks straight at the player.
type Zombie struct {
	ID     int
	Label  string
	Pos    Vec3
	Health float64
	Radius float64

	nav Navigator
}

func (z *Zombie) Alive() bool { return z.Health > 0 }

// ArenaStats are running totals for reports.
type ArenaStats struct {
	ShotsFired    int
	PelletsFired  int
	Rays          int
	Hits          int
	Kills         int
	Reloads       int
	Switches      int
	SwitchBlocked int
	OutOfAmmo     int
	Footsteps     int
	PlayerDamage  float64
}

type pendingShot struct {
	shooter string
	faction Faction
	shot    ShotFired
}

// Arena is the composition root of a fight: one player, friendly NPCs,
// zombies and static obstacles.
type Arena struct {
	cfg ArenaConfig
	log zerolog.Logger
	rng *rand.Rand

	Player    *Player
	NPCs      []*NPC
	Zombies   []*Zombie
	Obstacles []Box

	SimLog   *SimLog
	Thoughts *ThoughtLog
	Stats    ArenaStats

	// Shots holds the shots fired on the last tick.
	Shots []ShotFired

	tick    int
	pending []pendingShot

	nav        *NavGrid
	navVersion int
}

// navClearance keeps planned paths this far from obstacle faces.
const navClearance = 0.4

// NewArena builds an arena with the player standing at playerPos.
func NewArena(cfg ArenaConfig, seed int64, log zerolog.Logger, playerPos Vec3) (*Arena, error) {
	if err := cfg.Combat.Validate(); err != nil {
		return nil, fmt.Errorf("new arena: %w", err)
	}
	a := &Arena{
		cfg:      cfg,
		log:      log,
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		SimLog:   NewSimLog(false),
		Thoughts: NewThoughtLog(),
	}

	slots := make([]*FireControl, 0, len(playerLoadoutOrder))
	for _, id := range playerLoadoutOrder {
		spec, ok := cfg.Weapons[id]
		if !ok {
			return nil, fmt.Errorf("new arena: no spec for player weapon %s", id)
		}
		fc, err := NewFireControl(spec, a.childRNG(), a.sinkFor("P", FactionPlayer))
		if err != nil {
			return nil, fmt.Errorf("new arena: %w", err)
		}
		slots = append(slots, fc)
	}
	lm, err := NewLoadoutManager(slots, cfg.SwitchDelay)
	if err != nil {
		return nil, fmt.Errorf("new arena: %w", err)
	}
	a.Player = &Player{
		Loco:      NewLocomotion(cfg.Locomotion, playerPos),
		Loadout:   lm,
		Interact:  &Interaction{},
		Anim:      NewAnimatorAdapter(),
		Health:    cfg.PlayerHealth,
		MaxHealth: cfg.PlayerHealth,
	}
	return a, nil
}

// SetVerbose switches the SimLog to record per-tick detail.
func (a *Arena) SetVerbose(v bool) { a.SimLog.verbose = v }

// Tick returns the number of steps taken.
func (a *Arena) Tick() int { return a.tick }

func (a *Arena) Config() ArenaConfig { return a.cfg }

func (a *Arena) childRNG() *rand.Rand {
	return rand.New(rand.NewSource(a.rng.Int63())) // #nosec G404 -- game only
}

func (a *Arena) sinkFor(label string, f Faction) ShotSink {
	return ShotSinkFunc(func(s ShotFired) {
		a.pending = append(a.pending, pendingShot{shooter: label, faction: f, shot: s})
	})
}

// AddObstacle adds a static LOS and movement blocker.
func (a *Arena) AddObstacle(b Box) {
	a.Obstacles = append(a.Obstacles, b)
	a.invalidateNav()
}

// AddPickup places a pickup zone.
func (a *Arena) AddPickup(kind PickupKind, pos Vec3) *Pickup {
	return a.Player.Interact.AddPickup(kind, pos, 0)
}

// AddDoor places a closed door.
func (a *Arena) AddDoor(id string, b Box, end bool) *Door {
	d := a.Player.Interact.AddDoor(id, b, end)
	a.invalidateNav()
	return d
}

// AddNPC spawns a friendly rifleman facing yaw radians.
func (a *Arena) AddNPC(pos Vec3, yaw float64, waypoints []Vec3) (*NPC, error) {
	id := len(a.NPCs)
	label := fmt.Sprintf("N%d", id)
	m, err := NewCombatStateMachine(a.cfg.Combat, waypoints)
	if err != nil {
		return nil, fmt.Errorf("add npc %s: %w", label, err)
	}
	spec, ok := a.cfg.Weapons[WeaponNPCRifle]
	if !ok {
		return nil, fmt.Errorf("add npc %s: no spec for %s", label, WeaponNPCRifle)
	}
	w, err := NewFireControl(spec, a.childRNG(), a.sinkFor(label, FactionNPC))
	if err != nil {
		return nil, fmt.Errorf("add npc %s: %w", label, err)
	}
	w.Activate()
	n := &NPC{
		ID:      id,
		Label:   label,
		Pos:     pos,
		Facing:  QuatYaw(yaw),
		Machine: m,
		Weapon:  w,
		Anim:    NewAnimatorAdapter(),
		sensor:  Sensor{ProbeDistance: a.cfg.Combat.ProbeDistance},
	}
	a.NPCs = append(a.NPCs, n)
	a.invalidateNav()
	return n, nil
}

// AddZombie spawns a zombie at pos.
func (a *Arena) AddZombie(pos Vec3) *Zombie {
	z := &Zombie{
		ID:     len(a.Zombies),
		Label:  fmt.Sprintf("Z%d", len(a.Zombies)),
		Pos:    pos,
		Health: a.cfg.Zombie.Health,
		Radius: a.cfg.Zombie.Radius,
	}
	a.Zombies = append(a.Zombies, z)
	a.invalidateNav()
	return z
}

// Blockers returns the static obstacles plus every closed door.
func (a *Arena) Blockers() []Box {
	doors := a.Player.Interact.ClosedDoorBoxes()
	if len(doors) == 0 {
		return a.Obstacles
	}
	out := make([]Box, 0, len(a.Obstacles)+len(doors))
	out = append(out, a.Obstacles...)
	return append(out, doors...)
}

func (a *Arena) blockedAt(p Vec3) bool {
	for _, b := range a.Blockers() {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

// NavGrid returns the walkability grid, rebuilding it when obstacles,
// doors or agents changed since the last call.
func (a *Arena) NavGrid() *NavGrid {
	if a.nav == nil {
		a.nav = NewNavGrid(a.navBounds(), navCellSize, a.Blockers(), navClearance)
	}
	return a.nav
}

func (a *Arena) invalidateNav() {
	a.nav = nil
	a.navVersion++
}

// navBounds covers every obstacle, agent and patrol waypoint plus a margin.
func (a *Arena) navBounds() Box {
	p := a.Player.Loco.Pos
	b := Box{MinX: p.X, MinZ: p.Z, MaxX: p.X, MaxZ: p.Z}
	grow := func(x, z float64) {
		b.MinX, b.MaxX = math.Min(b.MinX, x), math.Max(b.MaxX, x)
		b.MinZ, b.MaxZ = math.Min(b.MinZ, z), math.Max(b.MaxZ, z)
	}
	for _, o := range a.Blockers() {
		grow(o.MinX, o.MinZ)
		grow(o.MaxX, o.MaxZ)
	}
	for _, n := range a.NPCs {
		grow(n.Pos.X, n.Pos.Z)
		for _, w := range n.Machine.waypoints {
			grow(w.X, w.Z)
		}
	}
	for _, z := range a.Zombies {
		grow(z.Pos.X, z.Pos.Z)
	}
	b.MinX, b.MinZ = b.MinX-navMargin, b.MinZ-navMargin
	b.MaxX, b.MaxZ = b.MaxX+navMargin, b.MaxZ+navMargin
	return b
}

// AliveZombies counts zombies still standing.
func (a *Arena) AliveZombies() int {
	n := 0
	for _, z := range a.Zombies {
		if z.Alive() {
			n++
		}
	}
	return n
}

// Step advances the arena by dt seconds.
func (a *Arena) Step(dt float64, in PlayerInput) {
	a.tick++
	a.pending = a.pending[:0]

	if a.Player.Alive() {
		a.stepPlayer(dt, in)
	}

	a.Player.Loadout.Active().Tick(dt)
	for _, n := range a.NPCs {
		n.Weapon.Tick(dt)
	}

	blockers := a.Blockers()
	for _, n := range a.NPCs {
		a.stepNPC(dt, n, blockers)
	}

	a.Shots = a.Shots[:0]
	for _, ps := range a.pending {
		a.resolveShot(ps, blockers)
		a.Shots = append(a.Shots, ps.shot)
	}

	a.stepZombies(dt)
}

func (a *Arena) stepPlayer(dt float64, in PlayerInput) {
	p := a.Player
	tick := a.tick

	p.Loadout.Tick(dt)

	p.Loco.Yaw = normalizeAngle(p.Loco.Yaw + in.Turn)
	for _, ev := range p.Loco.Update(dt, in.Move, a.blockedAt) {
		if ev.Name == FootstepEvent {
			a.Stats.Footsteps++
		}
		a.SimLog.AddVerbose(tick, "P", "player", "move", ev.Name, p.Loco.Status().String(), ev.Time)
	}

	for _, ev := range p.Interact.Update(p.Loco.Pos, in.InteractPressed, in.OpenPressed) {
		a.applyInteract(ev)
	}

	if in.SwitchTo > 0 {
		out := p.Loadout.RequestSwitch(in.SwitchTo - 1)
		switch out {
		case Switched:
			a.Stats.Switches++
			id := p.Loadout.Active().Spec().ID
			a.SimLog.Add(tick, "P", "player", "loadout", "switch", string(id), float64(p.Loadout.ActiveIndex()))
			a.log.Debug().Int("tick", tick).Str("weapon", string(id)).Msg("weapon switched")
		case BlockedByCooldown:
			a.Stats.SwitchBlocked++
			a.SimLog.Add(tick, "P", "player", "loadout", out.String(), fmt.Sprintf("slot %d", in.SwitchTo), p.Loadout.Cooldown())
		case Locked:
			a.SimLog.Add(tick, "P", "player", "loadout", out.String(), fmt.Sprintf("slot %d", in.SwitchTo), 0)
		}
	}

	w := p.Loadout.Active()
	if in.ReloadPressed {
		a.reload("P", FactionPlayer, w, p.Anim)
	}

	trigger := in.FireHeld
	if w.Spec().Trigger == TriggerSemiAuto {
		trigger = in.FirePressed
	}
	if !trigger {
		return
	}
	eye := p.Loco.Pos.Add(Vec3{0, p.Loco.Height * 0.8, 0})
	out := w.TryFire(eye, p.Loco.Facing())
	p.Anim.OnFire(out)
	if out == OutOfAmmo {
		a.Stats.OutOfAmmo++
		a.log.Info().Int("tick", tick).Str("weapon", string(w.Spec().ID)).Msg("magazine empty, reloading")
		a.reload("P", FactionPlayer, w, p.Anim)
	}
}

func (a *Arena) reload(label string, f Faction, w *FireControl, anim *AnimatorAdapter) {
	out := w.Reload()
	anim.OnReload(out)
	if out != ReloadStarted {
		return
	}
	a.Stats.Reloads++
	a.SimLog.Add(a.tick, label, f.String(), "weapon", "reload", w.AmmoText(), float64(w.State().BulletsInMag))
}

func (a *Arena) applyInteract(ev InteractEvent) {
	p := a.Player
	switch ev.Kind {
	case InteractPickedUp:
		if id, ok := ev.Pickup.Weapon(); ok && p.Loadout.Unlock(id) {
			a.Thoughts.Add(a.tick, "P", FactionPlayer, fmt.Sprintf("picked up %s", id))
		}
		a.SimLog.Add(a.tick, "P", "player", "interact", "pickup", ev.Pickup.String(), 0)
	case InteractDoorOpened:
		a.invalidateNav()
		a.SimLog.Add(a.tick, "P", "player", "interact", "door_open", ev.DoorID, 0)
		a.log.Debug().Int("tick", a.tick).Str("door", ev.DoorID).Msg("door opened")
	case InteractLevelComplete:
		a.SimLog.Add(a.tick, "--", "--", "interact", "level_complete", ev.DoorID, 0)
		a.Thoughts.Add(a.tick, "P", FactionPlayer, "level complete")
		a.log.Info().Int("tick", a.tick).Msg("level complete")
	}
}

// nearestZombie returns the closest living zombie to pos.
func (a *Arena) nearestZombie(pos Vec3) *Zombie {
	var best *Zombie
	bestD := math.Inf(1)
	for _, z := range a.Zombies {
		if !z.Alive() {
			continue
		}
		if d := pos.Dist(z.Pos); d < bestD {
			best, bestD = z, d
		}
	}
	return best
}

func (a *Arena) stepNPC(dt float64, n *NPC, blockers []Box) {
	cfg := a.cfg.Combat
	tick := a.tick

	prevTarget := n.target
	n.target = a.nearestZombie(n.Pos)
	var r PerceptionResult
	var targetPos Vec3
	if n.target == nil {
		r = PerceptionResult{Distance: math.Inf(1), AngleToTarget: 180}
		targetPos = n.Pos
	} else {
		targetPos = n.target.Pos
		r = n.sensor.Sense(n.Pos, n.Facing, targetPos, n.target.Radius, blockers)
		if n.target != prevTarget {
			a.SimLog.Add(tick, n.Label, "npc", "vision", "target", n.target.Label, r.Distance)
		}
	}

	d := n.Machine.Step(dt, r, n.Pos, n.Facing, targetPos)
	n.lastDecision = d
	if d.Changed() {
		a.SimLog.Add(tick, n.Label, "npc", "state", "change", fmt.Sprintf("%s → %s", d.Previous, d.State), r.Distance)
		a.Thoughts.Add(tick, n.Label, FactionNPC, thoughtFor(d.State, n.target))
		a.log.Debug().Int("tick", tick).Str("npc", n.Label).
			Stringer("from", d.Previous).Stringer("to", d.State).
			Float64("distance", r.Distance).Msg("state change")
	}
	n.Anim.SetState(d.State)
	n.Facing = d.Facing

	switch {
	case d.BackOff:
		a.moveAgent(&n.Pos, n.Pos.Sub(n.Facing.Forward()), cfg.BackOffSpeed*dt)
	case !d.Stopped && d.Action != ActionHold:
		next := n.nav.Next(a.NavGrid(), a.navVersion, n.Pos, d.Destination)
		a.moveAgent(&n.Pos, next, cfg.MoveSpeed*dt)
	}

	if d.Action != ActionFire {
		return
	}
	eye := n.Pos.Add(Vec3{0, a.cfg.EyeHeight, 0})
	out := n.Weapon.TryFire(eye, n.Facing)
	n.Anim.OnFire(out)
	if out == OutOfAmmo {
		a.reload(n.Label, FactionNPC, n.Weapon, n.Anim)
	}
}

func thoughtFor(s CombatState, z *Zombie) string {
	label := "nothing"
	if z != nil {
		label = z.Label
	}
	switch s {
	case StateChase:
		return fmt.Sprintf("chasing %s", label)
	case StateAttack:
		return fmt.Sprintf("engaging %s", label)
	default:
		return "back on patrol"
	}
}

// moveAgent steps pos toward dest by at most step, refusing to enter a
// blocker.
func (a *Arena) moveAgent(pos *Vec3, dest Vec3, step float64) {
	delta := dest.Sub(*pos).Flat()
	dist := delta.Len()
	if dist < 1e-9 || step <= 0 {
		return
	}
	if step > dist {
		step = dist
	}
	next := pos.Add(delta.Scale(step / dist))
	if a.blockedAt(next) {
		return
	}
	pos.X, pos.Z = next.X, next.Z
}

func (a *Arena) resolveShot(ps pendingShot, blockers []Box) {
	s := ps.shot
	a.Stats.ShotsFired++
	if len(s.Directions) > 1 {
		a.Stats.PelletsFired += len(s.Directions)
	}
	a.SimLog.AddVerbose(a.tick, ps.shooter, ps.faction.String(), "weapon", "fire", string(s.Weapon), float64(len(s.Directions)))
	a.Stats.Rays += len(s.Directions)
	for _, dir := range s.Directions {
		a.resolveRay(ps, s.Origin, dir, blockers)
	}
}

// resolveRay applies damage to the first zombie along a ground-projected
// ray, unless an obstacle is closer.
func (a *Arena) resolveRay(ps pendingShot, origin, dir Vec3, blockers []Box) {
	shooter, maxDist, dmg := ps.shooter, ps.shot.Range, ps.shot.Damage
	flat := dir.Flat()
	if flat.Len() < 1e-6 {
		return
	}
	flat = flat.Normalize()

	var hit *Zombie
	hitT := math.Inf(1)
	for _, z := range a.Zombies {
		if !z.Alive() {
			continue
		}
		if t, ok := rayCircleHitT(origin, flat, maxDist, z.Pos, z.Radius); ok && t < hitT {
			hit, hitT = z, t
		}
	}
	if hit == nil {
		return
	}
	if t, ok := FirstObstacleHit(origin, flat, maxDist, blockers); ok && t < hitT {
		return
	}

	hit.Health -= dmg
	a.Stats.Hits++
	a.SimLog.Add(a.tick, shooter, "--", "zombie", "hit", hit.Label, dmg)
	if hit.Health <= 0 {
		a.Stats.Kills++
		a.SimLog.Add(a.tick, hit.Label, "zombie", "zombie", "killed", "by "+shooter, hitT)
		a.Thoughts.Add(a.tick, shooter, ps.faction, fmt.Sprintf("dropped %s", hit.Label))
		a.log.Debug().Int("tick", a.tick).Str("zombie", hit.Label).Str("by", shooter).Msg("zombie killed")
	}
}

func (a *Arena) stepZombies(dt float64) {
	p := a.Player
	zc := a.cfg.Zombie
	for _, z := range a.Zombies {
		if !z.Alive() || !p.Alive() {
			continue
		}
		if z.Pos.Flat().Dist(p.Loco.Pos.Flat()) > zc.Reach {
			next := z.nav.Next(a.NavGrid(), a.navVersion, z.Pos, p.Loco.Pos)
			a.moveAgent(&z.Pos, next, zc.Speed*dt)
			continue
		}
		dmg := zc.DamagePerSecond * dt
		p.Health -= dmg
		a.Stats.PlayerDamage += dmg
		if p.Health <= 0 {
			p.Health = 0
			a.SimLog.Add(a.tick, "P", "player", "player", "dead", "by "+z.Label, 0)
			a.Thoughts.Add(a.tick, "P", FactionPlayer, "down")
			a.log.Info().Int("tick", a.tick).Str("zombie", z.Label).Msg("player killed")
		}
	}
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
