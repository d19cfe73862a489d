package game

import (
	"errors"
	"fmt"
)

// CombatState is the NPC's high-level behaviour state. There is no terminal
// state; the machine cycles for as long as the agent lives.
type CombatState int

const (
	StatePatrol CombatState = iota // walking waypoints
	StateChase                     // closing on a seen target
	StateAttack                    // target in range with line of sight
)

func (s CombatState) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Action is the per-tick intent handed to locomotion and the weapon.
type Action int

const (
	ActionAdvance Action = iota
	ActionHold
	ActionFire
)

func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionHold:
		return "hold"
	case ActionFire:
		return "fire"
	default:
		return "unknown"
	}
}

// CombatConfig holds the NPC thresholds. ChaseRange and AttackRange gate
// state transitions; the radii gate movement stop, back-off and the
// facing lock independently of them.
type CombatConfig struct {
	ViewAngleLimit float64 // degrees
	ChaseRange     float64
	AttackRange    float64
	ProbeDistance  float64 // forward LOS ray length

	WaypointAccuracy float64
	ChaseStopRadius  float64
	BackOffRadius    float64
	AttackStopRadius float64
	FacingLockRadius float64

	FacingTurnRate    float64 // slerp fraction per second inside the facing lock
	AgentAngularSpeed float64 // degrees per second while walking
	MoveSpeed         float64
	BackOffSpeed      float64
}

// DefaultCombatConfig returns the stock thresholds.
func DefaultCombatConfig() CombatConfig {
	return CombatConfig{
		ViewAngleLimit:    100,
		ChaseRange:        16,
		AttackRange:       10,
		ProbeDistance:     16,
		WaypointAccuracy:  3,
		ChaseStopRadius:   3,
		BackOffRadius:     2,
		AttackStopRadius:  10,
		FacingLockRadius:  3,
		FacingTurnRate:    3,
		AgentAngularSpeed: 120,
		MoveSpeed:         2,
		BackOffSpeed:      1,
	}
}

var errNegativeThreshold = errors.New("thresholds must not be negative")

// Validate rejects negative thresholds and a view limit outside (0,180].
func (c CombatConfig) Validate() error {
	for name, v := range map[string]float64{
		"chase_range":         c.ChaseRange,
		"attack_range":        c.AttackRange,
		"probe_distance":      c.ProbeDistance,
		"waypoint_accuracy":   c.WaypointAccuracy,
		"chase_stop_radius":   c.ChaseStopRadius,
		"back_off_radius":     c.BackOffRadius,
		"attack_stop_radius":  c.AttackStopRadius,
		"facing_lock_radius":  c.FacingLockRadius,
		"facing_turn_rate":    c.FacingTurnRate,
		"agent_angular_speed": c.AgentAngularSpeed,
		"move_speed":          c.MoveSpeed,
		"back_off_speed":      c.BackOffSpeed,
	} {
		if v < 0 {
			return fmt.Errorf("combat config %s=%v: %w", name, v, errNegativeThreshold)
		}
	}
	if c.ViewAngleLimit <= 0 || c.ViewAngleLimit > 180 {
		return fmt.Errorf("combat config: view angle limit %v outside (0,180]", c.ViewAngleLimit)
	}
	return nil
}

// NextState applies the transition rules in priority order.
func NextState(r PerceptionResult, cfg CombatConfig) CombatState {
	switch {
	case r.AngleToTarget >= cfg.ViewAngleLimit:
		return StatePatrol
	case r.Distance < cfg.AttackRange && r.HasLineOfSight:
		return StateAttack
	case r.Distance < cfg.ChaseRange:
		return StateChase
	default:
		return StatePatrol
	}
}

// Decision is the machine's output for one tick.
type Decision struct {
	State    CombatState
	Previous CombatState
	Action   Action

	Stopped     bool // locomotion halted
	BackOff     bool // step backwards this tick
	Destination Vec3
	Facing      Quat
	FacingLock  bool // facing is being slerped rather than snapped
}

// Changed reports whether the state transitioned this tick.
func (d Decision) Changed() bool { return d.State != d.Previous }

// CombatStateMachine drives one NPC through Patrol, Chase and Attack.
type CombatStateMachine struct {
	cfg             CombatConfig
	state           CombatState
	facingLockTimer float64
	waypoints       []Vec3
	waypointIdx     int
}

// NewCombatStateMachine starts in Patrol. waypoints may be empty, in which
// case the NPC holds position while patrolling.
func NewCombatStateMachine(cfg CombatConfig, waypoints []Vec3) (*CombatStateMachine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new combat state machine: %w", err)
	}
	return &CombatStateMachine{
		cfg:       cfg,
		state:     StatePatrol,
		waypoints: append([]Vec3(nil), waypoints...),
	}, nil
}

func (m *CombatStateMachine) State() CombatState { return m.state }

// FacingLockTimer is how long, in seconds, the facing lock has been engaged
// during the current Attack.
func (m *CombatStateMachine) FacingLockTimer() float64 { return m.facingLockTimer }

func (m *CombatStateMachine) Config() CombatConfig { return m.cfg }

// CurrentWaypoint returns the patrol waypoint being walked to.
func (m *CombatStateMachine) CurrentWaypoint() (Vec3, bool) {
	if len(m.waypoints) == 0 {
		return Vec3{}, false
	}
	return m.waypoints[m.waypointIdx], true
}

// Step consumes one perception result and produces the tick's decision.
// self and facing are the agent's current pose; target is the target's
// position.
func (m *CombatStateMachine) Step(dt float64, r PerceptionResult, self Vec3, facing Quat, target Vec3) Decision {
	prev := m.state
	m.state = NextState(r, m.cfg)
	if m.state != StateAttack {
		m.facingLockTimer = 0
	}

	d := Decision{State: m.state, Previous: prev, Facing: facing}
	switch m.state {
	case StatePatrol:
		m.patrol(dt, self, facing, &d)
	case StateChase:
		m.chase(dt, r, self, facing, target, &d)
	case StateAttack:
		m.attack(dt, r, self, facing, target, &d)
	}
	return d
}

func (m *CombatStateMachine) patrol(dt float64, self Vec3, facing Quat, d *Decision) {
	if len(m.waypoints) == 0 {
		d.Action = ActionHold
		d.Stopped = true
		d.Destination = self
		return
	}
	wp := m.waypoints[m.waypointIdx]
	if self.Flat().Dist(wp.Flat()) < m.cfg.WaypointAccuracy {
		m.waypointIdx = (m.waypointIdx + 1) % len(m.waypoints)
		wp = m.waypoints[m.waypointIdx]
	}
	d.Action = ActionAdvance
	d.Destination = wp
	d.Facing = m.turnToward(dt, self, facing, wp)
}

func (m *CombatStateMachine) chase(dt float64, r PerceptionResult, self Vec3, facing Quat, target Vec3, d *Decision) {
	d.Destination = target
	d.Stopped = r.Distance < m.cfg.ChaseStopRadius
	if d.Stopped {
		d.Action = ActionHold
	} else {
		d.Action = ActionAdvance
	}
	if r.Distance < m.cfg.AttackRange {
		// Inside attack range but blocked: square up to the target so the
		// forward probe can find it.
		d.Facing = lookAtFlat(self, target, facing)
		return
	}
	d.Facing = m.turnToward(dt, self, facing, target)
}

func (m *CombatStateMachine) attack(dt float64, r PerceptionResult, self Vec3, facing Quat, target Vec3, d *Decision) {
	d.Action = ActionFire
	d.Destination = target
	d.BackOff = r.Distance < m.cfg.BackOffRadius
	d.Stopped = r.Distance < m.cfg.AttackStopRadius

	look := lookAtFlat(self, target, facing)
	if r.Distance < m.cfg.FacingLockRadius {
		d.FacingLock = true
		d.Facing = Slerp(facing, look, m.cfg.FacingTurnRate*dt)
		m.facingLockTimer += dt
		return
	}
	m.facingLockTimer = 0
	d.Facing = look
}

// turnToward rotates facing toward point at the agent's angular speed.
func (m *CombatStateMachine) turnToward(dt float64, self Vec3, facing Quat, point Vec3) Quat {
	look := lookAtFlat(self, point, facing)
	return RotateTowards(facing, look, m.cfg.AgentAngularSpeed*dt)
}

// lookAtFlat returns the upright rotation facing from self toward point,
// or fallback when the two coincide on the ground plane.
func lookAtFlat(self, point Vec3, fallback Quat) Quat {
	dir := point.Sub(self).Flat()
	if dir.Len() < 1e-9 {
		return fallback
	}
	return LookRotation(dir, vecUp)
}
