package game

// MoveStatus classifies what the player controller is doing this frame.
type MoveStatus int

const (
	MoveNotMoving MoveStatus = iota
	MoveCrouching
	MoveWalking
	MoveRunning
	MoveNotGrounded
	MoveLanding
)

func (s MoveStatus) String() string {
	switch s {
	case MoveNotMoving:
		return "not_moving"
	case MoveCrouching:
		return "crouching"
	case MoveWalking:
		return "walking"
	case MoveRunning:
		return "running"
	case MoveNotGrounded:
		return "not_grounded"
	case MoveLanding:
		return "landing"
	default:
		return "unknown"
	}
}

// LocomotionConfig tunes the player controller.
type LocomotionConfig struct {
	WalkSpeed         float64
	RunSpeed          float64
	CrouchSpeed       float64
	JumpSpeed         float64
	Gravity           float64
	StandHeight       float64
	RunStepLengthen   float64
	BobBaseInterval   float64
	BobHorizontal     float64
	BobVertical       float64
	SwayAmount        float64
	SwayMax           float64
	SwaySmooth        float64
	StickToGroundPull float64
}

// DefaultLocomotionConfig returns the stock controller tuning.
func DefaultLocomotionConfig() LocomotionConfig {
	return LocomotionConfig{
		WalkSpeed:         2,
		RunSpeed:          4.5,
		CrouchSpeed:       1,
		JumpSpeed:         7.5,
		Gravity:           9.81 * 2.5,
		StandHeight:       2,
		RunStepLengthen:   0.75,
		BobBaseInterval:   1,
		BobHorizontal:     0.01,
		BobVertical:       0.02,
		SwayAmount:        0.02,
		SwayMax:           0.06,
		SwaySmooth:        6,
		StickToGroundPull: 5,
	}
}

// MoveInput is the player's movement intent for one frame.
type MoveInput struct {
	Forward, Strafe float64 // axes in [-1,1]
	Run             bool
	JumpPressed     bool // edge
	CrouchPressed   bool // edge
	MouseX, MouseY  float64
}

// Locomotion is a kinematic player controller on flat ground.
type Locomotion struct {
	cfg LocomotionConfig

	Pos    Vec3
	Yaw    float64 // radians, 0 faces +Z
	VelY   float64
	Height float64

	grounded     bool
	prevGrounded bool
	crouching    bool
	status       MoveStatus
	speed        float64

	Bob  *HeadBob
	Sway WeaponSway
}

// NewLocomotion places a standing, grounded controller at pos.
func NewLocomotion(cfg LocomotionConfig, pos Vec3) *Locomotion {
	return &Locomotion{
		cfg:          cfg,
		Pos:          pos,
		Height:       cfg.StandHeight,
		grounded:     true,
		prevGrounded: true,
		Bob:          NewHeadBob(cfg.BobBaseInterval, cfg.BobHorizontal, cfg.BobVertical),
		Sway:         WeaponSway{Amount: cfg.SwayAmount, Max: cfg.SwayMax, Smooth: cfg.SwaySmooth},
	}
}

func (l *Locomotion) Status() MoveStatus { return l.status }
func (l *Locomotion) Crouching() bool    { return l.crouching }
func (l *Locomotion) Grounded() bool     { return l.grounded }

// Speed is the horizontal speed chosen on the last Update.
func (l *Locomotion) Speed() float64 { return l.speed }

// Facing returns the controller's yaw rotation.
func (l *Locomotion) Facing() Quat { return QuatYaw(l.Yaw) }

// ClassifyMove applies the status priority: landing beats airborne, which
// beats standing still, crouching, walking and running in that order.
func ClassifyMove(grounded, prevGrounded, crouching, run bool, velSq float64) MoveStatus {
	switch {
	case grounded && !prevGrounded:
		return MoveLanding
	case !grounded:
		return MoveNotGrounded
	case velSq < 0.01:
		return MoveNotMoving
	case crouching:
		return MoveCrouching
	case run:
		return MoveRunning
	default:
		return MoveWalking
	}
}

// Update integrates one frame and returns any head-bob events crossed.
// blocked reports whether a ground position is inside an obstacle.
func (l *Locomotion) Update(dt float64, in MoveInput, blocked func(Vec3) bool) []BobEvent {
	if in.CrouchPressed && l.grounded {
		l.crouching = !l.crouching
		if l.crouching {
			l.Height = l.cfg.StandHeight / 2
		} else {
			l.Height = l.cfg.StandHeight
		}
	}

	switch {
	case l.crouching:
		l.speed = l.cfg.CrouchSpeed
	case in.Run:
		l.speed = l.cfg.RunSpeed
	default:
		l.speed = l.cfg.WalkSpeed
	}

	desired := Vec3{in.Strafe, 0, in.Forward}
	if desired.Len() > 1 {
		desired = desired.Normalize()
	}
	world := l.Facing().Rotate(desired).Scale(l.speed)

	l.prevGrounded = l.grounded
	if l.grounded {
		l.VelY = -l.cfg.StickToGroundPull
		if in.JumpPressed && !l.crouching {
			l.VelY = l.cfg.JumpSpeed
			l.grounded = false
		}
	} else {
		l.VelY -= l.cfg.Gravity * dt
	}

	next := l.Pos.Add(Vec3{world.X * dt, 0, world.Z * dt})
	if blocked == nil || !blocked(next) {
		l.Pos.X, l.Pos.Z = next.X, next.Z
	}
	l.Pos.Y += l.VelY * dt
	if l.Pos.Y <= 0 {
		l.Pos.Y = 0
		l.grounded = true
	}

	velSq := world.X*world.X + world.Z*world.Z
	if desired.Len() == 0 {
		velSq = 0
	}
	l.status = ClassifyMove(l.grounded, l.prevGrounded, l.crouching, in.Run, velSq)

	l.Sway.Update(dt, in.MouseX, in.MouseY)

	if l.status == MoveNotMoving || l.status == MoveNotGrounded {
		return nil
	}
	stride := 1.0
	if l.status == MoveRunning {
		stride = l.cfg.RunStepLengthen
	}
	return l.Bob.Advance(l.speed*dt*stride, l.crouching)
}

// WeaponSway lags the weapon model behind mouse movement.
type WeaponSway struct {
	Amount, Max, Smooth float64
	OffsetX, OffsetY    float64
}

// Update moves the offset toward clamp(-mouse*amount, ±max).
func (s *WeaponSway) Update(dt, mouseX, mouseY float64) {
	tx := clamp(-mouseX*s.Amount, -s.Max, s.Max)
	ty := clamp(-mouseY*s.Amount, -s.Max, s.Max)
	f := clamp01(dt * s.Smooth)
	s.OffsetX += (tx - s.OffsetX) * f
	s.OffsetY += (ty - s.OffsetY) * f
}
