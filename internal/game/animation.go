package game

// Animator parameter names.
const (
	AnimChase  = "Chase"
	AnimAttack = "Attack"
	AnimFire   = "Fire"
	AnimReload = "Reload"
)

// AnimatorAdapter turns logic outcomes into animator parameters. It keeps
// the last flags it pushed so it only reports changes.
type AnimatorAdapter struct {
	flags    map[string]bool
	triggers []string
}

func NewAnimatorAdapter() *AnimatorAdapter {
	return &AnimatorAdapter{flags: map[string]bool{AnimChase: false, AnimAttack: false}}
}

// StateFlags returns the bool parameters for s.
func StateFlags(s CombatState) map[string]bool {
	return map[string]bool{
		AnimChase:  s == StateChase,
		AnimAttack: s == StateAttack,
	}
}

// SetState applies s and returns the names of flags whose value changed.
func (a *AnimatorAdapter) SetState(s CombatState) []string {
	var changed []string
	for _, name := range []string{AnimChase, AnimAttack} {
		v := StateFlags(s)[name]
		if a.flags[name] != v {
			a.flags[name] = v
			changed = append(changed, name)
		}
	}
	return changed
}

// Flag returns the current value of a bool parameter.
func (a *AnimatorAdapter) Flag(name string) bool { return a.flags[name] }

// OnFire queues the Fire trigger when a shot went out.
func (a *AnimatorAdapter) OnFire(o FireOutcome) {
	if o == Fired {
		a.triggers = append(a.triggers, AnimFire)
	}
}

// OnReload queues the Reload trigger when a reload started.
func (a *AnimatorAdapter) OnReload(o ReloadOutcome) {
	if o == ReloadStarted {
		a.triggers = append(a.triggers, AnimReload)
	}
}

// DrainTriggers returns and clears the queued triggers.
func (a *AnimatorAdapter) DrainTriggers() []string {
	out := a.triggers
	a.triggers = nil
	return out
}
