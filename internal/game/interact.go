package game

import "fmt"

// PickupKind identifies what a pickup zone grants.
type PickupKind int

const (
	PickupM4 PickupKind = iota
	PickupShotgun
	PickupKey
	PickupEndKey
	PickupHealth
)

func (k PickupKind) String() string {
	switch k {
	case PickupM4:
		return "m4"
	case PickupShotgun:
		return "shotgun"
	case PickupKey:
		return "key"
	case PickupEndKey:
		return "end_key"
	case PickupHealth:
		return "health_box"
	default:
		return "unknown"
	}
}

// ParsePickupKind is the inverse of PickupKind.String.
func ParsePickupKind(s string) (PickupKind, error) {
	for k := PickupM4; k <= PickupHealth; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown pickup kind %q", s)
}

// Weapon returns the weapon a pickup unlocks, if any.
func (k PickupKind) Weapon() (WeaponID, bool) {
	switch k {
	case PickupM4:
		return WeaponM4, true
	case PickupShotgun:
		return WeaponShotgun, true
	}
	return "", false
}

const (
	pickupRadiusDefault = 1.5
	doorOpenDistance    = 3.0
)

// Pickup is a trigger zone the player walks into.
type Pickup struct {
	Kind     PickupKind
	Pos      Vec3
	Radius   float64
	Consumed bool
}

// Door blocks LOS and movement until opened with the matching key.
type Door struct {
	ID    string
	Box   Box
	End   bool // the level exit, needs the end key
	Open  bool
	label string
}

func (d *Door) requiredKey() PickupKind {
	if d.End {
		return PickupEndKey
	}
	return PickupKey
}

// Inventory is what the player carries besides weapons.
type Inventory struct {
	HasKey        bool
	HasEndKey     bool
	LevelComplete bool
}

func (inv *Inventory) has(k PickupKind) bool {
	switch k {
	case PickupKey:
		return inv.HasKey
	case PickupEndKey:
		return inv.HasEndKey
	}
	return false
}

// InteractKind classifies an InteractEvent.
type InteractKind int

const (
	InteractPickedUp InteractKind = iota
	InteractDoorOpened
	InteractLevelComplete
)

func (k InteractKind) String() string {
	switch k {
	case InteractPickedUp:
		return "picked_up"
	case InteractDoorOpened:
		return "door_opened"
	case InteractLevelComplete:
		return "level_complete"
	default:
		return "unknown"
	}
}

// InteractEvent reports one thing that happened during Update.
type InteractEvent struct {
	Kind   InteractKind
	Pickup PickupKind
	DoorID string
}

// Interaction tracks pickups, doors and the player's inventory.
type Interaction struct {
	Pickups []*Pickup
	Doors   []*Door
	Inv     Inventory

	prompt string
	// dismissed suppresses the health box prompt until the player leaves it.
	dismissed *Pickup
}

// AddPickup places a pickup zone. radius <= 0 uses the default.
func (in *Interaction) AddPickup(kind PickupKind, pos Vec3, radius float64) *Pickup {
	if radius <= 0 {
		radius = pickupRadiusDefault
	}
	p := &Pickup{Kind: kind, Pos: pos, Radius: radius}
	in.Pickups = append(in.Pickups, p)
	return p
}

// AddDoor places a closed door.
func (in *Interaction) AddDoor(id string, box Box, end bool) *Door {
	label := "door"
	if end {
		label = "exit door"
	}
	d := &Door{ID: id, Box: box, End: end, label: label}
	in.Doors = append(in.Doors, d)
	return d
}

// Prompt returns the on-screen hint after the last Update, or "".
func (in *Interaction) Prompt() string { return in.prompt }

// ClosedDoorBoxes returns the footprints of every closed door.
func (in *Interaction) ClosedDoorBoxes() []Box {
	var out []Box
	for _, d := range in.Doors {
		if !d.Open {
			out = append(out, d.Box)
		}
	}
	return out
}

// Update refreshes prompts for a player at pos. interact is the pickup
// key edge, open the door key edge.
func (in *Interaction) Update(pos Vec3, interact, open bool) []InteractEvent {
	var events []InteractEvent
	in.prompt = ""

	var zone *Pickup
	for _, p := range in.Pickups {
		if p.Consumed {
			continue
		}
		if pos.Flat().Dist(p.Pos.Flat()) <= p.Radius {
			zone = p
			break
		}
	}
	if zone != in.dismissed {
		in.dismissed = nil
	}
	if zone != nil && zone != in.dismissed {
		in.prompt = fmt.Sprintf("Press E to pick up %s", zone.Kind)
		if interact {
			in.prompt = ""
			switch zone.Kind {
			case PickupHealth:
				in.dismissed = zone
			case PickupKey:
				in.Inv.HasKey = true
				zone.Consumed = true
			case PickupEndKey:
				in.Inv.HasEndKey = true
				zone.Consumed = true
			default:
				zone.Consumed = true
			}
			events = append(events, InteractEvent{Kind: InteractPickedUp, Pickup: zone.Kind})
		}
	}

	for _, d := range in.Doors {
		if d.Open || !in.Inv.has(d.requiredKey()) {
			continue
		}
		if distToBox(pos, d.Box) >= doorOpenDistance {
			continue
		}
		if !open {
			if in.prompt == "" {
				in.prompt = fmt.Sprintf("Press Q to open %s", d.label)
			}
			continue
		}
		d.Open = true
		events = append(events, InteractEvent{Kind: InteractDoorOpened, DoorID: d.ID})
		if d.End {
			in.Inv.LevelComplete = true
			events = append(events, InteractEvent{Kind: InteractLevelComplete, DoorID: d.ID})
		}
	}
	return events
}

// distToBox is the planar distance from p to the nearest point of b.
func distToBox(p Vec3, b Box) float64 {
	cx := clamp(p.X, b.MinX, b.MaxX)
	cz := clamp(p.Z, b.MinZ, b.MaxZ)
	return Vec3{p.X - cx, 0, p.Z - cz}.Len()
}
