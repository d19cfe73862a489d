package game

import "testing"

func TestInteraction_PickupPrompt(t *testing.T) {
	var in Interaction
	p := in.AddPickup(PickupM4, Vec3{}, 0)

	in.Update(Vec3{0, 0, 2}, false, false)
	if in.Prompt() != "" {
		t.Fatalf("outside radius should not prompt, got %q", in.Prompt())
	}

	in.Update(Vec3{0, 0, 1}, false, false)
	if in.Prompt() != "Press E to pick up m4" {
		t.Fatalf("unexpected prompt %q", in.Prompt())
	}

	events := in.Update(Vec3{0, 0, 1}, true, false)
	if len(events) != 1 || events[0].Kind != InteractPickedUp || events[0].Pickup != PickupM4 {
		t.Fatalf("expected one m4 pickup event, got %+v", events)
	}
	if !p.Consumed {
		t.Fatal("weapon pickup should be consumed")
	}
	in.Update(Vec3{0, 0, 1}, true, false)
	if in.Prompt() != "" {
		t.Fatal("consumed pickup should not prompt")
	}
}

func TestInteraction_HealthBoxOnlyDismisses(t *testing.T) {
	var in Interaction
	p := in.AddPickup(PickupHealth, Vec3{}, 0)

	events := in.Update(Vec3{}, true, false)
	if len(events) != 1 || p.Consumed {
		t.Fatalf("health box should report but stay: %+v consumed=%v", events, p.Consumed)
	}
	in.Update(Vec3{}, false, false)
	if in.Prompt() != "" {
		t.Fatal("prompt should stay hidden while the player remains")
	}
	in.Update(Vec3{0, 0, 5}, false, false)
	in.Update(Vec3{}, false, false)
	if in.Prompt() != "Press E to pick up health_box" {
		t.Fatalf("prompt should return after leaving, got %q", in.Prompt())
	}
}

func TestInteraction_DoorNeedsKey(t *testing.T) {
	var in Interaction
	d := in.AddDoor("gate", BoxAt(-1, 5, 2, 0.5), false)
	in.AddPickup(PickupKey, Vec3{10, 0, 0}, 0)

	if events := in.Update(Vec3{0, 0, 3}, false, true); len(events) != 0 || d.Open {
		t.Fatal("door should not open without the key")
	}
	if in.Prompt() != "" {
		t.Fatal("no door prompt without the key")
	}
	if len(in.ClosedDoorBoxes()) != 1 {
		t.Fatal("closed door should block")
	}

	in.Update(Vec3{10, 0, 0}, true, false)
	if !in.Inv.HasKey {
		t.Fatal("key should be in the inventory")
	}

	in.Update(Vec3{0, 0, 1}, false, false) // 4m away
	if in.Prompt() != "" {
		t.Fatalf("door too far for a prompt, got %q", in.Prompt())
	}
	in.Update(Vec3{0, 0, 3}, false, false)
	if in.Prompt() != "Press Q to open door" {
		t.Fatalf("unexpected prompt %q", in.Prompt())
	}
	events := in.Update(Vec3{0, 0, 3}, false, true)
	if len(events) != 1 || events[0].Kind != InteractDoorOpened || events[0].DoorID != "gate" {
		t.Fatalf("expected door opened event, got %+v", events)
	}
	if !d.Open || len(in.ClosedDoorBoxes()) != 0 {
		t.Fatal("door should be open and no longer block")
	}
	if in.Inv.LevelComplete {
		t.Fatal("an ordinary door does not end the level")
	}
}

func TestInteraction_EndDoorCompletesLevel(t *testing.T) {
	var in Interaction
	in.Inv.HasKey = true
	in.AddDoor("exit", BoxAt(-1, 5, 2, 0.5), true)

	if events := in.Update(Vec3{0, 0, 4}, false, true); len(events) != 0 {
		t.Fatal("the exit needs the end key")
	}
	in.Inv.HasEndKey = true
	in.Update(Vec3{0, 0, 4}, false, false)
	if in.Prompt() != "Press Q to open exit door" {
		t.Fatalf("unexpected prompt %q", in.Prompt())
	}
	events := in.Update(Vec3{0, 0, 4}, false, true)
	if len(events) != 2 || events[1].Kind != InteractLevelComplete {
		t.Fatalf("expected open and level complete events, got %+v", events)
	}
	if !in.Inv.LevelComplete {
		t.Fatal("inventory should record level complete")
	}
}

func TestPickupKind_Parse(t *testing.T) {
	if k, err := ParsePickupKind("end_key"); err != nil || k != PickupEndKey {
		t.Fatalf("got %v, %v", k, err)
	}
	if _, err := ParsePickupKind("rocket"); err == nil {
		t.Fatal("expected error for unknown pickup")
	}
	if _, ok := PickupKey.Weapon(); ok {
		t.Fatal("a key is not a weapon")
	}
	if id, ok := PickupShotgun.Weapon(); !ok || id != WeaponShotgun {
		t.Fatalf("shotgun pickup should unlock the shotgun, got %s", id)
	}
}
