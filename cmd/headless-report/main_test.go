package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Firefight/internal/game"
)

func TestFirstTick(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Category: "state", Key: "change", Value: "patrol → chase"},
		{Tick: 9, Category: "state", Key: "change", Value: "chase → attack"},
		{Tick: 12, Category: "zombie", Key: "killed", Value: "by N0"},
	}
	if got := firstTick(entries, "state", "change", "→ attack"); got != 9 {
		t.Fatalf("expected first attack at 9, got %d", got)
	}
	if got := firstTick(entries, "zombie", "killed", ""); got != 12 {
		t.Fatalf("expected first kill at 12, got %d", got)
	}
	if got := firstTick(entries, "weapon", "reload", ""); got != -1 {
		t.Fatalf("expected -1 for missing event, got %d", got)
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("expected n/a, got %s", got)
	}
	if got := avgTickString([]int{10, 20}); got != "15.0" {
		t.Fatalf("expected 15.0, got %s", got)
	}
}

func TestAccuracy_ZeroRays(t *testing.T) {
	if got := accuracy(game.ArenaStats{}); got != 0 {
		t.Fatalf("expected 0 accuracy with no rays, got %v", got)
	}
	if got := accuracy(game.ArenaStats{Rays: 4, Hits: 1}); got != 25 {
		t.Fatalf("expected 25%%, got %v", got)
	}
}

func TestJoinStates_Sorted(t *testing.T) {
	got := joinStates(map[string]string{"N1": "attack", "N0": "patrol"})
	if got != "N0=patrol,N1=attack" {
		t.Fatalf("unexpected join: %s", got)
	}
	if joinStates(nil) != "none" {
		t.Fatalf("expected none for empty map")
	}
}

func TestBuildRecord_CopiesStats(t *testing.T) {
	rs := runStats{
		seed:         5,
		ticks:        600,
		stats:        game.ArenaStats{ShotsFired: 10, Rays: 17, Hits: 6, Kills: 2},
		zombiesTotal: 4,
		zombiesAlive: 2,
		playerHealth: 0,
	}
	rec := buildRecord("ambush", rs)
	if rec.Scenario != "ambush" || rec.Seed != 5 || rec.Rays != 17 || rec.Kills != 2 {
		t.Fatalf("record did not copy stats: %+v", rec)
	}
	if rec.PlayerAlive {
		t.Fatalf("player with 0 hp should not be alive")
	}
}

func TestPrintRun_Format(t *testing.T) {
	var buf bytes.Buffer
	printRun(&buf, runStats{runIndex: 1, seed: 42, finalStates: map[string]string{"N0": "attack"}})
	out := buf.String()
	if !strings.Contains(out, "--- Run 1 (seed=42) ---") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "final_npc_states: N0=attack") {
		t.Fatalf("missing final states:\n%s", out)
	}
}

func TestRunScenario_Ambush(t *testing.T) {
	rs, err := runScenario(1, "ambush", game.DefaultArenaConfig(), 3, 1200, game.SimDT, false, zerolog.Nop())
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if rs.zombiesTotal != 3 {
		t.Fatalf("expected 3 zombies, got %d", rs.zombiesTotal)
	}
	if _, ok := rs.finalStates["N0"]; !ok {
		t.Fatalf("expected a final state for N0")
	}
}
