package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Firefight/internal/game"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "courtyard", cfg.Sim.Scenario)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 60, cfg.Sim.TickRate)
	assert.Equal(t, 100.0, cfg.Combat.ViewAngleLimit)
	assert.Equal(t, 16.0, cfg.Combat.ChaseRange)
	assert.Equal(t, 10.0, cfg.Combat.AttackRange)
	assert.Equal(t, 3.0, cfg.Combat.ChaseStopRadius)
	assert.Equal(t, 2.0, cfg.Combat.BackOffRadius)
	assert.Equal(t, 10.0, cfg.Combat.AttackStopRadius)
	assert.Equal(t, 1.0, cfg.Loadout.SwitchDelay)
	assert.Equal(t, "", cfg.Store.Path)

	require.Contains(t, cfg.Weapons, "shotgun")
	assert.Equal(t, 8, cfg.Weapons["shotgun"].Pellets)
	assert.Equal(t, "semi", cfg.Weapons["shotgun"].Trigger)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firefight.yaml")
	body := `
log_level: debug
sim:
  scenario: ambush
  seed: 7
combat:
  attack_range: 12
weapons:
  pistol:
    mag_capacity: 12
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, "ambush", cfg.Sim.Scenario)
	assert.Equal(t, int64(7), cfg.Sim.Seed)
	assert.Equal(t, 12.0, cfg.Combat.AttackRange)
	// Untouched keys keep their defaults.
	assert.Equal(t, 16.0, cfg.Combat.ChaseRange)
	assert.Equal(t, 12, cfg.Weapons["pistol"].MagCapacity)
	assert.Equal(t, 200, cfg.Weapons["pistol"].ReserveAmmo)
}

func TestLoad_JSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firefight.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"loadout": {"switch_delay": 0.5}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Loadout.SwitchDelay)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/firefight.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_RejectsZeroTickRate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firefight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  tick_rate: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLevel_FallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	cfg.LogLevel = ""
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestArena_MatchesGameDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	a, err := cfg.Arena()
	require.NoError(t, err)

	def := game.DefaultArenaConfig()
	assert.Equal(t, def.Combat, a.Combat)
	assert.Equal(t, def.Zombie, a.Zombie)
	assert.Equal(t, def.SwitchDelay, a.SwitchDelay)
	assert.Equal(t, len(def.Weapons), len(a.Weapons))
	for id, w := range def.Weapons {
		assert.Equal(t, w, a.Weapons[id], "weapon %s", id)
	}
}

func TestArena_RejectsBadWeapon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firefight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weapons:\n  m4:\n    mag_capacity: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.Arena()
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrBadMagazine)
}

func TestArena_RejectsBadTrigger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firefight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weapons:\n  m4:\n    trigger: burst\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.Arena()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weapons.m4")
}
