// Package config loads tuning for the arena, the viewer and the headless
// runner from an optional YAML or JSON file.
package config

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Garsondee/Firefight/internal/game"
)

type Config struct {
	LogLevel string                  `mapstructure:"log_level"`
	Sim      SimConfig               `mapstructure:"sim"`
	Combat   CombatConfig            `mapstructure:"combat"`
	Loadout  LoadoutConfig           `mapstructure:"loadout"`
	Player   PlayerConfig            `mapstructure:"player"`
	Zombie   ZombieConfig            `mapstructure:"zombie"`
	Weapons  map[string]WeaponConfig `mapstructure:"weapons"`
	Store    StoreConfig             `mapstructure:"store"`
}

type SimConfig struct {
	Scenario string `mapstructure:"scenario"`
	Seed     int64  `mapstructure:"seed"`
	Ticks    int    `mapstructure:"ticks"`
	TickRate int    `mapstructure:"tick_rate"` // steps per second
}

type CombatConfig struct {
	ViewAngleLimit    float64 `mapstructure:"view_angle_limit"`
	ChaseRange        float64 `mapstructure:"chase_range"`
	AttackRange       float64 `mapstructure:"attack_range"`
	ProbeDistance     float64 `mapstructure:"probe_distance"`
	WaypointAccuracy  float64 `mapstructure:"waypoint_accuracy"`
	ChaseStopRadius   float64 `mapstructure:"chase_stop_radius"`
	BackOffRadius     float64 `mapstructure:"back_off_radius"`
	AttackStopRadius  float64 `mapstructure:"attack_stop_radius"`
	FacingLockRadius  float64 `mapstructure:"facing_lock_radius"`
	FacingTurnRate    float64 `mapstructure:"facing_turn_rate"`
	AgentAngularSpeed float64 `mapstructure:"agent_angular_speed"`
	MoveSpeed         float64 `mapstructure:"move_speed"`
	BackOffSpeed      float64 `mapstructure:"back_off_speed"`
}

type LoadoutConfig struct {
	SwitchDelay float64 `mapstructure:"switch_delay"`
}

type PlayerConfig struct {
	Health      float64 `mapstructure:"health"`
	EyeHeight   float64 `mapstructure:"eye_height"`
	WalkSpeed   float64 `mapstructure:"walk_speed"`
	RunSpeed    float64 `mapstructure:"run_speed"`
	CrouchSpeed float64 `mapstructure:"crouch_speed"`
	JumpSpeed   float64 `mapstructure:"jump_speed"`
}

type ZombieConfig struct {
	Health          float64 `mapstructure:"health"`
	Speed           float64 `mapstructure:"speed"`
	Radius          float64 `mapstructure:"radius"`
	Reach           float64 `mapstructure:"reach"`
	DamagePerSecond float64 `mapstructure:"damage_per_second"`
}

type WeaponConfig struct {
	Name            string  `mapstructure:"name"`
	Trigger         string  `mapstructure:"trigger"`
	MagCapacity     int     `mapstructure:"mag_capacity"`
	ReserveAmmo     int     `mapstructure:"reserve_ammo"`
	Infinite        bool    `mapstructure:"infinite"`
	FireInterval    float64 `mapstructure:"fire_interval"`
	SpreadFactor    float64 `mapstructure:"spread_factor"`
	Range           float64 `mapstructure:"range"`
	Pellets         int     `mapstructure:"pellets"`
	PelletSpreadDeg float64 `mapstructure:"pellet_spread_deg"`
	PelletSpeed     float64 `mapstructure:"pellet_speed"`
	ReloadDuration  float64 `mapstructure:"reload_duration"`
	Damage          float64 `mapstructure:"damage"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"` // empty disables persistence
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("sim.scenario", "courtyard")
	v.SetDefault("sim.seed", 42)
	v.SetDefault("sim.ticks", 3600)
	v.SetDefault("sim.tick_rate", 60)

	c := game.DefaultCombatConfig()
	v.SetDefault("combat.view_angle_limit", c.ViewAngleLimit)
	v.SetDefault("combat.chase_range", c.ChaseRange)
	v.SetDefault("combat.attack_range", c.AttackRange)
	v.SetDefault("combat.probe_distance", c.ProbeDistance)
	v.SetDefault("combat.waypoint_accuracy", c.WaypointAccuracy)
	v.SetDefault("combat.chase_stop_radius", c.ChaseStopRadius)
	v.SetDefault("combat.back_off_radius", c.BackOffRadius)
	v.SetDefault("combat.attack_stop_radius", c.AttackStopRadius)
	v.SetDefault("combat.facing_lock_radius", c.FacingLockRadius)
	v.SetDefault("combat.facing_turn_rate", c.FacingTurnRate)
	v.SetDefault("combat.agent_angular_speed", c.AgentAngularSpeed)
	v.SetDefault("combat.move_speed", c.MoveSpeed)
	v.SetDefault("combat.back_off_speed", c.BackOffSpeed)

	v.SetDefault("loadout.switch_delay", game.DefaultSwitchDelay)

	a := game.DefaultArenaConfig()
	v.SetDefault("player.health", a.PlayerHealth)
	v.SetDefault("player.eye_height", a.EyeHeight)
	v.SetDefault("player.walk_speed", a.Locomotion.WalkSpeed)
	v.SetDefault("player.run_speed", a.Locomotion.RunSpeed)
	v.SetDefault("player.crouch_speed", a.Locomotion.CrouchSpeed)
	v.SetDefault("player.jump_speed", a.Locomotion.JumpSpeed)

	v.SetDefault("zombie.health", a.Zombie.Health)
	v.SetDefault("zombie.speed", a.Zombie.Speed)
	v.SetDefault("zombie.radius", a.Zombie.Radius)
	v.SetDefault("zombie.reach", a.Zombie.Reach)
	v.SetDefault("zombie.damage_per_second", a.Zombie.DamagePerSecond)

	for id, w := range game.DefaultWeapons() {
		k := "weapons." + string(id) + "."
		v.SetDefault(k+"name", w.Name)
		v.SetDefault(k+"trigger", w.Trigger.String())
		v.SetDefault(k+"mag_capacity", w.MagCapacity)
		v.SetDefault(k+"reserve_ammo", w.ReserveAmmo)
		v.SetDefault(k+"infinite", w.Infinite)
		v.SetDefault(k+"fire_interval", w.FireInterval)
		v.SetDefault(k+"spread_factor", w.SpreadFactor)
		v.SetDefault(k+"range", w.Range)
		v.SetDefault(k+"pellets", w.Pellets)
		v.SetDefault(k+"pellet_spread_deg", w.PelletSpreadDeg)
		v.SetDefault(k+"pellet_speed", w.PelletSpeed)
		v.SetDefault(k+"reload_duration", w.ReloadDuration)
		v.SetDefault(k+"damage", w.Damage)
	}

	v.SetDefault("store.path", "")
}

// Load reads config from path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.Sim.TickRate <= 0 {
		return nil, fmt.Errorf("sim.tick_rate must be positive, got %d", cfg.Sim.TickRate)
	}
	return &cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// DT returns the fixed simulation step in seconds.
func (c *Config) DT() float64 { return 1 / float64(c.Sim.TickRate) }

// Arena converts the file layout into the arena's configuration.
func (c *Config) Arena() (game.ArenaConfig, error) {
	a := game.DefaultArenaConfig()
	a.Combat = game.CombatConfig{
		ViewAngleLimit:    c.Combat.ViewAngleLimit,
		ChaseRange:        c.Combat.ChaseRange,
		AttackRange:       c.Combat.AttackRange,
		ProbeDistance:     c.Combat.ProbeDistance,
		WaypointAccuracy:  c.Combat.WaypointAccuracy,
		ChaseStopRadius:   c.Combat.ChaseStopRadius,
		BackOffRadius:     c.Combat.BackOffRadius,
		AttackStopRadius:  c.Combat.AttackStopRadius,
		FacingLockRadius:  c.Combat.FacingLockRadius,
		FacingTurnRate:    c.Combat.FacingTurnRate,
		AgentAngularSpeed: c.Combat.AgentAngularSpeed,
		MoveSpeed:         c.Combat.MoveSpeed,
		BackOffSpeed:      c.Combat.BackOffSpeed,
	}
	if err := a.Combat.Validate(); err != nil {
		return game.ArenaConfig{}, fmt.Errorf("config: %w", err)
	}
	a.SwitchDelay = c.Loadout.SwitchDelay
	a.PlayerHealth = c.Player.Health
	a.EyeHeight = c.Player.EyeHeight
	a.Locomotion.WalkSpeed = c.Player.WalkSpeed
	a.Locomotion.RunSpeed = c.Player.RunSpeed
	a.Locomotion.CrouchSpeed = c.Player.CrouchSpeed
	a.Locomotion.JumpSpeed = c.Player.JumpSpeed
	a.Zombie = game.ZombieConfig{
		Health:          c.Zombie.Health,
		Speed:           c.Zombie.Speed,
		Radius:          c.Zombie.Radius,
		Reach:           c.Zombie.Reach,
		DamagePerSecond: c.Zombie.DamagePerSecond,
	}

	a.Weapons = make(map[game.WeaponID]game.WeaponSpec, len(c.Weapons))
	for key, w := range c.Weapons {
		trig, err := game.ParseTriggerMode(w.Trigger)
		if err != nil {
			return game.ArenaConfig{}, fmt.Errorf("config: weapons.%s: %w", key, err)
		}
		spec := game.WeaponSpec{
			ID:              game.WeaponID(key),
			Name:            w.Name,
			Trigger:         trig,
			MagCapacity:     w.MagCapacity,
			ReserveAmmo:     w.ReserveAmmo,
			Infinite:        w.Infinite,
			FireInterval:    w.FireInterval,
			SpreadFactor:    w.SpreadFactor,
			Range:           w.Range,
			Pellets:         w.Pellets,
			PelletSpreadDeg: w.PelletSpreadDeg,
			PelletSpeed:     w.PelletSpeed,
			ReloadDuration:  w.ReloadDuration,
			Damage:          w.Damage,
		}
		if err := spec.Validate(); err != nil {
			return game.ArenaConfig{}, fmt.Errorf("config: %w", err)
		}
		a.Weapons[spec.ID] = spec
	}
	return a, nil
}
