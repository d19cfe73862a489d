package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Firefight/internal/config"
	"github.com/Garsondee/Firefight/internal/game"
	"github.com/Garsondee/Firefight/internal/store"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstChaseTick  int
	firstAttackTick int
	firstKillTick   int
	firstReloadTick int
	levelDoneTick   int

	stateChanges int
	targets      int

	stats         game.ArenaStats
	zombiesTotal  int
	zombiesAlive  int
	playerHealth  float64
	levelComplete bool
	finalStates   map[string]string // npc label -> state at the end
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var cfgPath string
	var dbPath string
	var copyOut bool
	var autoplay bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 0, "ticks per run (0 = config value)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "", "scenario name (empty = config value)")
	flag.StringVar(&cfgPath, "config", "", "optional YAML/JSON config file")
	flag.StringVar(&dbPath, "db", "", "SQLite file to record runs in (empty = config value, none if unset)")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&autoplay, "autoplay", true, "let the player turn and fire at nearby zombies")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = log.Level(cfg.Level())
	arenaCfg, err := cfg.Arena()
	if err != nil {
		log.Fatal().Err(err).Msg("arena config")
	}
	if ticks == 0 {
		ticks = cfg.Sim.Ticks
	}
	if scenario == "" {
		scenario = cfg.Sim.Scenario
	}
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	var db *store.Store
	if dbPath != "" {
		db, err = store.Open(dbPath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("open run store")
		}
		defer db.Close()
	}

	var buf bytes.Buffer
	out := io.MultiWriter(os.Stdout, &buf)

	fmt.Fprintf(out, "=== Headless Combat Report ===\n")
	fmt.Fprintf(out, "scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runScenario(i+1, scenario, arenaCfg, seed, ticks, cfg.DT(), autoplay, log)
		if err != nil {
			log.Fatal().Err(err).Int64("seed", seed).Msg("run scenario")
		}
		all = append(all, rs)
		printRun(out, rs)

		if db != nil {
			rec := buildRecord(scenario, rs)
			if err := db.Save(context.Background(), &rec); err != nil {
				log.Error().Err(err).Msg("save run")
			} else {
				fmt.Fprintf(out, "stored run id=%s\n\n", rec.ID)
			}
		}
	}

	printAggregate(out, all)

	if copyOut {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			log.Warn().Err(err).Msg("copy report to clipboard")
		} else {
			log.Info().Int("bytes", buf.Len()).Msg("report copied to clipboard")
		}
	}
}

func runScenario(runIndex int, scenario string, cfg game.ArenaConfig, seed int64, ticks int, dt float64, autoplay bool, log zerolog.Logger) (runStats, error) {
	ts, err := game.NewScenario(scenario, cfg, seed, log)
	if err != nil {
		return runStats{}, err
	}
	ts.DT = dt
	if autoplay {
		ts.Input = func(int) game.PlayerInput {
			return game.AutoPlayer(ts.Arena, 20, 4, dt)
		}
	}
	ts.RunTicks(ticks)

	entries := ts.SimLog.Entries()
	targets := map[string]struct{}{}
	for _, e := range entries {
		if e.Category == "vision" && e.Key == "target" {
			targets[e.Agent+">"+e.Value] = struct{}{}
		}
	}

	a := ts.Arena
	final := map[string]string{}
	for _, n := range a.NPCs {
		final[n.Label] = n.Machine.State().String()
	}

	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		ticks:           ticks,
		firstChaseTick:  firstTick(entries, "state", "change", "→ chase"),
		firstAttackTick: firstTick(entries, "state", "change", "→ attack"),
		firstKillTick:   firstTick(entries, "zombie", "killed", ""),
		firstReloadTick: firstTick(entries, "weapon", "reload", ""),
		levelDoneTick:   firstTick(entries, "interact", "level_complete", ""),
		stateChanges:    ts.SimLog.CountCategory("state", "change"),
		targets:         len(targets),
		stats:           a.Stats,
		zombiesTotal:    len(a.Zombies),
		zombiesAlive:    a.AliveZombies(),
		playerHealth:    a.Player.Health,
		levelComplete:   a.Player.Interact.Inv.LevelComplete,
		finalStates:     final,
	}, nil
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func buildRecord(scenario string, rs runStats) store.RunRecord {
	return store.RunRecord{
		Scenario:        scenario,
		Seed:            rs.seed,
		Ticks:           rs.ticks,
		ShotsFired:      rs.stats.ShotsFired,
		Rays:            rs.stats.Rays,
		Hits:            rs.stats.Hits,
		Kills:           rs.stats.Kills,
		Reloads:         rs.stats.Reloads,
		Switches:        rs.stats.Switches,
		Footsteps:       rs.stats.Footsteps,
		ZombiesTotal:    rs.zombiesTotal,
		ZombiesAlive:    rs.zombiesAlive,
		PlayerHealth:    rs.playerHealth,
		PlayerAlive:     rs.playerHealth > 0,
		LevelComplete:   rs.levelComplete,
		FirstChaseTick:  rs.firstChaseTick,
		FirstAttackTick: rs.firstAttackTick,
		FirstKillTick:   rs.firstKillTick,
		StateChanges:    rs.stateChanges,
	}
}

// accuracy is hits per ray, in percent.
func accuracy(st game.ArenaStats) float64 {
	if st.Rays == 0 {
		return 0
	}
	return float64(st.Hits) / float64(st.Rays) * 100
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "phase_markers: first_chase=%d first_attack=%d first_kill=%d first_reload=%d level_complete=%d\n",
		rs.firstChaseTick, rs.firstAttackTick, rs.firstKillTick, rs.firstReloadTick, rs.levelDoneTick)
	fmt.Fprintf(w, "event_totals: state_change=%d targets=%d shots=%d rays=%d hits=%d kills=%d reloads=%d\n",
		rs.stateChanges, rs.targets, rs.stats.ShotsFired, rs.stats.Rays, rs.stats.Hits, rs.stats.Kills, rs.stats.Reloads)
	fmt.Fprintf(w, "accuracy=%.1f%% zombies_alive=%d/%d player_hp=%.0f\n",
		accuracy(rs.stats), rs.zombiesAlive, rs.zombiesTotal, rs.playerHealth)
	fmt.Fprintf(w, "final_npc_states: %s\n", joinStates(rs.finalStates))
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalState := 0
	totalKills := 0
	totalHits := 0
	totalRays := 0
	playerDeaths := 0
	cleared := 0

	chaseTicks := make([]int, 0, len(all))
	attackTicks := make([]int, 0, len(all))
	killTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalState += rs.stateChanges
		totalKills += rs.stats.Kills
		totalHits += rs.stats.Hits
		totalRays += rs.stats.Rays
		if rs.playerHealth <= 0 {
			playerDeaths++
		}
		if rs.zombiesAlive == 0 {
			cleared++
		}
		if rs.firstChaseTick >= 0 {
			chaseTicks = append(chaseTicks, rs.firstChaseTick)
		}
		if rs.firstAttackTick >= 0 {
			attackTicks = append(attackTicks, rs.firstAttackTick)
		}
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d cleared=%d player_deaths=%d\n", len(all), cleared, playerDeaths)
	fmt.Fprintf(w, "avg_per_run: state_change=%.1f kills=%.1f\n", avg(totalState, len(all)), avg(totalKills, len(all)))
	fmt.Fprintf(w, "accuracy=%.1f%%\n", accuracy(game.ArenaStats{Hits: totalHits, Rays: totalRays}))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_chase=%s first_attack=%s first_kill=%s\n",
		avgTickString(chaseTicks), avgTickString(attackTicks), avgTickString(killTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinStates(s map[string]string) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l + "=" + s[l]
	}
	return strings.Join(parts, ",")
}
