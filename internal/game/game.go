package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// pixelsPerMetre is the default top-down zoom.
const pixelsPerMetre = 18.0

// turnSpeed is the keyboard turn rate in radians per second.
const turnSpeed = 2.5

// Game is the top-down debug viewer around an Arena.
type Game struct {
	width      int
	height     int
	gameWidth  int // playfield width (log panel takes the rest)
	gameHeight int
	offX, offY int

	sim  *TestSim
	log  zerolog.Logger
	name string

	showHUD bool
	status  string // one-line feedback after a key action

	camZoom float64

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	prevCursorX int
}

// New builds the viewer around a named scenario stepped at dt seconds per
// tick.
func New(scenario string, cfg ArenaConfig, seed int64, dt float64, log zerolog.Logger) (*Game, error) {
	sim, err := NewScenario(scenario, cfg, seed, log)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	if dt > 0 {
		sim.DT = dt
	}
	fieldW, fieldH := 1280, 760
	g := &Game{
		width:      borderWidth + fieldW + borderWidth + logPanelWidth,
		height:     borderWidth + fieldH + borderWidth,
		gameWidth:  fieldW,
		gameHeight: fieldH,
		offX:       borderWidth,
		offY:       borderWidth,
		sim:        sim,
		log:        log,
		name:       scenario,
		showHUD:    true,
		camZoom:    1,
		simSpeed:   1,
	}
	g.prevCursorX, _ = ebiten.CursorPosition()
	return g, nil
}

// WindowSize returns the preferred window size.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	in := g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	// Speeds above 1 run several ticks per frame; below 1 accumulate.
	g.tickAccum += g.simSpeed
	first := true
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.sim.Arena.Step(g.sim.DT, in)
		if first {
			// Edges only apply to the first tick of a frame.
			in = in.Held()
			first = false
		}
	}
	return nil
}

// handleInput reads the keyboard and mouse into a PlayerInput and applies
// viewer-only keys.
func (g *Game) handleInput() PlayerInput {
	var in PlayerInput
	dt := g.sim.DT

	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move.Forward++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move.Forward--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Move.Strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Move.Strafe--
	}
	in.Move.Run = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	in.Move.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Move.CrouchPressed = inpututil.IsKeyJustPressed(ebiten.KeyC)

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Turn -= turnSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Turn += turnSpeed * dt
	}
	cx, _ := ebiten.CursorPosition()
	mouseDX := float64(cx - g.prevCursorX)
	g.prevCursorX = cx
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		in.Turn += mouseDX * 0.01
	}
	in.Move.MouseX = mouseDX

	in.FireHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeyF)
	in.FirePressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || inpututil.IsKeyJustPressed(ebiten.KeyF)
	in.ReloadPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.InteractPressed = inpututil.IsKeyJustPressed(ebiten.KeyE)
	in.OpenPressed = inpututil.IsKeyJustPressed(ebiten.KeyQ)
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(k) {
			in.SwitchTo = i + 1
		}
	}

	// H: toggle HUD key legend.
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 0.4, 3.0
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	g.camZoom = clamp(g.camZoom, zoomMin, zoomMax)

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		for i := len(speeds) - 1; i >= 0; i-- {
			if speeds[i] <= g.simSpeed && i < len(speeds)-1 {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}

	// F9: copy the run summary to the clipboard.
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := clipboard.WriteAll(g.sim.SimLog.Summary(g.sim.Arena)); err != nil {
			g.log.Warn().Err(err).Msg("copy summary")
			g.status = "clipboard unavailable"
		} else {
			g.status = "summary copied"
		}
	}
	return in
}

// toScreen maps a ground position to screen pixels. The camera follows the
// player and world +Z points up the screen.
func (g *Game) toScreen(p Vec3) (float32, float32) {
	cam := g.sim.Arena.Player.Loco.Pos
	s := pixelsPerMetre * g.camZoom
	x := float64(g.offX) + float64(g.gameWidth)/2 + (p.X-cam.X)*s
	y := float64(g.offY) + float64(g.gameHeight)/2 - (p.Z-cam.Z)*s
	return float32(x), float32(y)
}

func (g *Game) metres(m float64) float32 { return float32(m * pixelsPerMetre * g.camZoom) }

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 22, B: 18, A: 255})
	vector.FillRect(screen, float32(g.offX), float32(g.offY), float32(g.gameWidth), float32(g.gameHeight),
		color.RGBA{R: 42, G: 54, B: 40, A: 255}, false)

	g.drawWorld(screen)
	g.sim.Arena.Thoughts.Draw(screen, g.width-logPanelWidth, g.height)
	g.drawHUD(screen)
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	a := g.sim.Arena

	for _, b := range a.Obstacles {
		g.drawBox(screen, b, color.RGBA{R: 92, G: 88, B: 80, A: 255}, true)
	}
	for _, d := range a.Player.Interact.Doors {
		col := color.RGBA{R: 150, G: 100, B: 40, A: 255}
		if d.End {
			col = color.RGBA{R: 200, G: 170, B: 40, A: 255}
		}
		g.drawBox(screen, d.Box, col, !d.Open)
	}
	for _, pk := range a.Player.Interact.Pickups {
		if pk.Consumed {
			continue
		}
		x, y := g.toScreen(pk.Pos)
		vector.StrokeCircle(screen, x, y, g.metres(pk.Radius), 1, color.RGBA{R: 120, G: 200, B: 220, A: 160}, true)
		drawText(screen, pk.Kind.String(), int(x)-12, int(y)-6, color.RGBA{R: 170, G: 230, B: 240, A: 255})
	}

	for _, s := range a.Shots {
		ox, oy := g.toScreen(s.Origin)
		for _, dir := range s.Directions {
			end := s.Origin.Add(dir.Flat().Normalize().Scale(math.Min(s.Range, 40)))
			ex, ey := g.toScreen(end)
			vector.StrokeLine(screen, ox, oy, ex, ey, 1, color.RGBA{R: 255, G: 230, B: 120, A: 140}, true)
		}
	}

	for _, z := range a.Zombies {
		x, y := g.toScreen(z.Pos)
		col := color.RGBA{R: 200, G: 60, B: 60, A: 255}
		if !z.Alive() {
			col = color.RGBA{R: 70, G: 40, B: 40, A: 255}
		}
		vector.FillCircle(screen, x, y, g.metres(z.Radius), col, true)
	}

	if g.showHUD {
		pathCol := color.RGBA{R: 120, G: 150, B: 255, A: 90}
		for _, n := range a.NPCs {
			g.drawPath(screen, n.Pos, n.nav.Path(), pathCol)
		}
		for _, z := range a.Zombies {
			if z.Alive() {
				g.drawPath(screen, z.Pos, z.nav.Path(), color.RGBA{R: 220, G: 90, B: 90, A: 90})
			}
		}
	}

	for _, n := range a.NPCs {
		g.drawAgent(screen, n.Pos, n.Facing, color.RGBA{R: 70, G: 110, B: 210, A: 255})
		g.drawViewCone(screen, n.Pos, n.Facing, a.cfg.Combat.ViewAngleLimit, a.cfg.Combat.ChaseRange)
		x, y := g.toScreen(n.Pos)
		drawText(screen, fmt.Sprintf("%s %s", n.Label, n.Machine.State()), int(x)+8, int(y)-16, color.White)
	}

	p := a.Player
	g.drawAgent(screen, p.Loco.Pos, p.Loco.Facing(), color.RGBA{R: 90, G: 200, B: 90, A: 255})
}

func (g *Game) drawBox(screen *ebiten.Image, b Box, col color.RGBA, filled bool) {
	x0, y0 := g.toScreen(Vec3{b.MinX, 0, b.MaxZ})
	x1, y1 := g.toScreen(Vec3{b.MaxX, 0, b.MinZ})
	if filled {
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, col, false)
		return
	}
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, col, false)
}

// drawPath draws the remaining planned route from pos.
func (g *Game) drawPath(screen *ebiten.Image, pos Vec3, path []Vec3, col color.RGBA) {
	px, py := g.toScreen(pos)
	for _, p := range path {
		x, y := g.toScreen(p)
		vector.StrokeLine(screen, px, py, x, y, 1, col, true)
		px, py = x, y
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, pos Vec3, facing Quat, col color.RGBA) {
	x, y := g.toScreen(pos)
	vector.FillCircle(screen, x, y, g.metres(0.4), col, true)
	tip := pos.Add(facing.Forward().Flat().Normalize().Scale(0.9))
	tx, ty := g.toScreen(tip)
	vector.StrokeLine(screen, x, y, tx, ty, 2, color.White, true)
}

// drawViewCone outlines the field of view out to reach metres.
func (g *Game) drawViewCone(screen *ebiten.Image, pos Vec3, facing Quat, limitDeg, reach float64) {
	yaw := facing.Yaw()
	half := limitDeg * math.Pi / 180
	col := color.RGBA{R: 120, G: 150, B: 255, A: 60}
	x, y := g.toScreen(pos)
	for _, off := range []float64{-half, half} {
		edge := pos.Add(QuatYaw(yaw + off).Forward().Scale(reach))
		ex, ey := g.toScreen(edge)
		vector.StrokeLine(screen, x, y, ex, ey, 1, col, true)
	}
	vector.StrokeCircle(screen, x, y, g.metres(reach), 1, col, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	a := g.sim.Arena
	p := a.Player
	w := p.Loadout.Active()

	speedStr := "1x"
	switch g.simSpeed {
	case 0:
		speedStr = "PAUSED"
	case 1:
	default:
		speedStr = fmt.Sprintf("%gx", g.simSpeed)
	}

	lines := []string{
		fmt.Sprintf("%s  T=%d  SIM: %s", g.name, a.Tick(), speedStr),
		fmt.Sprintf("HP %.0f/%.0f  %s  %s", p.Health, p.MaxHealth, w.Spec().Name, w.AmmoText()),
		fmt.Sprintf("move: %s", p.Loco.Status()),
	}
	if w.State().IsReloading {
		lines = append(lines, "reloading...")
	}
	if prompt := p.Interact.Prompt(); prompt != "" {
		lines = append(lines, prompt)
	}
	if p.Interact.Inv.LevelComplete {
		lines = append(lines, "LEVEL COMPLETE")
	}
	if !p.Alive() {
		lines = append(lines, "YOU DIED")
	}
	if g.showHUD {
		lines = append(lines,
			"WASD move  Shift run  C crouch  Space jump",
			"arrows/RMB turn  LMB/F fire  R reload  1-3 weapon",
			"E pick up  Q open door  P pause  ,/. speed",
			"F9 copy summary  H hide help",
		)
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}

	const lineH = 14
	const padX, padY = 6, 4
	boxW := float32(360)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 4)
	by := float32(g.offY+g.gameHeight) - boxH - 4
	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		drawText(screen, line, int(bx)+padX, int(by)+padY+i*lineH, color.White)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
