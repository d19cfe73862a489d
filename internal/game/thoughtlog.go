package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 14
)

// hudFace is the monospace face used for every on-screen label.
var hudFace = text.NewGoXFace(basicfont.Face7x13)

// ThoughtEntry is a single line in the thought log.
type ThoughtEntry struct {
	Tick    int
	Label   string // e.g. "P", "N0", "Z3"
	Faction Faction
	Message string
}

// ThoughtLog keeps the last few agent thoughts for the viewer's side
// panel. Older entries are overwritten.
type ThoughtLog struct {
	ring  []ThoughtEntry
	next  int
	count int
}

func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{ring: make([]ThoughtEntry, logMaxEntries)}
}

func (tl *ThoughtLog) Add(tick int, label string, f Faction, msg string) {
	tl.ring[tl.next] = ThoughtEntry{Tick: tick, Label: label, Faction: f, Message: msg}
	tl.next = (tl.next + 1) % len(tl.ring)
	tl.count = min(tl.count+1, len(tl.ring))
}

func (tl *ThoughtLog) Len() int { return tl.count }

// Recent returns the held entries oldest first.
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	out := make([]ThoughtEntry, 0, tl.count)
	first := tl.next - tl.count
	if first < 0 {
		first += len(tl.ring)
	}
	for i := 0; i < tl.count; i++ {
		out = append(out, tl.ring[(first+i)%len(tl.ring)])
	}
	return out
}

var (
	panelBG     = color.RGBA{R: 10, G: 12, B: 10, A: 248}
	panelHeader = color.RGBA{R: 20, G: 30, B: 20, A: 255}
	panelRule   = color.RGBA{R: 50, G: 70, B: 50, A: 255}
	textOld     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

func factionColor(f Faction) color.RGBA {
	switch f {
	case FactionPlayer:
		return color.RGBA{R: 90, G: 200, B: 90, A: 255}
	case FactionNPC:
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	default:
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	}
}

// Draw fills a logPanelWidth column at panelX with the newest thoughts
// that fit, newest at the bottom. The latest tick's entries are bright.
func (tl *ThoughtLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), panelBG, false)
	vector.FillRect(screen, px, 0, logPanelWidth, 18, panelHeader, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1, panelRule, false)
	vector.StrokeLine(screen, px, 18, px+logPanelWidth, 18, 1, panelRule, false)
	drawText(screen, fmt.Sprintf("THOUGHTS (%d)", tl.count), panelX+8, 2, color.White)

	entries := tl.Recent()
	if fit := (panelH - 24) / logLineHeight; len(entries) > fit {
		entries = entries[len(entries)-fit:]
	}
	if len(entries) == 0 {
		return
	}
	latest := entries[len(entries)-1].Tick

	y := 22
	for _, e := range entries {
		col := textOld
		if e.Tick == latest {
			col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, factionColor(e.Faction), false)
		drawText(screen, fmt.Sprintf("%4d %-3s %s", e.Tick, e.Label, e.Message), panelX+12, y, col)
		y += logLineHeight
	}
}

// drawText draws s with its top-left corner at (x,y).
func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, hudFace, op)
}
