package main

import (
	"fmt"
	"math"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/quellen/gridpath/pathfind"
)

// Same dungeon the windowed demo uses, in terminal form. The player
// walks with vi keys or arrows, the goblin flees along the negated
// goal field.
const mapText = `########################################
#                  #####               #
#                  #####               #
#      ####        #####       ###     #
#      ####                    ###     #
#      ####        #####       ###     #
#                  #####               #
#                  #####               #
####  ####################    ##########
#                    ######   ##       #
#                    ######   ##       #
#     ###                              #
#     ###            ######   ##       #
#     ###            ######   ##       #
#                    ######            #
#          ##                          #
#          ##        ######    #########
#          ##        ######            #
#          ##        ######            #
########################################`

type showMode int

const (
	showOff showMode = iota
	showColors
	showColorsAndNumbers
)

type Game struct {
	screen  tcell.Screen
	pathmap *pathfind.PathMap2d
	fear    *pathfind.DijkstraMap

	player pathfind.Point
	goblin pathfind.Point
	show   showMode
}

// moveKeys maps vi-style movement runes to grid steps (grid y-up).
var moveKeys = map[rune]pathfind.Point{
	'h': {X: -1, Y: 0},
	'l': {X: 1, Y: 0},
	'j': {X: 0, Y: -1},
	'k': {X: 0, Y: 1},
	'y': {X: -1, Y: 1},
	'u': {X: 1, Y: 1},
	'b': {X: -1, Y: -1},
	'n': {X: 1, Y: -1},
}

var arrowKeys = map[tcell.Key]pathfind.Point{
	tcell.KeyLeft:  {X: -1, Y: 0},
	tcell.KeyRight: {X: 1, Y: 0},
	tcell.KeyDown:  {X: 0, Y: -1},
	tcell.KeyUp:    {X: 0, Y: 1},
}

func NewGame() (*Game, error) {
	m, err := pathfind.FromString(mapText, '#')
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))

	w, h := m.Size()
	g := &Game{
		screen:  screen,
		pathmap: m,
		fear:    pathfind.NewDijkstraMap(w, h),
		player:  pathfind.Pt(9, 10),
		goblin:  pathfind.Pt(28, 5),
	}
	g.pathmap.AddObstacle(g.player)
	g.pathmap.AddObstacle(g.goblin)
	g.updateFearmap()
	return g, nil
}

func (g *Game) Close() {
	g.screen.Fini()
}

// Run blocks until the player quits.
func (g *Game) Run() {
	for {
		g.draw()
		switch ev := g.screen.PollEvent().(type) {
		case *tcell.EventResize:
			g.screen.Sync()
		case *tcell.EventKey:
			if !g.handleKey(ev) {
				return
			}
		}
	}
}

func (g *Game) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		g.show = (g.show + 1) % 3
		return true
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return false
		}
		if d, ok := moveKeys[ev.Rune()]; ok {
			g.movePlayer(d)
		}
		return true
	default:
		if d, ok := arrowKeys[ev.Key()]; ok {
			g.movePlayer(d)
		}
		return true
	}
}

func (g *Game) movePlayer(d pathfind.Point) {
	next := g.player.Add(d)
	if g.pathmap.IsObstacle(next) {
		return
	}
	g.pathmap.MoveObstacle(g.player, next)
	g.player = next

	g.updateFearmap()
	g.moveGoblin()
}

// updateFearmap rebuilds the flee field: approach field seeded at the
// player, negated, then recalculated to settle.
func (g *Game) updateFearmap() {
	g.fear.ClearAll()
	g.fear.AddGoal(g.player, 0.0)

	g.pathmap.RemoveObstacle(g.player)
	g.pathmap.RemoveObstacle(g.goblin)
	g.fear.Recalculate(g.pathmap)
	g.fear.ApplyOperation(func(v float64) float64 { return v * -1.2 })
	g.fear.Recalculate(g.pathmap)
	g.pathmap.AddObstacle(g.player)
	g.pathmap.AddObstacle(g.goblin)
}

func (g *Game) moveGoblin() {
	g.pathmap.RemoveObstacle(g.goblin)
	if next, ok := g.fear.NextLowest(g.pathmap, g.goblin); ok && !g.pathmap.IsObstacle(next) {
		g.goblin = next
	}
	g.pathmap.AddObstacle(g.goblin)
}

// screenPos converts a grid point (y-up) to terminal cell (y-down),
// below the two help lines.
func (g *Game) screenPos(p pathfind.Point) (int, int) {
	return p.X, g.pathmap.Height() - 1 - p.Y + 2
}

func (g *Game) draw() {
	g.screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	floorStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	w, h := g.pathmap.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := pathfind.Pt(x, y)
			sx, sy := g.screenPos(p)
			if g.pathmap.IsObstacle(p) {
				g.screen.SetContent(sx, sy, '#', nil, wallStyle)
			} else {
				g.screen.SetContent(sx, sy, '.', nil, floorStyle)
			}
		}
	}

	if g.show != showOff {
		g.fear.IterXY(func(p pathfind.Point, v float64) {
			sx, sy := g.screenPos(p)
			g.screen.SetContent(sx, sy, g.fieldRune(v), nil, fieldStyle(v))
		})
	}

	px, py := g.screenPos(g.player)
	g.screen.SetContent(px, py, '@', nil, tcell.StyleDefault.
		Foreground(tcell.ColorWheat).Bold(true))
	gx, gy := g.screenPos(g.goblin)
	g.screen.SetContent(gx, gy, 'g', nil, tcell.StyleDefault.
		Foreground(tcell.ColorGreen).Bold(true))

	g.putString(0, 0, "Move with 'hjkl yubn' or arrows; the goblin flees")
	g.putString(0, 1, fmt.Sprintf("[Tab] field view: %s   [q/Esc] quit", g.showName()))
	g.screen.Show()
}

func (g *Game) showName() string {
	switch g.show {
	case showColors:
		return "colors"
	case showColorsAndNumbers:
		return "numbers"
	default:
		return "off"
	}
}

// fieldRune encodes a value's magnitude as 0-9, a-z, A-Z so nearby
// and faraway cells stay tellable apart on screen.
func (g *Game) fieldRune(v float64) rune {
	if g.show != showColorsAndNumbers {
		return ' '
	}
	d := int(math.Abs(v)) % 62
	switch {
	case d < 10:
		return rune('0' + d)
	case d < 36:
		return rune('a' + d - 10)
	default:
		return rune('A' + d - 36)
	}
}

func fieldStyle(v float64) tcell.Style {
	t := math.Abs(v) / 60.0
	if t > 1 {
		t = 1
	}
	bg := tcell.NewRGBColor(int32(40+180*(1-t)), 30, int32(40+180*t))
	return tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
}

func (g *Game) putString(x, y int, s string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range s {
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}

func main() {
	game, err := NewGame()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer game.Close()

	game.Run()
}
