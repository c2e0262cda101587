package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/quellen/gridpath/pathfind"
)

const (
	CellSize = 24
	HudPad   = 56 // pixel band above the grid for the HUD text
)

// Text-art starting map. Paint more walls with the mouse at runtime.
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

type fieldDisplay int

const (
	fieldOff fieldDisplay = iota
	fieldColors
	fieldColorsAndNumbers
)

// Game implements ebiten.Game interface
type Game struct {
	pathmap *pathfind.PathMap2d
	pf      *pathfind.Pathfinder
	fear    *pathfind.DijkstraMap

	player Point2
	goblin Point2

	path  []pathfind.Point
	show  fieldDisplay
	dirty bool
}

// Point2 aliases the library coordinate for brevity in this file.
type Point2 = pathfind.Point

func NewGame() *Game {
	m, err := pathfind.FromString(mapText, '#')
	if err != nil {
		log.Fatal(err)
	}
	w, h := m.Size()

	g := &Game{
		pathmap: m,
		pf:      pathfind.NewPathfinderCapacity(w * h),
		fear:    pathfind.NewDijkstraMap(w, h),
		player:  pathfind.Pt(9, 10),
		goblin:  pathfind.Pt(28, 5),
		dirty:   true,
	}
	// Agents are obstacles themselves so nothing paths through them.
	g.pathmap.AddObstacle(g.player)
	g.pathmap.AddObstacle(g.goblin)
	return g
}

// movementKeys maps keys to grid steps (grid is y-up, so KeyUp is +y).
var movementKeys = map[ebiten.Key]Point2{
	ebiten.KeyArrowUp:    {X: 0, Y: 1},
	ebiten.KeyArrowRight: {X: 1, Y: 0},
	ebiten.KeyArrowDown:  {X: 0, Y: -1},
	ebiten.KeyArrowLeft:  {X: -1, Y: 0},
	ebiten.KeyQ:          {X: -1, Y: 1},
	ebiten.KeyE:          {X: 1, Y: 1},
	ebiten.KeyZ:          {X: -1, Y: -1},
	ebiten.KeyC:          {X: 1, Y: -1},
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		switch g.show {
		case fieldOff:
			g.show = fieldColors
		case fieldColors:
			g.show = fieldColorsAndNumbers
		default:
			g.show = fieldOff
		}
	}

	// Paint walls
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if p, ok := g.cellAtCursor(); ok && p != g.player && p != g.goblin {
			if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || !g.pathmap.IsObstacle(p) {
				g.pathmap.ToggleObstacle(p)
				g.dirty = true
			}
		}
	}

	// Player movement
	for key, d := range movementKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		next := g.player.Add(d)
		if g.pathmap.IsObstacle(next) {
			continue
		}
		g.pathmap.MoveObstacle(g.player, next)
		g.player = next
		g.dirty = true
		break
	}

	if g.dirty {
		g.recompute()
		g.moveGoblin()
		g.dirty = false
	}
	return nil
}

// recompute rebuilds the fear field around the player and the chase
// path from the goblin. The field workflow is the classic flee map:
// approach field, negate, recalculate to settle.
func (g *Game) recompute() {
	g.fear.ClearAll()
	g.fear.AddGoal(g.player, 0.0)

	// The agents' own obstacle bits would wall off propagation, so
	// lift them for the field computation.
	g.pathmap.RemoveObstacle(g.player)
	g.pathmap.RemoveObstacle(g.goblin)

	g.fear.Recalculate(g.pathmap)
	g.fear.ApplyOperation(func(v float64) float64 { return v * -1.2 })
	g.fear.Recalculate(g.pathmap)

	g.path = g.pf.AStar(g.pathmap, g.goblin, g.player)

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

func (g *Game) cellAtCursor() (Point2, bool) {
	mx, my := ebiten.CursorPosition()
	x := mx / CellSize
	y := g.pathmap.Height() - 1 - (my-HudPad)/CellSize
	p := pathfind.Pt(x, y)
	if my < HudPad || !g.pathmap.InBounds(p) {
		return Point2{}, false
	}
	return p, true
}

// cellRect returns the screen rectangle of grid cell p (grid y-up,
// screen y-down).
func (g *Game) cellRect(p Point2) (float32, float32) {
	sx := float32(p.X * CellSize)
	sy := float32((g.pathmap.Height()-1-p.Y)*CellSize + HudPad)
	return sx, sy
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	w, h := g.pathmap.Size()

	// Floor and walls
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := pathfind.Pt(x, y)
			sx, sy := g.cellRect(p)
			c := color.RGBA{44, 44, 56, 255}
			if g.pathmap.IsObstacle(p) {
				c = color.RGBA{96, 96, 110, 255}
			}
			vector.DrawFilledRect(screen, sx+1, sy+1, CellSize-2, CellSize-2, c, false)
		}
	}

	// Fear field heat overlay
	if g.show != fieldOff {
		g.fear.IterXY(func(p Point2, v float64) {
			sx, sy := g.cellRect(p)
			vector.DrawFilledRect(screen, sx+1, sy+1, CellSize-2, CellSize-2, heatColor(v), false)
		})
	}

	// Chase path
	for _, p := range g.path {
		sx, sy := g.cellRect(p)
		vector.DrawFilledCircle(screen, sx+CellSize/2, sy+CellSize/2, 4, color.RGBA{250, 220, 80, 220}, false)
	}

	// Agents
	px, py := g.cellRect(g.player)
	vector.DrawFilledCircle(screen, px+CellSize/2, py+CellSize/2, CellSize/2-3, color.RGBA{90, 160, 255, 255}, false)
	gx, gy := g.cellRect(g.goblin)
	vector.DrawFilledCircle(screen, gx+CellSize/2, gy+CellSize/2, CellSize/2-3, color.RGBA{70, 200, 90, 255}, false)

	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	mode := "off"
	switch g.show {
	case fieldColors:
		mode = "colors"
	case fieldColorsAndNumbers:
		mode = "numbers"
	}
	pathLen := len(g.path)
	info := fmt.Sprintf(
		"gridpath demo | FPS: %.0f\n"+
			"[Arrows/QEZC] move player  [LClick] paint walls  [Tab] field: %s\n"+
			"chase path: %d cells | goblin flees the player's fear field",
		ebiten.ActualFPS(), mode, pathLen,
	)
	ebitenutil.DebugPrint(screen, info)

	if g.show == fieldColorsAndNumbers {
		g.fear.IterXY(func(p Point2, v float64) {
			sx, sy := g.cellRect(p)
			label := fmt.Sprintf("%d", int(math.Abs(v))%100)
			ebitenutil.DebugPrintAt(screen, label, int(sx)+3, int(sy)+3)
		})
	}
}

// heatColor maps a field value to a translucent blue-to-red ramp;
// more negative (deeper into the flee gradient) is bluer.
func heatColor(v float64) color.RGBA {
	t := math.Abs(v) / 60.0
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(40 + 180*(1-t)),
		G: 30,
		B: uint8(40 + 180*t),
		A: 150,
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.pathmap.Width() * CellSize, g.pathmap.Height()*CellSize + HudPad
}

func main() {
	game := NewGame()
	ebiten.SetWindowSize(game.pathmap.Width()*CellSize, game.pathmap.Height()*CellSize+HudPad)
	ebiten.SetWindowTitle("gridpath — A* and fear field demo")
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
