// Renders a goal field over a text-art map as a PNG heat map.
//
// Usage:
//
//	go run ./tools/fieldpng -map dungeon.txt -goal 5,5 -out field.png -scale 16
//
// The map file uses '#' for walls; the goal is given in grid
// coordinates (y-up, matching the library). Obstacles render gray,
// unreached cells black, reached cells on a blue-to-red ramp by value.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/quellen/gridpath/pathfind"
)

func main() {
	mapPath := flag.String("map", "", "path to text-art map ('#' = wall)")
	outPath := flag.String("out", "field.png", "output PNG path")
	goalSpec := flag.String("goal", "0,0", "goal cell as x,y (grid y-up)")
	weight := flag.Float64("weight", 0.0, "goal seed value")
	scale := flag.Int("scale", 16, "output pixels per cell")
	flee := flag.Bool("flee", false, "negate and resettle into a flee field")
	flag.Parse()

	if *mapPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	text, err := os.ReadFile(*mapPath)
	if err != nil {
		log.Fatal(err)
	}
	m, err := pathfind.FromString(string(text), '#')
	if err != nil {
		log.Fatalf("parse %s: %v", *mapPath, err)
	}

	var gx, gy int
	if _, err := fmt.Sscanf(*goalSpec, "%d,%d", &gx, &gy); err != nil {
		log.Fatalf("bad -goal %q: %v", *goalSpec, err)
	}
	goal := pathfind.Pt(gx, gy)
	if !m.InBounds(goal) || m.IsObstacle(goal) {
		log.Fatalf("goal %v is a wall or out of bounds", goal)
	}

	w, h := m.Size()
	d := pathfind.NewDijkstraMap(w, h)
	d.AddGoal(goal, *weight)
	d.Recalculate(m)
	if *flee {
		d.ApplyOperation(func(v float64) float64 { return v * -1.2 })
		d.Recalculate(m)
	}

	// Find the value range over reached cells for the color ramp.
	lo, hi := pathfind.Unreached, -pathfind.Unreached
	d.IterXY(func(p pathfind.Point, v float64) {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	})
	if lo > hi {
		log.Fatal("no cell reachable from the goal")
	}

	img := renderField(m, d, lo, hi)

	out := image.NewRGBA(image.Rect(0, 0, w**scale, h**scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%dx%d cells, values %.1f..%.1f)", *outPath, w, h, lo, hi)
}

// renderField paints one pixel per cell, grid y-up to image y-down.
func renderField(m *pathfind.PathMap2d, d *pathfind.DijkstraMap, lo, hi float64) *image.RGBA {
	w, h := m.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := pathfind.Pt(x, y)
			c := color.RGBA{0, 0, 0, 255}
			switch {
			case m.IsObstacle(p):
				c = color.RGBA{110, 110, 120, 255}
			case d.Reached(p):
				t := 0.0
				if hi > lo {
					t = (d.Value(p) - lo) / (hi - lo)
				}
				c = color.RGBA{
					R: uint8(40 + 200*t),
					G: 30,
					B: uint8(40 + 200*(1-t)),
					A: 255,
				}
			}
			img.SetRGBA(x, h-1-y, c)
		}
	}
	return img
}
