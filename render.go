package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/world"
)

var terrainColors = map[world.Terrain]color.Color{
	world.TerrainSolid:        colornames.Dimgray,
	world.TerrainDestructible: colornames.Saddlebrown,
	world.TerrainWater:        colornames.Midnightblue,
	world.TerrainBase:         colornames.Darkolivegreen,
}

var classColors = map[world.Class]color.Color{
	world.ClassShip:     colornames.Whitesmoke,
	world.ClassBullet:   colornames.Gold,
	world.ClassMine:     colornames.Orangered,
	world.ClassCritter:  colornames.Mediumaquamarine,
	world.ClassFixed:    colornames.Slategray,
	world.ClassParticle: colornames.White,
}

func drawTerrain(screen *ebiten.Image, w *world.World) {
	screen.Fill(colornames.Black)

	grid, ok := w.Level().(*world.GridTerrain)
	if !ok {
		return
	}
	cell := grid.CellSize()
	width, height := grid.Size()
	for y := 0.0; y < height; y += cell {
		for x := 0.0; x < width; x += cell {
			ter := grid.ClassifyAt(cp.Vector{X: x + cell/2, Y: y + cell/2})
			c, ok := terrainColors[ter]
			if !ok {
				continue
			}
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(cell), float32(cell), c, false)
		}
	}
}

func drawObjects(screen *ebiten.Image, w *world.World) {
	for c := world.ClassShip; c <= world.ClassParticle; c++ {
		col := classColors[c]
		w.EachClass(c, func(o *world.Object) bool {
			pos := o.Pos()
			oc := col
			if rgba := o.Color(); rgba != 0 {
				oc = color.NRGBA{
					R: uint8(rgba >> 24),
					G: uint8(rgba >> 16),
					B: uint8(rgba >> 8),
					A: uint8(rgba),
				}
			}
			vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), float32(o.Radius()), oc, true)

			// Ships get a nose line so the facing reads.
			if o.Class() == world.ClassShip {
				nose := pos.Add(common.ForAngle(o.Angle(), o.Radius()*1.8))
				vector.StrokeLine(screen,
					float32(pos.X), float32(pos.Y),
					float32(nose.X), float32(nose.Y),
					2, oc, true)
			}
			return true
		})
	}
}

func drawHUD(screen *ebiten.Image, w *world.World, players []*Player) {
	y := 16
	for _, p := range players {
		status := "down"
		health := 0.0
		if p.Alive() {
			status = "flying"
			health = p.Ship.Ship().Health
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("P%d %s  hull %.0f", p.ID, status, health), 8, y)
		y += 16

		for _, note := range w.HUD(p.ID) {
			if note.Alpha() <= 0 {
				continue
			}
			ebitenutil.DebugPrintAt(screen, note.Text, 8, y)
			y += 16
		}
	}
}
