package world

import (
	"github.com/jakecoffman/cp"
)

// Terrain classifies one point of the level.
type Terrain int

const (
	TerrainOpen Terrain = iota
	TerrainSolid
	TerrainDestructible
	TerrainWater
	TerrainBase
)

func (t Terrain) Solid() bool {
	return t == TerrainSolid || t == TerrainDestructible
}

func (t Terrain) String() string {
	switch t {
	case TerrainOpen:
		return "open"
	case TerrainSolid:
		return "solid"
	case TerrainDestructible:
		return "destructible"
	case TerrainWater:
		return "water"
	case TerrainBase:
		return "base"
	}
	return "unknown"
}

// PatchKind identifies a scripted surface effect attached to the terrain.
type PatchKind int

const (
	PatchFire PatchKind = iota
	PatchFoam
	PatchGoo
	PatchFreeze
)

// PatchKindByName maps a prefab or script name to a PatchKind.
func PatchKindByName(name string) (PatchKind, bool) {
	switch name {
	case "fire":
		return PatchFire, true
	case "foam":
		return PatchFoam, true
	case "goo":
		return PatchGoo, true
	case "freeze":
		return PatchFreeze, true
	}
	return PatchFire, false
}

// Level is the terrain collaborator contract. The engine side owns the
// actual tile data; behaviors talk to it only through these operations.
type Level interface {
	Size() (w, h float64)
	ClassifyAt(pos cp.Vector) Terrain

	// ClassifyLine walks the segment and returns the first solid hit, or
	// the terrain at end with hit=false when the line is clear.
	ClassifyLine(start, end cp.Vector) (pos cp.Vector, ter Terrain, hit bool)

	MakeHole(pos cp.Vector, r float64)
	StartPatch(kind PatchKind, pos cp.Vector, id int64)
	RemovePatch(id int64)

	// Regrow restores up to budget destroyed destructible cells and
	// reports how many it restored.
	Regrow(budget int) int
}

// GridTerrain is the reference Level used by the demo host and tests: a
// coarse cell grid with destructible bookkeeping.
type GridTerrain struct {
	cellSize   float64
	cols, rows int
	cells      []Terrain
	holes      []int // indices of destroyed destructible cells
	patches    map[int64]patch
}

type patch struct {
	kind PatchKind
	pos  cp.Vector
}

// NewGridTerrain creates a grid of cols x rows cells. The outer border is
// solid; everything else starts open.
func NewGridTerrain(cols, rows int, cellSize float64) *GridTerrain {
	g := &GridTerrain{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([]Terrain, cols*rows),
		patches:  make(map[int64]patch),
	}
	for x := 0; x < cols; x++ {
		g.cells[x] = TerrainSolid
		g.cells[(rows-1)*cols+x] = TerrainSolid
	}
	for y := 0; y < rows; y++ {
		g.cells[y*cols] = TerrainSolid
		g.cells[y*cols+cols-1] = TerrainSolid
	}
	return g
}

// SetCell overrides one cell. Used by level setup and tests.
func (g *GridTerrain) SetCell(cx, cy int, t Terrain) {
	if g == nil || cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return
	}
	g.cells[cy*g.cols+cx] = t
}

// CellSize returns the cell edge length in pixels.
func (g *GridTerrain) CellSize() float64 {
	if g == nil {
		return 0
	}
	return g.cellSize
}

func (g *GridTerrain) Size() (float64, float64) {
	if g == nil {
		return 0, 0
	}
	return float64(g.cols) * g.cellSize, float64(g.rows) * g.cellSize
}

func (g *GridTerrain) index(pos cp.Vector) (int, bool) {
	cx := int(pos.X / g.cellSize)
	cy := int(pos.Y / g.cellSize)
	if cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return 0, false
	}
	return cy*g.cols + cx, true
}

func (g *GridTerrain) ClassifyAt(pos cp.Vector) Terrain {
	if g == nil {
		return TerrainOpen
	}
	i, ok := g.index(pos)
	if !ok {
		// Outside the level counts as solid so nothing escapes.
		return TerrainSolid
	}
	return g.cells[i]
}

func (g *GridTerrain) ClassifyLine(start, end cp.Vector) (cp.Vector, Terrain, bool) {
	if g == nil {
		return end, TerrainOpen, false
	}
	d := end.Sub(start)
	length := d.Length()
	if length == 0 {
		t := g.ClassifyAt(start)
		return start, t, t.Solid()
	}
	// Sample at half-cell resolution. Coarse, but the reference grid is
	// coarse to begin with.
	stepLen := g.cellSize / 2
	steps := int(length/stepLen) + 1
	dir := d.Mult(1 / float64(steps))
	pos := start
	for i := 0; i <= steps; i++ {
		t := g.ClassifyAt(pos)
		if t.Solid() {
			return pos, t, true
		}
		pos = pos.Add(dir)
	}
	return end, g.ClassifyAt(end), false
}

func (g *GridTerrain) MakeHole(pos cp.Vector, r float64) {
	if g == nil {
		return
	}
	if r < g.cellSize {
		r = g.cellSize
	}
	minX := int((pos.X - r) / g.cellSize)
	maxX := int((pos.X + r) / g.cellSize)
	minY := int((pos.Y - r) / g.cellSize)
	maxY := int((pos.Y + r) / g.cellSize)
	rr := r * r
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if cx <= 0 || cy <= 0 || cx >= g.cols-1 || cy >= g.rows-1 {
				continue // border stays solid
			}
			center := cp.Vector{
				X: (float64(cx) + 0.5) * g.cellSize,
				Y: (float64(cy) + 0.5) * g.cellSize,
			}
			if center.Sub(pos).LengthSq() > rr {
				continue
			}
			i := cy*g.cols + cx
			if g.cells[i] == TerrainDestructible {
				g.cells[i] = TerrainOpen
				g.holes = append(g.holes, i)
			}
		}
	}
}

func (g *GridTerrain) StartPatch(kind PatchKind, pos cp.Vector, id int64) {
	if g == nil || id == 0 {
		return
	}
	g.patches[id] = patch{kind: kind, pos: pos}
}

func (g *GridTerrain) RemovePatch(id int64) {
	if g == nil {
		return
	}
	delete(g.patches, id)
}

// PatchCount reports the number of active surface patches.
func (g *GridTerrain) PatchCount() int {
	if g == nil {
		return 0
	}
	return len(g.patches)
}

func (g *GridTerrain) Regrow(budget int) int {
	if g == nil || budget <= 0 {
		return 0
	}
	n := 0
	for n < budget && len(g.holes) > 0 {
		i := g.holes[len(g.holes)-1]
		g.holes = g.holes[:len(g.holes)-1]
		if g.cells[i] == TerrainOpen {
			g.cells[i] = TerrainDestructible
			n++
		}
	}
	return n
}

var _ Level = (*GridTerrain)(nil)
