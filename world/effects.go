package world

import (
	"log"

	"github.com/jakecoffman/cp"
)

// Effect is a fire-and-forget command issued by behaviors toward the host.
// Effects accumulate during a step and are applied at the very end of it,
// so callbacks never mutate collections the step is still iterating.
type Effect interface {
	apply(w *World)
}

// SpawnObject adds a new object to the world.
type SpawnObject struct {
	Spec Spawn
}

func (e SpawnObject) apply(w *World) {
	w.insert(e.Spec)
}

// MakeBulletHole chips a small crater out of destructible terrain.
type MakeBulletHole struct {
	Pos cp.Vector
}

func (e MakeBulletHole) apply(w *World) {
	w.level.MakeHole(e.Pos, 0)
}

// MakeBigHole blows a crater of radius R.
type MakeBigHole struct {
	Pos cp.Vector
	R   float64
}

func (e MakeBigHole) apply(w *World) {
	r := e.R
	if r > 999 {
		r = 999
	}
	w.level.MakeHole(e.Pos, r)
}

// StartTerrainPatch starts a surface effect (fire, foam, goo, freeze) at a
// point. ID comes from the world's id generator and is the handle for
// later removal.
type StartTerrainPatch struct {
	Kind PatchKind
	Pos  cp.Vector
	ID   int64
}

func (e StartTerrainPatch) apply(w *World) {
	w.level.StartPatch(e.Kind, e.Pos, e.ID)
}

// RemoveTerrainPatch removes a previously started surface effect.
type RemoveTerrainPatch struct {
	ID int64
}

func (e RemoveTerrainPatch) apply(w *World) {
	w.level.RemovePatch(e.ID)
}

// Forcefield is an area force applied to bodies inside its bounds.
type Forcefield struct {
	ID           int64
	Bounds       cp.BB
	UniformForce cp.Vector

	// PointForce attracts (negative) or repels (positive) from the center
	// of the bounds, falling off with distance.
	PointForce float64
}

// UpdateForcefield creates or replaces a forcefield by id.
type UpdateForcefield struct {
	Field Forcefield
}

func (e UpdateForcefield) apply(w *World) {
	if e.Field.ID == 0 {
		log.Printf("world: forcefield update without an id, dropped")
		return
	}
	w.fields[e.Field.ID] = e.Field
}

// RemoveForcefield removes a forcefield by id. Removing an unknown id is a
// no-op; consumers track their own still-valid state.
type RemoveForcefield struct {
	ID int64
}

func (e RemoveForcefield) apply(w *World) {
	delete(w.fields, e.ID)
}

// SetWindSpeed replaces the horizontal wind speed.
type SetWindSpeed struct {
	Speed float64
}

func (e SetWindSpeed) apply(w *World) {
	w.wind = e.Speed
}

// HUDMessage shows overlay text for one player (0 = all players).
type HUDMessage struct {
	Player   int
	Text     string
	Lifetime float64
	Fade     float64
}

func (e HUDMessage) apply(w *World) {
	life := e.Lifetime
	if life <= 0 {
		life = 2
	}
	w.hud = append(w.hud, HUDNote{
		Player: e.Player,
		Text:   e.Text,
		Life:   life,
		Fade:   e.Fade,
	})
}

// EndRound declares a winner and stops the round.
type EndRound struct {
	Winner int
}

func (e EndRound) apply(w *World) {
	if w.winner == 0 {
		w.winner = e.Winner
	}
}

// HUDNote is a live overlay message owned by the world.
type HUDNote struct {
	Player int
	Text   string
	Life   float64
	Fade   float64
}

// Alpha reports the current fade alpha in [0,1].
func (n HUDNote) Alpha() float64 {
	if n.Fade <= 0 || n.Life >= n.Fade {
		return 1
	}
	if n.Life <= 0 {
		return 0
	}
	return n.Life / n.Fade
}
