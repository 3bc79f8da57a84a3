package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/caveflyer/world"
)

// Bindings maps one player's keys to ship controls.
type Bindings struct {
	Thrust    ebiten.Key
	Left      ebiten.Key
	Right     ebiten.Key
	Primary   ebiten.Key
	Secondary ebiten.Key
	Recall    ebiten.Key
}

// DefaultBindings returns the stock two-player keyboard layout.
func DefaultBindings(player int) Bindings {
	if player == 2 {
		return Bindings{
			Thrust:    ebiten.KeyArrowUp,
			Left:      ebiten.KeyArrowLeft,
			Right:     ebiten.KeyArrowRight,
			Primary:   ebiten.KeyEnter,
			Secondary: ebiten.KeyShiftRight,
			Recall:    ebiten.KeyArrowDown,
		}
	}
	return Bindings{
		Thrust:    ebiten.KeyW,
		Left:      ebiten.KeyA,
		Right:     ebiten.KeyD,
		Primary:   ebiten.KeySpace,
		Secondary: ebiten.KeyE,
		Recall:    ebiten.KeyS,
	}
}

// Player ties a player id and key bindings to a ship in the world.
type Player struct {
	ID   int
	Keys Bindings
	Ship *world.Object
}

func NewPlayer(id int, ship *world.Object) *Player {
	return &Player{ID: id, Keys: DefaultBindings(id), Ship: ship}
}

// Update polls the keyboard into the ship's control state. A destroyed
// ship ignores input.
func (p *Player) Update() {
	if p == nil || p.Ship.Destroyed() {
		return
	}
	sh := p.Ship.Ship()
	if sh == nil {
		return
	}

	sh.Control.Thrust = ebiten.IsKeyPressed(p.Keys.Thrust)

	turn := 0.0
	if ebiten.IsKeyPressed(p.Keys.Left) {
		turn -= 1
	}
	if ebiten.IsKeyPressed(p.Keys.Right) {
		turn += 1
	}
	sh.Control.Turn = turn

	sh.Control.FirePrimary = ebiten.IsKeyPressed(p.Keys.Primary)
	sh.Control.FireSecondary = ebiten.IsKeyPressed(p.Keys.Secondary)
	if inpututil.IsKeyJustPressed(p.Keys.Recall) {
		sh.Control.Recall = true
	}
}

// Alive reports whether the player's ship is still flying.
func (p *Player) Alive() bool {
	return p != nil && !p.Ship.Destroyed()
}
