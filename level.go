package main

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/critter"
	"github.com/milk9111/caveflyer/levelfx"
	"github.com/milk9111/caveflyer/levels"
	"github.com/milk9111/caveflyer/script"
	"github.com/milk9111/caveflyer/weapon"
	"github.com/milk9111/caveflyer/world"
)

// Round is one built level: the world plus the ship handle per player.
type Round struct {
	World *world.World
	Ships map[int]*world.Object
	Level *levels.Level
}

func terrainKind(name string) (world.Terrain, bool) {
	switch name {
	case "open":
		return world.TerrainOpen, true
	case "solid":
		return world.TerrainSolid, true
	case "destructible":
		return world.TerrainDestructible, true
	case "water":
		return world.TerrainWater, true
	case "base":
		return world.TerrainBase, true
	}
	return world.TerrainOpen, false
}

// BuildRound builds a fresh world for the named level: terrain, bases,
// ships, wildlife, ambient effects, and the level script.
func BuildRound(name string, arsenal *weapon.Arsenal, bestiary *critter.Bestiary) (*Round, error) {
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, err
	}

	grid := world.NewGridTerrain(lvl.Cols, lvl.Rows, lvl.CellSize)
	for _, reg := range lvl.Regions {
		ter, ok := terrainKind(reg.Terrain)
		if !ok {
			log.Printf("level %s: unknown terrain %q, skipped", lvl.Name, reg.Terrain)
			continue
		}
		for cy := reg.Y; cy < reg.Y+reg.H; cy++ {
			for cx := reg.X; cx < reg.X+reg.W; cx++ {
				grid.SetCell(cx, cy, ter)
			}
		}
	}
	for _, base := range lvl.Bases {
		for cx := base.X; cx < base.X+base.W; cx++ {
			grid.SetCell(cx, base.Y, world.TerrainBase)
		}
	}

	w := world.NewWorld(grid)

	round := &Round{World: w, Ships: map[int]*world.Object{}, Level: lvl}
	for _, base := range lvl.Bases {
		pad := cp.Vector{
			X: (float64(base.X) + float64(base.W)/2) * lvl.CellSize,
			Y: float64(base.Y)*lvl.CellSize - 12,
		}
		ship := spawnShip(w, arsenal, pad, base.Player)
		round.Ships[base.Player] = ship
	}

	for _, cs := range lvl.Critters {
		sp, ok := bestiary.Spawn(cs.Name, cp.Vector{X: cs.X, Y: cs.Y})
		if !ok {
			log.Printf("level %s: unknown critter %q, skipped", lvl.Name, cs.Name)
			continue
		}
		w.SpawnNow(sp)
	}

	if err := levelfx.Install(w); err != nil {
		return nil, err
	}

	if lvl.Script != "" {
		rt, err := script.Load(lvl.Script, bestiary)
		if err != nil {
			// A broken script spoils the ambience, not the round.
			log.Printf("level %s: %v", lvl.Name, err)
		} else if err := rt.Attach(w); err != nil {
			log.Printf("level %s: %v", lvl.Name, err)
		}
	}

	return round, nil
}

const shipMaxHealth = 100

// spawnShip creates one player ship hovering over its base pad, with the
// stock weapon loadout bound to the fire slots.
func spawnShip(w *world.World, arsenal *weapon.Arsenal, pos cp.Vector, player int) *world.Object {
	sp := world.Spawn{
		Class:  world.ClassShip,
		Pos:    pos,
		Mass:   40,
		Radius: 8,
		Drag:   0.01,
		Owner:  player,
		Ship:   &world.ShipState{Health: shipMaxHealth},
		Behaviors: world.Behaviors{
			OnFirePrimary: func(ship *world.Object) {
				arsenal.Fire(ship.World(), ship, "cannon", false)
			},
			OnFireSecondary: func(ship *world.Object) {
				arsenal.Fire(ship.World(), ship, "grenade", true)
			},
			OnBase: func(ship *world.Object) {
				if sh := ship.Ship(); sh != nil && sh.Health < shipMaxHealth {
					ship.World().Queue(world.HUDMessage{
						Player:   ship.Owner(),
						Text:     "repairing",
						Lifetime: 1,
					})
					sh.Health = shipMaxHealth
				}
			},
			OnShipRecall: func(ship *world.Object, ter world.Terrain) {
				recallShip(ship, pos)
			},
			OnDestroy: func(ship *world.Object) {
				shipDestroyed(ship)
			},
		},
	}
	return w.SpawnNow(sp)
}

// recallShip teleports a stranded ship back over its pad at the cost of
// its remaining momentum.
func recallShip(ship *world.Object, pad cp.Vector) {
	w := ship.World()
	w.Queue(world.HUDMessage{Player: ship.Owner(), Text: "recalled to base", Lifetime: 2})
	ship.SetVel(cp.Vector{})
	ship.SetPos(pad)
}

func shipDestroyed(ship *world.Object) {
	w := ship.World()
	w.Queue(world.HUDMessage{
		Text:     fmt.Sprintf("player %d is down", ship.Owner()),
		Lifetime: 3,
	})

	// Last ship flying wins the round.
	survivor := 0
	w.EachShip(func(o *world.Object) bool {
		if o != ship {
			survivor = o.Owner()
			return false
		}
		return true
	})
	if survivor != 0 {
		w.Queue(world.EndRound{Winner: survivor})
	}
}
