package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/critter"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/weapon"
)

const stepDT = 1.0 / 60.0

type Game struct {
	frames int
	debug  bool

	levelName string
	round     *Round
	players   []*Player

	arsenal  *weapon.Arsenal
	bestiary *critter.Bestiary

	watcher *prefabs.Watcher

	paused  bool
	pauseUI *pauseUI
}

func NewGame(levelName string, debug bool) (*Game, error) {
	arsenal, err := weapon.NewArsenal()
	if err != nil {
		return nil, err
	}
	bestiary, err := critter.NewBestiary(arsenal)
	if err != nil {
		return nil, err
	}

	g := &Game{
		levelName: levelName,
		debug:     debug,
		arsenal:   arsenal,
		bestiary:  bestiary,
	}
	g.pauseUI = newPauseUI(g)

	if err := g.startRound(); err != nil {
		return nil, err
	}

	// Watch the on-disk prefab copies for tuning edits; missing dirs just
	// disable hot reload.
	if watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts"); err == nil {
		g.watcher = watcher
	} else {
		log.Printf("prefab watch disabled: %v", err)
	}

	return g, nil
}

func (g *Game) startRound() error {
	round, err := BuildRound(g.levelName, g.arsenal, g.bestiary)
	if err != nil {
		return err
	}
	g.round = round
	g.players = g.players[:0]
	for id := 1; ; id++ {
		ship, ok := round.Ships[id]
		if !ok {
			break
		}
		g.players = append(g.players, NewPlayer(id, ship))
	}
	return nil
}

// reloadPrefabs re-reads the weapon and critter tables after an on-disk
// edit. Live objects keep their old tuning; new spawns pick up the new.
func (g *Game) reloadPrefabs(path string) {
	log.Printf("prefabs: %s changed, reloading", path)
	if specs, err := prefabs.LoadWeaponSpecs(); err == nil {
		*g.arsenal = *weapon.NewArsenalFrom(specs)
	} else {
		log.Printf("prefabs: weapon reload: %v", err)
	}
	if specs, err := prefabs.LoadCritterSpecs(); err == nil {
		*g.bestiary = *critter.NewBestiaryFrom(specs, g.arsenal)
	} else {
		log.Printf("prefabs: critter reload: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		select {
		case path := <-g.watcher.Events:
			g.reloadPrefabs(path)
		case err := <-g.watcher.Errors:
			log.Printf("prefab watch: %v", err)
		default:
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.round.World.Winner() != 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			if err := g.startRound(); err != nil {
				return err
			}
		}
		return nil
	}

	for _, p := range g.players {
		p.Update()
	}
	g.round.World.Step(stepDT)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawTerrain(screen, g.round.World)
	drawObjects(screen, g.round.World)
	drawHUD(screen, g.round.World, g.players)

	if winner := g.round.World.Winner(); winner != 0 {
		msg := fmt.Sprintf("player %d wins the round. press R for a rematch", winner)
		ebitenutil.DebugPrintAt(screen, msg, common.BaseWidth/2-140, common.BaseHeight/2)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"Frames: %d    FPS: %.2f    wind: %.1f",
			g.frames, ebiten.ActualFPS(), g.round.World.Wind()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
