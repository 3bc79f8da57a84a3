package critter

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/weapon"
	"github.com/milk9111/caveflyer/world"
)

func testSpecs() map[string]prefabs.CritterSpec {
	return map[string]prefabs.CritterSpec{
		"bird": {
			Name: "bird", Kind: "bird",
			Radius: 3, Mass: 2, Health: 10,
			FlySpeed: 60, FleeSpeed: 120,
			DecideMin: 1, DecideMax: 1,
		},
		"fish": {
			Name: "fish", Kind: "fish",
			Radius: 3, Mass: 2, Health: 5,
			FlySpeed: 40,
			DecideMin: 0.5, DecideMax: 2,
		},
		"turret": {
			Name: "turret", Kind: "turret",
			Radius: 6, Mass: 50, Health: 60,
			Range: 260, FireInterval: 0.5, Weapon: "cannon",
		},
	}
}

func testArsenal() *weapon.Arsenal {
	return weapon.NewArsenalFrom(map[string]prefabs.WeaponSpec{
		"cannon": {
			Name: "cannon", Kind: "bullet",
			Speed: 220, Mass: 2, Radius: 1.5, Damage: 10, Cooldown: 0.2,
		},
	})
}

func testWorld() *world.World {
	return world.NewWorld(world.NewGridTerrain(40, 30, 16))
}

func TestBestiarySpawnKinds(t *testing.T) {
	b := NewBestiaryFrom(testSpecs(), testArsenal())

	tests := []struct {
		name  string
		class world.Class
	}{
		{"bird", world.ClassCritter},
		{"fish", world.ClassCritter},
		{"turret", world.ClassFixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, ok := b.Spawn(tt.name, cp.Vector{X: 100, Y: 100})
			if !ok {
				t.Fatalf("Spawn(%q) not found", tt.name)
			}
			if sp.Class != tt.class {
				t.Errorf("class = %v, want %v", sp.Class, tt.class)
			}
			if sp.Timers == nil {
				t.Error("critter spawned without a decision loop")
			}
			if sp.Health == 0 {
				t.Error("critter spawned without health")
			}
		})
	}

	if _, ok := b.Spawn("nosuch", cp.Vector{}); ok {
		t.Error("unknown critter name should not spawn")
	}
}

func TestDecideDelayBounds(t *testing.T) {
	fixed := prefabs.CritterSpec{DecideMin: 2, DecideMax: 2}
	if got := decideDelay(fixed); got != 2 {
		t.Errorf("decideDelay with equal bounds = %v, want 2", got)
	}

	ranged := prefabs.CritterSpec{DecideMin: 0.5, DecideMax: 2.5}
	for i := 0; i < 100; i++ {
		d := decideDelay(ranged)
		if d < 0.5 || d >= 2.5 {
			t.Fatalf("decideDelay = %v, want in [0.5, 2.5)", d)
		}
	}
}

func TestBirdDecisionLoopSetsVelocity(t *testing.T) {
	w := testWorld()
	b := NewBestiaryFrom(testSpecs(), nil)
	sp, _ := b.Spawn("bird", cp.Vector{X: 320, Y: 240})
	bird := w.SpawnNow(sp)

	if _, ok := bird.NextWake(); !ok {
		t.Fatal("bird spawned dormant")
	}

	// The decision bounds are pinned to 1s, so the first decision lands
	// on the third step.
	w.Step(0.4)
	w.Step(0.4)
	w.Step(0.4)

	speed := bird.Vel().Length()
	if diff := speed - 60; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("bird speed after decision = %v, want 60", speed)
	}
}

func TestBirdBulletHitSuppressesAndFlees(t *testing.T) {
	w := testWorld()
	b := NewBestiaryFrom(testSpecs(), nil)
	sp, _ := b.Spawn("bird", cp.Vector{X: 320, Y: 240})
	bird := w.SpawnNow(sp)

	bullet := w.SpawnNow(world.Spawn{
		Class:  world.ClassBullet,
		Pos:    cp.Vector{X: 310, Y: 240},
		Vel:    cp.Vector{X: 200},
		Damage: 4,
	})

	out := bird.Behaviors().OnBulletHit(bird, bullet)
	if out != world.Handled {
		t.Fatalf("outcome = %v, want Handled", out)
	}
	if !bullet.Destroyed() {
		t.Error("bird did not absorb the bullet")
	}
	if bird.Destroyed() {
		t.Error("bird died to a non-lethal hit")
	}
	if got := bird.Health; got != 6 {
		t.Errorf("bird health = %v, want 6", got)
	}
	if vel := bird.Vel(); vel.X <= 0 {
		t.Errorf("bird did not flee away from the bullet: vel = %+v", vel)
	}

	// A lethal hit still kills.
	bullet2 := w.SpawnNow(world.Spawn{
		Class:  world.ClassBullet,
		Pos:    cp.Vector{X: 330, Y: 240},
		Damage: 10,
	})
	bird.Behaviors().OnBulletHit(bird, bullet2)
	if !bird.Destroyed() {
		t.Error("bird survived a lethal hit")
	}
}

func TestBirdPerchWalksAndTurnsAtLedge(t *testing.T) {
	w := testWorld()
	level := w.Level().(*world.GridTerrain)

	// A free-standing platform: cells (10..14, 16), top edge at y=256.
	for cx := 10; cx < 15; cx++ {
		level.SetCell(cx, 16, world.TerrainSolid)
	}

	spec := prefabs.CritterSpec{
		Name: "bird", Kind: "bird",
		Radius: 3, Mass: 2, Health: 10,
		FlySpeed: 60, WalkSpeed: 20,
		DecideMin: 1, DecideMax: 1,
	}
	bird := w.SpawnNow(birdSpawn(spec, cp.Vector{X: 200, Y: 252.5}))
	cs := bird.Critter()

	// The landing itself rolls a coin between strut and bounce; pin the
	// perch state afterward so the walk is deterministic.
	w.Step(0.1)
	cs.Walking = 1
	cs.Facing = 1
	bird.SetVel(cp.Vector{})
	bird.StartAction(10)

	w.Step(0.1)
	if vel := bird.Vel(); vel.X != spec.WalkSpeed {
		t.Fatalf("strutting bird vel.X = %v, want %v", vel.X, spec.WalkSpeed)
	}

	flipped := false
	for i := 0; i < 30 && !flipped; i++ {
		w.Step(0.1)
		flipped = cs.Walking == -1
	}
	if !flipped {
		t.Fatal("bird never turned around at the platform edge")
	}

	bird.Behaviors().OnActionComplete(bird)
	if cs.Walking != 0 {
		t.Errorf("perch end left Walking = %d", cs.Walking)
	}
	if vel := bird.Vel(); vel.Y >= 0 {
		t.Errorf("perch end did not take off: vel = %+v", vel)
	}
}

func TestFishStaysInWater(t *testing.T) {
	w := testWorld()
	level := w.Level().(*world.GridTerrain)

	// A 10x10 pond in the middle of the arena.
	for cy := 10; cy < 20; cy++ {
		for cx := 10; cx < 20; cx++ {
			level.SetCell(cx, cy, world.TerrainWater)
		}
	}

	b := NewBestiaryFrom(testSpecs(), nil)
	center := cp.Vector{X: 15 * 16, Y: 15 * 16}
	sp, _ := b.Spawn("fish", center)
	fish := w.SpawnNow(sp)

	spec, _ := b.Spec("fish")
	for i := 0; i < 50; i++ {
		fishDecide(fish, spec)
		vel := fish.Vel()
		if vel.LengthSq() == 0 {
			continue
		}
		probe := fish.Pos().Add(vel.Mult(0.5))
		if level.ClassifyAt(probe) != world.TerrainWater {
			t.Fatalf("fish heading leaves the water: vel = %+v", vel)
		}
	}
}

func TestFishBeachedStaysPut(t *testing.T) {
	w := testWorld()
	b := NewBestiaryFrom(testSpecs(), nil)

	// No water anywhere: every heading fails the probe.
	sp, _ := b.Spawn("fish", cp.Vector{X: 320, Y: 240})
	fish := w.SpawnNow(sp)

	spec, _ := b.Spec("fish")
	fishDecide(fish, spec)
	if vel := fish.Vel(); vel.LengthSq() != 0 {
		t.Errorf("beached fish kept swimming: vel = %+v", vel)
	}
}

func TestTurretFiresAtVisibleShip(t *testing.T) {
	w := testWorld()
	b := NewBestiaryFrom(testSpecs(), testArsenal())

	sp, _ := b.Spawn("turret", cp.Vector{X: 160, Y: 240})
	w.SpawnNow(sp)
	w.SpawnNow(world.Spawn{
		Class:  world.ClassShip,
		Pos:    cp.Vector{X: 260, Y: 240},
		Radius: 8,
		Owner:  1,
		Ship:   &world.ShipState{Health: 100},
	})

	w.Step(0.6)
	if got := w.Count(world.ClassBullet); got != 1 {
		t.Errorf("bullets after fire interval = %d, want 1", got)
	}
}

func TestTurretHoldsFire(t *testing.T) {
	tests := []struct {
		name    string
		shipPos cp.Vector
		wall    bool
	}{
		{"out_of_range", cp.Vector{X: 160 + 400, Y: 240}, false},
		{"terrain_blocks_sight", cp.Vector{X: 260, Y: 240}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testWorld()
			level := w.Level().(*world.GridTerrain)
			if tt.wall {
				// A solid column between turret and ship.
				for cy := 5; cy < 25; cy++ {
					level.SetCell(13, cy, world.TerrainSolid)
				}
			}

			b := NewBestiaryFrom(testSpecs(), testArsenal())
			sp, _ := b.Spawn("turret", cp.Vector{X: 160, Y: 240})
			w.SpawnNow(sp)
			w.SpawnNow(world.Spawn{
				Class:  world.ClassShip,
				Pos:    tt.shipPos,
				Radius: 8,
				Owner:  1,
				Ship:   &world.ShipState{Health: 100},
			})

			w.Step(0.6)
			if got := w.Count(world.ClassBullet); got != 0 {
				t.Errorf("bullets = %d, want 0", got)
			}
		})
	}
}
