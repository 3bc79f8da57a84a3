package weapon

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

func testWorld() *world.World {
	return world.NewWorld(world.NewGridTerrain(40, 30, 16))
}

func testArsenal() *Arsenal {
	return NewArsenalFrom(map[string]prefabs.WeaponSpec{
		"cannon": {
			Name: "cannon", Kind: "bullet",
			Speed: 220, Mass: 2, Radius: 1.5, Damage: 10, Cooldown: 0.2,
		},
		"grenade": {
			Name: "grenade", Kind: "grenade",
			Speed: 140, Mass: 8, Radius: 3, Damage: 20, Cooldown: 0.8,
			Fuse: 0.5, Shrapnel: 6, ShrapnelSpeed: 140, HoleRadius: 24,
		},
		"mine": {
			Name: "mine", Kind: "mine",
			Mass: 15, Radius: 4, Damage: 40, Cooldown: 1.5,
			ArmDelay: 0.5, Lifetime: 5, ProximityRadius: 48, ProximityCheck: 0.25,
		},
		"missile": {
			Name: "missile", Kind: "missile",
			Speed: 160, Mass: 6, Radius: 2.5, Damage: 25, Cooldown: 1,
			Retarget: 0.5, TurnRate: 2.5,
		},
	})
}

func spawnShip(w *world.World, pos cp.Vector, owner int) *world.Object {
	return w.SpawnNow(world.Spawn{
		Class:  world.ClassShip,
		Pos:    pos,
		Radius: 8,
		Owner:  owner,
		Ship:   &world.ShipState{Health: 100},
	})
}

func TestArsenalSpawnKinds(t *testing.T) {
	a := testArsenal()

	tests := []struct {
		name       string
		class      world.Class
		wantTimers bool
		wantImpact bool
	}{
		{"cannon", world.ClassBullet, false, true},
		{"grenade", world.ClassBullet, true, true},
		{"mine", world.ClassMine, true, true},
		{"missile", world.ClassBullet, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, ok := a.Spawn(tt.name, cp.Vector{X: 100, Y: 100}, cp.Vector{X: 50}, 1)
			if !ok {
				t.Fatalf("Spawn(%q) not found", tt.name)
			}
			if sp.Class != tt.class {
				t.Errorf("class = %v, want %v", sp.Class, tt.class)
			}
			if got := sp.Timers != nil; got != tt.wantTimers {
				t.Errorf("timers present = %v, want %v", got, tt.wantTimers)
			}
			if got := sp.Behaviors.OnImpact != nil; got != tt.wantImpact {
				t.Errorf("impact slot present = %v, want %v", got, tt.wantImpact)
			}
			if sp.Owner != 1 {
				t.Errorf("owner = %d, want 1", sp.Owner)
			}
		})
	}

	if _, ok := a.Spawn("nosuch", cp.Vector{}, cp.Vector{}, 1); ok {
		t.Error("unknown weapon name should not spawn")
	}
}

func TestFireQueuesProjectileAndSetsCooldown(t *testing.T) {
	w := testWorld()
	a := testArsenal()
	ship := spawnShip(w, cp.Vector{X: 320, Y: 240}, 1)

	if !a.Fire(w, ship, "cannon", false) {
		t.Fatal("Fire returned false")
	}
	if got := ship.Ship().PrimaryCooldown; got != 0.2 {
		t.Errorf("primary cooldown = %v, want 0.2", got)
	}
	if w.Count(world.ClassBullet) != 0 {
		t.Error("projectile spawned before Flush")
	}
	w.Flush()
	if w.Count(world.ClassBullet) != 1 {
		t.Errorf("bullets after Flush = %d, want 1", w.Count(world.ClassBullet))
	}

	if !a.Fire(w, ship, "mine", true) {
		t.Fatal("secondary Fire returned false")
	}
	if got := ship.Ship().SecondaryCooldown; got != 1.5 {
		t.Errorf("secondary cooldown = %v, want 1.5", got)
	}
}

func TestBulletImpactDamagesAndCraters(t *testing.T) {
	w := testWorld()
	level := w.Level().(*world.GridTerrain)
	level.SetCell(10, 10, world.TerrainDestructible)
	hit := cp.Vector{X: 10*16 + 8, Y: 10*16 + 8}

	a := testArsenal()
	sp, _ := a.Spawn("cannon", hit, cp.Vector{}, 1)
	bullet := w.SpawnNow(sp)

	target := spawnShip(w, cp.Vector{X: 320, Y: 240}, 2)
	bullet.Behaviors().OnImpact(bullet, world.TerrainDestructible, target)
	w.Flush()

	if !bullet.Destroyed() {
		t.Error("bullet survived its own impact")
	}
	if got := target.Ship().Health; got != 90 {
		t.Errorf("target health = %v, want 90", got)
	}
	if got := level.ClassifyAt(hit); got != world.TerrainOpen {
		t.Errorf("terrain at impact = %v, want open", got)
	}
}

func TestGrenadeFuseExplodesIntoShrapnel(t *testing.T) {
	w := testWorld()
	a := testArsenal()
	sp, _ := a.Spawn("grenade", cp.Vector{X: 320, Y: 200}, cp.Vector{}, 1)
	grenade := w.SpawnNow(sp)

	// Two short steps accumulate under the fuse; the third crosses it.
	w.Step(0.2)
	w.Step(0.2)
	if grenade.Destroyed() {
		t.Fatal("grenade exploded before the fuse ran out")
	}
	w.Step(0.2)

	if !grenade.Destroyed() {
		t.Fatal("fuse did not explode the grenade")
	}
	if got := w.Count(world.ClassBullet); got != 6 {
		t.Fatalf("shrapnel count = %d, want 6", got)
	}

	// Each fragment is a self-contained bullet: its own impact slot deals
	// damage and removes the fragment.
	target := spawnShip(w, cp.Vector{X: 100, Y: 100}, 2)
	var frag *world.Object
	w.EachClass(world.ClassBullet, func(o *world.Object) bool {
		frag = o
		return false
	})
	if frag == nil {
		t.Fatal("no shrapnel fragment found")
	}
	if frag.Behaviors().OnImpact == nil {
		t.Fatal("fragment has no impact slot")
	}
	frag.Behaviors().OnImpact(frag, world.TerrainOpen, target)
	if !frag.Destroyed() {
		t.Error("fragment survived its impact")
	}
	if got := target.Ship().Health; got != 90 {
		t.Errorf("target health after fragment hit = %v, want 90", got)
	}
}

func TestGrenadeShrapnelHoldsRingSpread(t *testing.T) {
	w := testWorld()
	spec := prefabs.WeaponSpec{
		Name: "grenade", Kind: "grenade",
		Mass: 8, Radius: 3, Damage: 20,
		Fuse: 0.5, Shrapnel: 8, ShrapnelSpeed: 140,
	}
	w.SpawnNow(grenadeSpawn(spec, cp.Vector{X: 320, Y: 240}, cp.Vector{}, 1))

	for i := 0; i < 3; i++ {
		w.Step(0.2)
	}

	// Fragments spawned at the end of the fuse step have not been
	// integrated yet, so their velocities are the launch velocities.
	slotWidth := 2 * math.Pi / float64(spec.Shrapnel)
	slots := map[int]int{}
	w.EachClass(world.ClassBullet, func(o *world.Object) bool {
		v := o.Vel()
		if speed := v.Length(); math.Abs(speed-spec.ShrapnelSpeed) > 1e-6 {
			t.Errorf("fragment speed = %v, want %v", speed, spec.ShrapnelSpeed)
		}
		angle := math.Atan2(v.Y, v.X)
		slot := int(math.Round(angle / slotWidth))
		slot = (slot%spec.Shrapnel + spec.Shrapnel) % spec.Shrapnel
		nominal := slotWidth * float64(slot)
		diff := math.Abs(math.Mod(angle-nominal+3*math.Pi, 2*math.Pi) - math.Pi)
		if diff > shrapnelSpread+1e-9 {
			t.Errorf("fragment at %v strays %v rad from its ring slot", angle, diff)
		}
		slots[slot]++
		return true
	})
	if len(slots) != spec.Shrapnel {
		t.Errorf("fragments cover %d of %d ring slots", len(slots), spec.Shrapnel)
	}
}

func TestGrenadeBlastLeavesFirePatch(t *testing.T) {
	w := testWorld()
	level := w.Level().(*world.GridTerrain)

	spec := prefabs.WeaponSpec{
		Name: "napalm", Kind: "grenade",
		Mass: 8, Radius: 3, Damage: 20,
		Fuse: 0.5, Patch: "fire", PatchLifetime: 1.0,
	}
	w.SpawnNow(grenadeSpawn(spec, cp.Vector{X: 320, Y: 240}, cp.Vector{}, 1))

	for i := 0; i < 3; i++ {
		w.Step(0.2)
	}
	if got := level.PatchCount(); got != 1 {
		t.Fatalf("patches after blast = %d, want 1", got)
	}

	// The blast scheduled its own cleanup on the global scheduler.
	for i := 0; i < 3; i++ {
		w.Step(0.5)
	}
	if got := level.PatchCount(); got != 0 {
		t.Fatalf("patches after lifetime = %d, want 0", got)
	}
}

func TestGrenadeImpactExplodesImmediately(t *testing.T) {
	w := testWorld()
	a := testArsenal()
	sp, _ := a.Spawn("grenade", cp.Vector{X: 320, Y: 200}, cp.Vector{}, 1)
	grenade := w.SpawnNow(sp)

	grenade.Behaviors().OnImpact(grenade, world.TerrainSolid, nil)
	w.Flush()

	if !grenade.Destroyed() {
		t.Fatal("impact did not explode the grenade")
	}
	if got := w.Count(world.ClassBullet); got != 6 {
		t.Errorf("shrapnel count = %d, want 6", got)
	}
}

func TestMineArmsThenProximityDetonates(t *testing.T) {
	w := testWorld()
	a := testArsenal()
	sp, _ := a.Spawn("mine", cp.Vector{X: 320, Y: 240}, cp.Vector{}, 1)
	mine := w.SpawnNow(sp)
	ship := spawnShip(w, cp.Vector{X: 340, Y: 240}, 2)
	health := ship.Ship().Health

	// Before arming nothing reacts, even with a ship in range.
	w.Step(0.25)
	if mine.Destroyed() {
		t.Fatal("mine detonated before arming")
	}
	if mine.Behaviors().OnBulletHit != nil {
		t.Fatal("contact slots installed before arming")
	}

	// Crossing the arm delay installs the slots and starts the proximity
	// loop, which detonates on its first check.
	w.Step(0.3)
	if mine.Behaviors().OnBulletHit == nil && !mine.Destroyed() {
		t.Fatal("arming did not install contact slots")
	}
	w.Step(0.25)
	w.Step(0.25)

	if !mine.Destroyed() {
		t.Fatal("armed mine ignored a ship in proximity")
	}
	if ship.Ship().Health >= health {
		t.Error("proximity blast dealt no damage")
	}
}

func TestMineExpiresOnLifetime(t *testing.T) {
	w := testWorld()
	a := testArsenal()
	sp, _ := a.Spawn("mine", cp.Vector{X: 320, Y: 240}, cp.Vector{}, 1)
	mine := w.SpawnNow(sp)

	for i := 0; i < 11; i++ {
		w.Step(0.5)
	}
	if !mine.Destroyed() {
		t.Error("mine outlived its lifetime")
	}
}

func TestMissileSteersTowardNearestShip(t *testing.T) {
	w := testWorld()
	a := testArsenal()

	// Missile flying +x, owned by player 1; the only valid target sits
	// above the flight path.
	sp, _ := a.Spawn("missile", cp.Vector{X: 100, Y: 240}, cp.Vector{X: 160, Y: 0}, 1)
	missile := w.SpawnNow(sp)
	spawnShip(w, cp.Vector{X: 300, Y: 100}, 2)

	steer(missile, mustSpec(t, a, "missile"))

	vel := missile.Vel()
	if vel.Y >= 0 {
		t.Errorf("missile did not bend toward target above: vel = %+v", vel)
	}

	// The turn per retarget interval is capped.
	turned := math.Abs(math.Atan2(vel.Y, vel.X))
	maxTurn := 2.5 * 0.5
	if turned > maxTurn+1e-9 {
		t.Errorf("turn %v exceeds cap %v", turned, maxTurn)
	}
}

func TestMissileIgnoresOwnShip(t *testing.T) {
	w := testWorld()
	a := testArsenal()

	sp, _ := a.Spawn("missile", cp.Vector{X: 100, Y: 240}, cp.Vector{X: 160, Y: 0}, 1)
	missile := w.SpawnNow(sp)
	spawnShip(w, cp.Vector{X: 300, Y: 100}, 1)

	steer(missile, mustSpec(t, a, "missile"))

	if vel := missile.Vel(); vel.Y != 0 {
		t.Errorf("missile steered toward its own ship: vel = %+v", vel)
	}
}

func mustSpec(t *testing.T, a *Arsenal, name string) prefabs.WeaponSpec {
	t.Helper()
	spec, ok := a.Spec(name)
	if !ok {
		t.Fatalf("spec %q not found", name)
	}
	return spec
}

func TestDamageDestroysWornTargets(t *testing.T) {
	w := testWorld()

	critter := w.SpawnNow(world.Spawn{
		Class:   world.ClassCritter,
		Pos:     cp.Vector{X: 320, Y: 240},
		Critter: &world.CritterState{},
	})
	critter.Health = 15

	damage(critter, 10)
	if critter.Destroyed() {
		t.Fatal("critter destroyed with health remaining")
	}
	damage(critter, 10)
	if !critter.Destroyed() {
		t.Fatal("critter survived lethal damage")
	}

	// Damaging nil and destroyed targets is a no-op.
	damage(nil, 10)
	damage(critter, 10)
}
