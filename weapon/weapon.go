// Package weapon builds projectile spawn records and their behavior
// tables from the weapon prefab specs.
package weapon

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// Arsenal is the loaded weapon table. It is read-only after construction
// and safe to share between ships.
type Arsenal struct {
	specs map[string]prefabs.WeaponSpec
}

// NewArsenal loads the weapon prefab file.
func NewArsenal() (*Arsenal, error) {
	specs, err := prefabs.LoadWeaponSpecs()
	if err != nil {
		return nil, fmt.Errorf("weapon: %w", err)
	}
	return NewArsenalFrom(specs), nil
}

// NewArsenalFrom wraps an already-loaded spec table. Tests and the hot
// reload path use this.
func NewArsenalFrom(specs map[string]prefabs.WeaponSpec) *Arsenal {
	return &Arsenal{specs: specs}
}

// Spec looks up one weapon spec by name.
func (a *Arsenal) Spec(name string) (prefabs.WeaponSpec, bool) {
	if a == nil {
		return prefabs.WeaponSpec{}, false
	}
	spec, ok := a.specs[name]
	return spec, ok
}

// Spawn builds the spawn record for one shot of the named weapon. The
// projectile inherits the owner so it cannot hit the ship that fired it.
func (a *Arsenal) Spawn(name string, pos, vel cp.Vector, owner int) (world.Spawn, bool) {
	spec, ok := a.Spec(name)
	if !ok {
		return world.Spawn{}, false
	}
	switch spec.Kind {
	case "bullet":
		return bulletSpawn(spec, pos, vel, owner), true
	case "grenade":
		return grenadeSpawn(spec, pos, vel, owner), true
	case "mine":
		return mineSpawn(spec, pos, vel, owner), true
	case "missile":
		return missileSpawn(spec, pos, vel, owner), true
	}
	log.Printf("weapon: %s has unknown kind %q", name, spec.Kind)
	return world.Spawn{}, false
}

// Fire queues one shot of the named weapon from the ship's nose and puts
// the slot on cooldown. It reports false when the name is unknown.
func (a *Arsenal) Fire(w *world.World, ship *world.Object, name string, secondary bool) bool {
	spec, ok := a.Spec(name)
	if !ok || ship == nil || ship.Destroyed() {
		return false
	}

	angle := ship.Angle()
	muzzle := ship.Pos().Add(common.ForAngle(angle, ship.Radius()+spec.Radius+1))
	vel := ship.Vel().Add(common.ForAngle(angle, spec.Speed))

	sp, ok := a.Spawn(name, muzzle, vel, ship.Owner())
	if !ok {
		return false
	}
	w.Queue(world.SpawnObject{Spec: sp})

	if sh := ship.Ship(); sh != nil {
		if secondary {
			sh.SecondaryCooldown = spec.Cooldown
		} else {
			sh.PrimaryCooldown = spec.Cooldown
		}
	}
	return true
}

// damage applies hit damage to a target and destroys it when its health
// runs out. Ships track health on their ship state; everything else uses
// the object scratch field. Particles never take damage.
func damage(target *world.Object, amount float64) {
	if target == nil || target.Destroyed() || amount <= 0 {
		return
	}
	if sh := target.Ship(); sh != nil {
		sh.Health -= amount
		if sh.Health <= 0 {
			target.Destroy()
		}
		return
	}
	switch target.Class() {
	case world.ClassCritter, world.ClassFixed, world.ClassMine:
		target.Health -= amount
		if target.Health <= 0 {
			target.Destroy()
		}
	}
}
