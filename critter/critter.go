// Package critter builds level wildlife from the critter prefab specs:
// birds and fish that wander on their decision loops, and wall turrets
// that return fire.
package critter

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/weapon"
	"github.com/milk9111/caveflyer/world"
)

// Bestiary is the loaded critter table. Turrets fire through the shared
// arsenal; passing a nil arsenal leaves them toothless but alive.
type Bestiary struct {
	specs   map[string]prefabs.CritterSpec
	arsenal *weapon.Arsenal
}

// NewBestiary loads the critter prefab file.
func NewBestiary(arsenal *weapon.Arsenal) (*Bestiary, error) {
	specs, err := prefabs.LoadCritterSpecs()
	if err != nil {
		return nil, fmt.Errorf("critter: %w", err)
	}
	return NewBestiaryFrom(specs, arsenal), nil
}

// NewBestiaryFrom wraps an already-loaded spec table.
func NewBestiaryFrom(specs map[string]prefabs.CritterSpec, arsenal *weapon.Arsenal) *Bestiary {
	return &Bestiary{specs: specs, arsenal: arsenal}
}

// Spec looks up one critter spec by name.
func (b *Bestiary) Spec(name string) (prefabs.CritterSpec, bool) {
	if b == nil {
		return prefabs.CritterSpec{}, false
	}
	spec, ok := b.specs[name]
	return spec, ok
}

// Spawn builds the spawn record for one critter at pos.
func (b *Bestiary) Spawn(name string, pos cp.Vector) (world.Spawn, bool) {
	spec, ok := b.Spec(name)
	if !ok {
		return world.Spawn{}, false
	}
	switch spec.Kind {
	case "bird":
		return birdSpawn(spec, pos), true
	case "fish":
		return fishSpawn(spec, pos), true
	case "turret":
		return b.turretSpawn(spec, pos), true
	}
	log.Printf("critter: %s has unknown kind %q", name, spec.Kind)
	return world.Spawn{}, false
}

// decideDelay draws the next decision-loop delay from the spec's bounds.
func decideDelay(spec prefabs.CritterSpec) float64 {
	if spec.DecideMax <= spec.DecideMin {
		return spec.DecideMin
	}
	return spec.DecideMin + rand.Float64()*(spec.DecideMax-spec.DecideMin)
}
