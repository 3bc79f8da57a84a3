package weapon

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/common"
	"github.com/milk9111/caveflyer/ecs"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// shrapnelSpread is the angular jitter in radians around each fragment's
// slot on the evenly spaced ring.
const shrapnelSpread = 0.15

func grenadeSpawn(spec prefabs.WeaponSpec, pos, vel cp.Vector, owner int) world.Spawn {
	timers := ecs.NewTimers[*world.Object]()
	timers.Add(spec.Fuse, func(o *world.Object) (float64, bool) {
		explode(o, spec)
		return 0, false
	})

	return world.Spawn{
		Class:   world.ClassBullet,
		Pos:     pos,
		Vel:     vel,
		Mass:    spec.Mass,
		Radius:  spec.Radius,
		Drag:    spec.Drag,
		Owner:   owner,
		Color:   spec.Color,
		Texture: spec.Texture,
		Damage:  spec.Damage,
		Timers:  timers,
		Behaviors: world.Behaviors{
			OnImpact: func(obj *world.Object, ter world.Terrain, other *world.Object) {
				damage(other, spec.Damage)
				explode(obj, spec)
			},
		},
	}
}

// explode blows the crater and queues one shrapnel spawn per fragment,
// each a plain bullet with its own impact slot. Fragments start just
// outside the blast origin so they do not collide with each other at
// birth.
func explode(obj *world.Object, spec prefabs.WeaponSpec) {
	if obj.Destroyed() {
		return
	}
	w := obj.World()
	pos := obj.Pos()

	if spec.HoleRadius > 0 {
		w.Queue(world.MakeBigHole{Pos: pos, R: spec.HoleRadius})
	}

	// Incendiary and similar loads leave a surface patch burning at the
	// blast site until its lifetime runs out.
	if kind, ok := world.PatchKindByName(spec.Patch); ok {
		id := w.NextEffectID()
		w.Queue(world.StartTerrainPatch{Kind: kind, Pos: pos, ID: id})
		life := spec.PatchLifetime
		if life <= 0 {
			life = 3
		}
		w.ScheduleGlobal(life, func(w *world.World) (float64, bool) {
			w.Queue(world.RemoveTerrainPatch{ID: id})
			return 0, false
		})
	}

	n := spec.Shrapnel
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		vel := common.Jitter(common.ForAngle(angle, spec.ShrapnelSpeed), shrapnelSpread)
		frag := spec
		frag.Radius = 1
		frag.Mass = 5
		frag.Damage = spec.Damage / 2
		w.Queue(world.SpawnObject{Spec: world.Spawn{
			Class:  world.ClassBullet,
			Pos:    pos.Add(common.ForAngle(angle, obj.Radius()+2)),
			Vel:    vel,
			Mass:   frag.Mass,
			Radius: frag.Radius,
			Drag:   spec.Drag,
			Owner:  obj.Owner(),
			Color:  spec.Color,
			Damage: frag.Damage,
			Behaviors: world.Behaviors{
				OnImpact: BulletImpact(frag.Damage),
			},
		}})
	}

	obj.Destroy()
}
