package weapon

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

func bulletSpawn(spec prefabs.WeaponSpec, pos, vel cp.Vector, owner int) world.Spawn {
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
		Behaviors: world.Behaviors{
			OnImpact: BulletImpact(spec.Damage),
		},
	}
}

// BulletImpact returns the standard bullet impact slot: deal damage to
// whatever was hit, chip a crater out of destructible terrain, and burn
// up. Other projectile behaviors reuse it directly when their fragments
// should act like plain bullets.
func BulletImpact(dmg float64) func(obj *world.Object, ter world.Terrain, other *world.Object) {
	return func(obj *world.Object, ter world.Terrain, other *world.Object) {
		if obj.Destroyed() {
			return
		}
		damage(other, dmg)
		if ter == world.TerrainDestructible {
			obj.World().Queue(world.MakeBulletHole{Pos: obj.Pos()})
		}
		obj.Destroy()
	}
}
