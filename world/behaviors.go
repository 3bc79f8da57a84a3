package world

// Outcome is returned by hit slots to control the default reaction.
// Returning Handled suppresses the invoking behavior's own default (a
// shield swallowing a bullet prevents the bullet's impact explosion).
// At most one handler claims an event per dispatch.
type Outcome int

const (
	Continue Outcome = iota
	Handled
)

// Behaviors is the per-object dispatch table: a closed set of typed,
// optional reaction slots. A nil slot means the event has no script-side
// effect; the host's own physical response still applies. Slots are plain
// funcs so higher-level effects can call a lower-level effect's slot
// directly (grenade fragments carry the bullet impact behavior).
type Behaviors struct {
	// OnImpact fires when a projectile hits terrain or another object.
	// other is nil for pure terrain hits.
	OnImpact func(obj *Object, ter Terrain, other *Object)

	// OnBulletHit fires on the target when a bullet touches it.
	OnBulletHit func(obj *Object, bullet *Object) Outcome

	// OnObjectHit fires on the target for a non-bullet object touch.
	OnObjectHit func(obj *Object, other *Object) Outcome

	OnDestroy        func(obj *Object)
	OnTouchGround    func(obj *Object, ter Terrain)
	OnTouchLedge     func(obj *Object)
	OnActionComplete func(obj *Object)
	OnShipRecall     func(obj *Object, ter Terrain)

	// Ship-only slots, driven by control state and terrain contact.
	OnFirePrimary   func(ship *Object)
	OnFireSecondary func(ship *Object)
	OnThrust        func(ship *Object)
	OnBase          func(ship *Object)
}

// impact invokes the object's impact slot, if set.
func (o *Object) impact(ter Terrain, other *Object) {
	if o == nil || o.destroyed || o.behaviors.OnImpact == nil {
		return
	}
	o.behaviors.OnImpact(o, ter, other)
}

// bulletHit runs the target's bullet-hit slot and reports whether the
// bullet's own default impact should still run.
func (o *Object) bulletHit(bullet *Object) Outcome {
	if o == nil || o.destroyed || o.behaviors.OnBulletHit == nil {
		return Continue
	}
	return o.behaviors.OnBulletHit(o, bullet)
}

func (o *Object) objectHit(other *Object) Outcome {
	if o == nil || o.destroyed || o.behaviors.OnObjectHit == nil {
		return Continue
	}
	return o.behaviors.OnObjectHit(o, other)
}
