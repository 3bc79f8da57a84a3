package ecs

// IDGen issues monotonically increasing ids for effects that are referenced
// across ticks independently of any owning entity: forcefields, terrain
// patches, portals. Ids are never reused and never explicitly freed;
// consumers keep their own still-valid state. A generator lives for one
// simulation world and is reset when a new round starts.
type IDGen struct {
	next int64
}

// Next returns a fresh id. The zero value is never issued, so 0 can stand
// for "no effect".
func (g *IDGen) Next() int64 {
	if g == nil {
		return 0
	}
	g.next++
	return g.next
}

// Reset rewinds the generator for a new round.
func (g *IDGen) Reset() {
	if g == nil {
		return
	}
	g.next = 0
}
