// Package script runs tengo level scripts. A script defines two
// functions, init(engine) and on_timer(engine, elapsed); the host runs
// init once at round start and then drives on_timer through the world's
// global scheduler, using the returned value as the delay in seconds
// until the next run. Returning a negative delay stops the loop.
package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/caveflyer/critter"
	"github.com/milk9111/caveflyer/prefabs"
	"github.com/milk9111/caveflyer/world"
)

// Runtime is one compiled level script plus its persistent state map.
// The script source is compiled once; each phase run re-executes the
// compiled program with fresh globals.
type Runtime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	bestiary *critter.Bestiary
}

const dispatchScript = `
if __phase == "init" {
	init(__engine)
} else if __phase == "timer" {
	__next = on_timer(__engine, __elapsed)
}
`

// Load reads and compiles a level script by prefab name. A nil bestiary
// leaves spawn_critter inert.
func Load(name string, bestiary *critter.Bestiary) (*Runtime, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return New(name, src, bestiary)
}

// New compiles a level script from source.
func New(name string, src []byte, bestiary *critter.Bestiary) (*Runtime, error) {
	prog := tengo.NewScript(append(append([]byte{}, src...), dispatchScript...))
	_ = prog.Add("__phase", "")
	_ = prog.Add("__engine", map[string]any{})
	_ = prog.Add("__state", map[string]any{})
	_ = prog.Add("__elapsed", 0.0)
	_ = prog.Add("__next", 0.0)

	prog.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := prog.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	rt := &Runtime{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		bestiary: bestiary,
	}

	// Shake out missing definitions before the round starts.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", noop, 0); err != nil {
		return nil, fmt.Errorf("script: check %s: %w", name, err)
	}
	return rt, nil
}

// Attach runs the script's init phase against the world and arms the
// timer loop on the global scheduler. The loop begins on the next step.
func (rt *Runtime) Attach(w *world.World) error {
	if rt == nil || w == nil {
		return fmt.Errorf("script: attach without a runtime or world")
	}
	if err := rt.runPhase("init", rt.engine(w), 0); err != nil {
		return fmt.Errorf("script: %s init: %w", rt.name, err)
	}

	last := w.Time()
	w.ScheduleGlobal(0, func(w *world.World) (float64, bool) {
		elapsed := w.Time() - last
		last = w.Time()
		if err := rt.runPhase("timer", rt.engine(w), elapsed); err != nil {
			log.Printf("script: %s on_timer: %v", rt.name, err)
			return 0, false
		}
		next := rt.compiled.Get("__next").Float()
		if next < 0 {
			return 0, false
		}
		return next, true
	})
	return nil
}

func (rt *Runtime) runPhase(phase string, engine *tengo.ImmutableMap, elapsed float64) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	if err := rt.compiled.Set("__elapsed", elapsed); err != nil {
		return err
	}
	return rt.compiled.Run()
}
