package script

import (
	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/caveflyer/world"
)

// engine builds the host function table exposed to the script. Mutating
// calls go through the world's effect queue, so scripted changes land at
// the end of the step like any other behavior's.
func (rt *Runtime) engine(w *world.World) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Time()}, nil
	}}

	values["wind"] = &tengo.UserFunction{Name: "wind", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Wind()}, nil
	}}

	values["set_wind"] = &tengo.UserFunction{Name: "set_wind", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		speed, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		w.Queue(world.SetWindSpeed{Speed: speed})
		return tengo.TrueValue, nil
	}}

	values["hud"] = &tengo.UserFunction{Name: "hud", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		player, _ := tengo.ToInt(args[0])
		text, ok := tengo.ToString(args[1])
		if !ok || text == "" {
			return tengo.FalseValue, nil
		}
		lifetime := 0.0
		if len(args) > 2 {
			lifetime, _ = tengo.ToFloat64(args[2])
		}
		w.Queue(world.HUDMessage{Player: player, Text: text, Lifetime: lifetime, Fade: 0.5})
		return tengo.TrueValue, nil
	}}

	values["level_size"] = &tengo.UserFunction{Name: "level_size", Value: func(args ...tengo.Object) (tengo.Object, error) {
		width, height := w.Level().Size()
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: width},
			&tengo.Float{Value: height},
		}}, nil
	}}

	values["ship_count"] = &tengo.UserFunction{Name: "ship_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(w.Count(world.ClassShip))}, nil
	}}

	values["spawn_critter"] = &tengo.UserFunction{Name: "spawn_critter", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt.bestiary == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		name, _ := tengo.ToString(args[0])
		x, okX := tengo.ToFloat64(args[1])
		y, okY := tengo.ToFloat64(args[2])
		if name == "" || !okX || !okY {
			return tengo.FalseValue, nil
		}
		sp, ok := rt.bestiary.Spawn(name, cp.Vector{X: x, Y: y})
		if !ok {
			return tengo.FalseValue, nil
		}
		w.Queue(world.SpawnObject{Spec: sp})
		return tengo.TrueValue, nil
	}}

	values["mine_count"] = &tengo.UserFunction{Name: "mine_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		owner := 0
		if len(args) > 0 {
			owner, _ = tengo.ToInt(args[0])
		}
		n := 0
		w.EachMine(owner, func(*world.Object) bool {
			n++
			return true
		})
		return &tengo.Int{Value: int64(n)}, nil
	}}

	values["start_patch"] = &tengo.UserFunction{Name: "start_patch", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return tengo.FalseValue, nil
		}
		name, _ := tengo.ToString(args[0])
		x, okX := tengo.ToFloat64(args[1])
		y, okY := tengo.ToFloat64(args[2])
		kind, okKind := world.PatchKindByName(name)
		if !okKind || !okX || !okY {
			return tengo.FalseValue, nil
		}
		id := w.NextEffectID()
		w.Queue(world.StartTerrainPatch{Kind: kind, Pos: cp.Vector{X: x, Y: y}, ID: id})
		return &tengo.Int{Value: id}, nil
	}}

	values["remove_patch"] = &tengo.UserFunction{Name: "remove_patch", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		id, ok := tengo.ToInt64(args[0])
		if !ok || id == 0 {
			return tengo.FalseValue, nil
		}
		w.Queue(world.RemoveTerrainPatch{ID: id})
		return tengo.TrueValue, nil
	}}

	values["big_hole"] = &tengo.UserFunction{Name: "big_hole", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		r, okR := tengo.ToFloat64(args[2])
		if !okX || !okY || !okR {
			return tengo.FalseValue, nil
		}
		w.Queue(world.MakeBigHole{Pos: cp.Vector{X: x, Y: y}, R: r})
		return tengo.TrueValue, nil
	}}

	values["end_round"] = &tengo.UserFunction{Name: "end_round", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		winner, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		w.Queue(world.EndRound{Winner: winner})
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
