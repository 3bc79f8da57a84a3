package prefabs

import "testing"

func TestLoadWeaponSpecs(t *testing.T) {
	specs, err := LoadWeaponSpecs()
	if err != nil {
		t.Fatalf("LoadWeaponSpecs: %v", err)
	}

	kinds := map[string]string{
		"cannon":  "bullet",
		"grenade": "grenade",
		"mine":    "mine",
		"missile": "missile",
	}
	for name, kind := range kinds {
		spec, ok := specs[name]
		if !ok {
			t.Errorf("weapon %q missing from defaults", name)
			continue
		}
		if spec.Kind != kind {
			t.Errorf("weapon %q kind = %q, want %q", name, spec.Kind, kind)
		}
		if spec.Cooldown <= 0 {
			t.Errorf("weapon %q has no cooldown", name)
		}
	}

	if g := specs["grenade"]; g.Fuse <= 0 || g.Shrapnel <= 0 {
		t.Errorf("grenade fuse/shrapnel = %v/%d, want positive", g.Fuse, g.Shrapnel)
	}
	if m := specs["mine"]; m.ArmDelay <= 0 || m.Lifetime <= m.ArmDelay {
		t.Errorf("mine arm/lifetime = %v/%v, want 0 < arm < lifetime", m.ArmDelay, m.Lifetime)
	}
}

func TestLoadCritterSpecs(t *testing.T) {
	specs, err := LoadCritterSpecs()
	if err != nil {
		t.Fatalf("LoadCritterSpecs: %v", err)
	}
	for _, name := range []string{"bird", "fish", "turret"} {
		spec, ok := specs[name]
		if !ok {
			t.Errorf("critter %q missing from defaults", name)
			continue
		}
		if spec.Health <= 0 {
			t.Errorf("critter %q has no health", name)
		}
	}
	if tu := specs["turret"]; tu.Weapon == "" || tu.FireInterval <= 0 {
		t.Errorf("turret weapon/interval = %q/%v", tu.Weapon, tu.FireInterval)
	}
	if b := specs["bird"]; b.DecideMax < b.DecideMin {
		t.Errorf("bird decide bounds inverted: %v > %v", b.DecideMin, b.DecideMax)
	}
}

func TestLoadLevelFXSpec(t *testing.T) {
	spec, err := LoadLevelFXSpec()
	if err != nil {
		t.Fatalf("LoadLevelFXSpec: %v", err)
	}
	if spec.Wind.Interval <= 0 || spec.Wind.MaxSpeed <= 0 {
		t.Errorf("wind tuning = %+v", spec.Wind)
	}
	if spec.Regen.Interval <= 0 || spec.Regen.Budget <= 0 {
		t.Errorf("regen tuning = %+v", spec.Regen)
	}
}

func TestLoadScriptEmbedded(t *testing.T) {
	data, err := LoadScript("demo_level.tengo")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(data) == 0 {
		t.Error("embedded script is empty")
	}
}

func TestSpecFilters(t *testing.T) {
	tests := []struct {
		path   string
		spec   bool
		script bool
	}{
		{"prefabs/weapons.yaml", true, false},
		{"prefabs/scripts/demo_level.tengo", false, true},
		{"prefabs/notes.txt", false, false},
	}
	for _, tt := range tests {
		if got := isSpecFile(tt.path); got != tt.spec {
			t.Errorf("isSpecFile(%q) = %v, want %v", tt.path, got, tt.spec)
		}
		if got := isScriptFile(tt.path); got != tt.script {
			t.Errorf("isScriptFile(%q) = %v, want %v", tt.path, got, tt.script)
		}
	}
}
