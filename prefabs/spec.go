package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// WeaponSpec is the tunable parameter record for one weapon kind. Zero
// fields fall back to the world defaults at spawn time.
type WeaponSpec struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"` // bullet, grenade, mine, missile
	Speed    float64 `yaml:"speed"`
	Mass     float64 `yaml:"mass"`
	Radius   float64 `yaml:"radius"`
	Drag     float64 `yaml:"drag"`
	Damage   float64 `yaml:"damage"`
	Cooldown float64 `yaml:"cooldown"`
	Color    uint32  `yaml:"color"`
	Texture  string  `yaml:"texture"`

	// Grenades.
	Fuse          float64 `yaml:"fuse"`
	Shrapnel      int     `yaml:"shrapnel"`
	ShrapnelSpeed float64 `yaml:"shrapnel_speed"`
	HoleRadius    float64 `yaml:"hole_radius"`

	// Surface patch left at the blast site (fire, foam, goo, freeze).
	Patch         string  `yaml:"patch"`
	PatchLifetime float64 `yaml:"patch_lifetime"`

	// Mines.
	ArmDelay        float64 `yaml:"arm_delay"`
	Lifetime        float64 `yaml:"lifetime"`
	ProximityRadius float64 `yaml:"proximity_radius"`
	ProximityCheck  float64 `yaml:"proximity_check"`

	// Homing missiles.
	Retarget float64 `yaml:"retarget"`
	TurnRate float64 `yaml:"turn_rate"`
}

// CritterSpec is the tunable parameter record for one critter kind.
type CritterSpec struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"` // bird, fish, turret
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	Health    float64 `yaml:"health"`
	WalkSpeed float64 `yaml:"walk_speed"`
	Color     uint32  `yaml:"color"`
	Texture   string  `yaml:"texture"`

	// Decision loop bounds in seconds.
	DecideMin float64 `yaml:"decide_min"`
	DecideMax float64 `yaml:"decide_max"`

	// Movement tuning.
	FlySpeed  float64 `yaml:"fly_speed"`
	FleeSpeed float64 `yaml:"flee_speed"`

	// Turrets.
	Range        float64 `yaml:"range"`
	FireInterval float64 `yaml:"fire_interval"`
	Weapon       string  `yaml:"weapon"`
}

// LevelFXSpec tunes the global-scheduler level effects.
type LevelFXSpec struct {
	Wind struct {
		Interval float64 `yaml:"interval"`
		MaxSpeed float64 `yaml:"max_speed"`
		Step     float64 `yaml:"step"`
	} `yaml:"wind"`
	Snow struct {
		Interval float64 `yaml:"interval"`
		Flakes   int     `yaml:"flakes"`
	} `yaml:"snow"`
	Regen struct {
		Interval float64 `yaml:"interval"`
		Budget   int     `yaml:"budget"`
	} `yaml:"regen"`
}

type weaponsFile struct {
	Weapons []WeaponSpec `yaml:"weapons"`
}

type crittersFile struct {
	Critters []CritterSpec `yaml:"critters"`
}

// LoadSpec reads and unmarshals one prefab file, preferring a disk copy
// over the embedded default.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadWeaponSpecs returns the weapon table keyed by name.
func LoadWeaponSpecs() (map[string]WeaponSpec, error) {
	file, err := LoadSpec[weaponsFile]("weapons.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]WeaponSpec, len(file.Weapons))
	for _, spec := range file.Weapons {
		if spec.Name == "" {
			return nil, fmt.Errorf("prefabs: weapons.yaml: spec without a name")
		}
		out[spec.Name] = spec
	}
	return out, nil
}

// LoadCritterSpecs returns the critter table keyed by name.
func LoadCritterSpecs() (map[string]CritterSpec, error) {
	file, err := LoadSpec[crittersFile]("critters.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]CritterSpec, len(file.Critters))
	for _, spec := range file.Critters {
		if spec.Name == "" {
			return nil, fmt.Errorf("prefabs: critters.yaml: spec without a name")
		}
		out[spec.Name] = spec
	}
	return out, nil
}

// LoadLevelFXSpec returns the level-effect tuning.
func LoadLevelFXSpec() (*LevelFXSpec, error) {
	spec, err := LoadSpec[LevelFXSpec]("levelfx.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
