// Package config provides YAML-based configuration for the claw machine:
// cabinet geometry, claw and settlement tuning, the ball catalog, and the
// authored rounds.
package config

import "github.com/vovakirdan/clawround/internal/ball"

// File is the whole configuration document.
type File struct {
	Machine   MachineConfig `yaml:"machine"`
	Claw      ClawConfig    `yaml:"claw"`
	Settle    SettleConfig  `yaml:"settle"`
	Spawn     SpawnConfig   `yaml:"spawn"`
	Balls     []BallConfig  `yaml:"balls"`
	Rounds    []RoundConfig `yaml:"rounds"`
	Inventory []PoolEntry   `yaml:"inventory"`

	// Source names where the document was loaded from.
	Source string `yaml:"-"`
}

// MachineConfig defines the cabinet and the physics solver.
type MachineConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	PartitionX      float64 `yaml:"partition_x"`
	PartitionTop    float64 `yaml:"partition_top"`
	ZoneMinX        float64 `yaml:"zone_min_x"`
	ZoneMinY        float64 `yaml:"zone_min_y"`
	ZoneMaxX        float64 `yaml:"zone_max_x"`
	ZoneMaxY        float64 `yaml:"zone_max_y"`
	Gravity         float64 `yaml:"gravity"`
	Restitution     float64 `yaml:"restitution"`
	Friction        float64 `yaml:"friction"`
	ContactFriction float64 `yaml:"contact_friction"`
	RestSpeed       float64 `yaml:"rest_speed"`
	SleepSpeed      float64 `yaml:"sleep_speed"`
	SleepTime       float64 `yaml:"sleep_time"`
	WakeSpeed       float64 `yaml:"wake_speed"`
	MaxSpeed        float64 `yaml:"max_speed"`
	Iterations      int     `yaml:"iterations"`
}

// ClawConfig defines claw geometry, speeds, and grab behavior.
type ClawConfig struct {
	HomeX        float64 `yaml:"home_x"`
	MinX         float64 `yaml:"min_x"`
	MaxX         float64 `yaml:"max_x"`
	Floor        float64 `yaml:"floor"`
	Ceiling      float64 `yaml:"ceiling"`
	DropX        float64 `yaml:"drop_x"`
	Tolerance    float64 `yaml:"tolerance"`
	MoveSpeed    float64 `yaml:"move_speed"`
	DescendSpeed float64 `yaml:"descend_speed"`
	AscendSpeed  float64 `yaml:"ascend_speed"`
	ReturnSpeed  float64 `yaml:"return_speed"`
	GrabDwell    float64 `yaml:"grab_dwell"`
	GrabRadius   float64 `yaml:"grab_radius"`
	MaxCarry     int     `yaml:"max_carry"`
	CarrySpacing float64 `yaml:"carry_spacing"`
	ReleasePush  float64 `yaml:"release_push"`
	JawOpen      float64 `yaml:"jaw_open"`
	JawClosed    float64 `yaml:"jaw_closed"`
	SwingMax     float64 `yaml:"swing_max"`
	Smoothing    float64 `yaml:"smoothing"`
}

// SettleConfig defines settlement detection timing (seconds).
type SettleConfig struct {
	PollInterval      float64 `yaml:"poll_interval"`
	VelocityThreshold float64 `yaml:"velocity_threshold"`
	WaitDuration      float64 `yaml:"wait_duration"`
	ArrivalGrace      float64 `yaml:"arrival_grace"`
	ClearDelay        float64 `yaml:"clear_delay"`
}

// SpawnConfig defines the spawn rectangle and placement budget.
type SpawnConfig struct {
	MinX       float64 `yaml:"min_x"`
	MinY       float64 `yaml:"min_y"`
	MaxX       float64 `yaml:"max_x"`
	MaxY       float64 `yaml:"max_y"`
	MaxRetries int     `yaml:"max_retries"`
	PerTick    int     `yaml:"per_tick"`
}

// BallConfig authors one ball archetype.
type BallConfig struct {
	ID           string        `yaml:"id"`
	Category     ball.Category `yaml:"category"`
	Value        float64       `yaml:"value"`
	Radius       float64       `yaml:"radius"`
	Mass         float64       `yaml:"mass"`
	Drag         float64       `yaml:"drag"`
	GravityScale float64       `yaml:"gravity_scale"`
	Visual       string        `yaml:"visual"`
}

// RoundConfig authors one round.
type RoundConfig struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Target      int         `yaml:"target"`
	Grabs       int         `yaml:"grabs"`
	Pool        []PoolEntry `yaml:"pool"`
}

// PoolEntry requests Count balls of a catalog ID.
type PoolEntry struct {
	Ball  string `yaml:"ball"`
	Count int    `yaml:"count"`
}

// Round returns the authored round with the given name.
func (f *File) Round(name string) (RoundConfig, bool) {
	for _, r := range f.Rounds {
		if r.Name == name {
			return r, true
		}
	}
	return RoundConfig{}, false
}

// RoundNames returns round names in authoring order.
func (f *File) RoundNames() []string {
	names := make([]string, 0, len(f.Rounds))
	for _, r := range f.Rounds {
		names = append(names, r.Name)
	}
	return names
}
