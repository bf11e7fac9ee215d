package config

import (
	_ "embed"

	"github.com/vovakirdan/clawround/internal/ball"
)

//go:embed defaults/clawround.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches the embedded
// defaults/clawround.yaml.
func Default() File {
	return File{
		Machine: MachineConfig{
			Width:           27,
			Height:          12,
			PartitionX:      20.5,
			PartitionTop:    7.5,
			ZoneMinX:        21,
			ZoneMinY:        0,
			ZoneMaxX:        27,
			ZoneMaxY:        6,
			Gravity:         20,
			Restitution:     0.3,
			Friction:        4,
			ContactFriction: 0.3,
			RestSpeed:       1.5,
			SleepSpeed:      0.25,
			SleepTime:       0.5,
			WakeSpeed:       2,
			MaxSpeed:        30,
			Iterations:      3,
		},
		Claw: ClawConfig{
			HomeX:        2,
			MinX:         1,
			MaxX:         19,
			Floor:        1,
			Ceiling:      10,
			DropX:        24,
			Tolerance:    0.05,
			MoveSpeed:    8,
			DescendSpeed: 6,
			AscendSpeed:  6,
			ReturnSpeed:  10,
			GrabDwell:    0.5,
			GrabRadius:   1.6,
			MaxCarry:     6,
			CarrySpacing: 1,
			ReleasePush:  2,
			JawOpen:      60,
			JawClosed:    5,
			SwingMax:     12,
			Smoothing:    8,
		},
		Settle: SettleConfig{
			PollInterval:      0.1,
			VelocityThreshold: 0.05,
			WaitDuration:      1,
			ArrivalGrace:      2.5,
			ClearDelay:        1.5,
		},
		Spawn: SpawnConfig{
			MinX:       0.5,
			MinY:       0.5,
			MaxX:       19.5,
			MaxY:       7,
			MaxRetries: 30,
			PerTick:    4,
		},
		Balls: []BallConfig{
			{ID: "red", Category: ball.CategoryScore, Value: 10, Radius: 0.5, Mass: 1, Drag: 0.2, GravityScale: 1, Visual: "red"},
			{ID: "blue", Category: ball.CategoryScore, Value: 5, Radius: 0.45, Mass: 0.8, Drag: 0.2, GravityScale: 1, Visual: "blue"},
			{ID: "green", Category: ball.CategoryScore, Value: 20, Radius: 0.55, Mass: 1.2, Drag: 0.2, GravityScale: 1, Visual: "green"},
			{ID: "gold", Category: ball.CategoryMultiplier, Value: 2, Radius: 0.5, Mass: 1.5, Drag: 0.1, GravityScale: 1, Visual: "gold"},
			{ID: "violet", Category: ball.CategoryMultiplier, Value: 3, Radius: 0.4, Mass: 0.6, Drag: 0.3, GravityScale: 1.2, Visual: "violet"},
		},
		Rounds: []RoundConfig{
			{
				Name:        "warmup",
				Description: "Plenty of grabs, modest target",
				Target:      30,
				Grabs:       5,
				Pool:        []PoolEntry{{Ball: "red", Count: 6}, {Ball: "blue", Count: 6}, {Ball: "gold", Count: 1}},
			},
			{
				Name:        "classic",
				Description: "The standard machine",
				Target:      80,
				Grabs:       4,
				Pool:        []PoolEntry{{Ball: "red", Count: 6}, {Ball: "blue", Count: 8}, {Ball: "green", Count: 3}, {Ball: "gold", Count: 2}},
			},
			{
				Name:        "jackpot",
				Description: "Three grabs to land a big multiplier",
				Target:      200,
				Grabs:       3,
				Pool:        []PoolEntry{{Ball: "red", Count: 4}, {Ball: "blue", Count: 4}, {Ball: "green", Count: 4}, {Ball: "gold", Count: 2}, {Ball: "violet", Count: 1}},
			},
		},
		Inventory: []PoolEntry{{Ball: "blue", Count: 2}},
	}
}
