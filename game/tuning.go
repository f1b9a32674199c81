package game

import "time"

// Tuning holds every gameplay constant of a world. One table drives both the
// bounded arena and the open-world mode; the mode is just Bounded/Obstacles.
type Tuning struct {
	// World
	WorldWidth  float64
	WorldHeight float64
	MaxActors   int
	Bounded     bool // wall collisions at the world edge
	Obstacles   bool // generate arena walls at startup
	Seed        int64

	// Loop
	TickRate int // ticks per second

	// Actor
	InitSegments  int
	SpawnMargin   float64 // keep spawn points this far from the edge
	SpawnSpacing  float64 // px between segments of a fresh actor
	BaseSize      float64 // collision radius at scale 1
	BaseSpacing   float64 // preferred inter-segment distance at scale 1
	BaseSpeed     float64 // px per tick at scale 1
	BoostMult     float64
	MinSpeedFrac  float64 // speed never drops below BaseSpeed*MinSpeedFrac
	ScaleStep     float64 // multiplicative scale gain per food value unit
	MaxScale      float64
	BoostDuration time.Duration
	BoostCooldown time.Duration
	StaleInput    time.Duration // target older than this is ignored (dead-reckoning)
	DriftDecay    float64       // per-tick speed factor while dead-reckoning
	DriftFloor    float64       // dead-reckoning never slows below this fraction
	FollowStiff   float64       // fraction of the excess gap closed per tick
	FollowTol     float64       // excess below this is left alone
	EaseTicks     int           // ticks a grown segment takes to reach full stiffness
	PathEpsilon   float64
	PathCap       int
	Leniency      float64 // multiplier on combined collision radii, (0,1]
	SelfSkip      int     // own segments closer to the head than this are never hit

	// Food
	TargetFood     int
	FoodMargin     float64
	FoodAttempts   int
	FoodCellSize   float64
	DeathFoodCap   int
	DeathFoodSize  float64
	DeathFoodValue int     // per-food value ceiling for death clusters
	DeathScatter   float64 // jitter around sampled segments
}

// DefaultTuning is the bounded arena table.
func DefaultTuning() Tuning {
	return Tuning{
		WorldWidth:  3000,
		WorldHeight: 2000,
		MaxActors:   50,
		Bounded:     true,
		Obstacles:   true,
		Seed:        0,

		TickRate: 30,

		InitSegments:  3,
		SpawnMargin:   100,
		SpawnSpacing:  20,
		BaseSize:      8,
		BaseSpacing:   15,
		BaseSpeed:     3,
		BoostMult:     2,
		MinSpeedFrac:  0.7,
		ScaleStep:     0.01,
		MaxScale:      1.8,
		BoostDuration: time.Second,
		BoostCooldown: 4 * time.Second,
		StaleInput:    300 * time.Millisecond,
		DriftDecay:    0.98,
		DriftFloor:    0.5,
		FollowStiff:   0.75,
		FollowTol:     0.5,
		EaseTicks:     6,
		PathEpsilon:   0.5,
		PathCap:       256,
		Leniency:      0.8,
		SelfSkip:      3,

		TargetFood:     40,
		FoodMargin:     15,
		FoodAttempts:   20,
		FoodCellSize:   100,
		DeathFoodCap:   25,
		DeathFoodSize:  8,
		DeathFoodValue: 2,
		DeathScatter:   20,
	}
}

// TickInterval is the wall-clock length of one tick.
func (t Tuning) TickInterval() time.Duration {
	if t.TickRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(t.TickRate)
}

// Player colors palette
var NeonColors = []string{
	"#00ff00", "#ff00ff", "#00ffff", "#ffff00",
	"#8000ff", "#ff8000", "#ff0080", "#80ff00",
}
