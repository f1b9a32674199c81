package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"nobiko-server/game"
	"nobiko-server/room"
)

// Config is everything the server reads from the environment.
type Config struct {
	// Server
	Addr         string
	StaticDir    string
	WSPath       string
	GRPCAddr     string // empty disables the gRPC health endpoint
	Codec        string
	CORSOrigins  []string
	IPCooldown   time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Tuning game.Tuning
	Room   room.Options
}

// Load reads .env (if present) and then the process environment. Unset or
// unparsable values fall back to defaults.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	addr := getEnv("ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "8080")
	}

	t := game.DefaultTuning()
	t.WorldWidth = getFloat("WORLD_WIDTH", t.WorldWidth)
	t.WorldHeight = getFloat("WORLD_HEIGHT", t.WorldHeight)
	t.MaxActors = getInt("MAX_PLAYERS", t.MaxActors)
	t.TargetFood = getInt("TARGET_FOOD", t.TargetFood)
	t.Bounded = getBool("BOUNDED", t.Bounded)
	t.Obstacles = getBool("OBSTACLES", t.Obstacles)
	t.TickRate = getInt("TICK_RATE", t.TickRate)
	t.Seed = int64(getInt("SEED", int(t.Seed)))
	t.Leniency = getFloat("LENIENCY", t.Leniency)
	t.BaseSpeed = getFloat("BASE_SPEED", t.BaseSpeed)
	t.MaxScale = getFloat("MAX_SCALE", t.MaxScale)
	if t.TickRate <= 0 {
		log.Printf("[WARN] TICK_RATE=%d is not positive, using 30", t.TickRate)
		t.TickRate = 30
	}
	if t.MaxScale < 1 {
		t.MaxScale = 1
	}

	ro := room.DefaultOptions()
	ro.MoveInterval = parseDuration(getEnv("MOVE_INTERVAL", ""), ro.MoveInterval)
	ro.ChatInterval = parseDuration(getEnv("CHAT_INTERVAL", ""), ro.ChatInterval)
	ro.MaxTargetDelta = getFloat("MAX_TARGET_DELTA", ro.MaxTargetDelta)

	return Config{
		Addr:         addr,
		StaticDir:    getEnv("STATIC_DIR", "../client"),
		WSPath:       getEnv("WS_PATH", "/ws"),
		GRPCAddr:     getEnv("GRPC_ADDR", ""),
		Codec:        strings.ToLower(getEnv("CODEC", "json")),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		IPCooldown:   parseDuration(getEnv("IP_COOLDOWN", "2s"), 2*time.Second),
		ReadTimeout:  parseDuration(getEnv("READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("WRITE_TIMEOUT", "15s"), 15*time.Second),
		Tuning:       t,
		Room:         ro,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
