package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Room tracker scopes accepted by SCHEDULE_ROOM_SCOPE.
const (
	RoomScopeDirectory = "directory"
	RoomScopeFaculty   = "faculty"
)

const (
	defaultOverrides = "Nethrasri|monday|13:05|15:30|LAB;Saritha|tuesday|09:00|11:30|LAB;Sravani|saturday|13:05|15:30|LAB;Rajini|wednesday|09:00|11:30|SRP"
	defaultSeedNames = "Revathi,Shamila,Saritha,Nethrasri,Yesu,Rajini,Sravani"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Schedule ScheduleConfig
	Exports  ExportsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ScheduleConfig drives the slot catalog, the generator and the resolver clock.
// Slots are "HH:MM-HH:MM" strings; overrides are "name|day|HH:MM|HH:MM|DEPT".
type ScheduleConfig struct {
	MorningSlots     []string
	LunchSlot        string
	AfternoonSlots   []string
	ClassProbability float64
	MaxRedraws       int
	RoomScope        string
	Overrides        []string
	SeedNames        []string
	Timezone         string
	RandomSeed       int64
}

// ExportsConfig toggles timetable export formats, their cache and the
// background archive jobs.
type ExportsConfig struct {
	Formats         []string
	CacheEnabled    bool
	CacheTTL        time.Duration
	CalendarName    string
	StorageDir      string
	SigningSecret   string
	URLTTL          time.Duration
	Workers         int
	MaxRetries      int
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"), ",")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Schedule = ScheduleConfig{
		MorningSlots:     splitAndTrim(v.GetString("SCHEDULE_MORNING_SLOTS"), ","),
		LunchSlot:        strings.TrimSpace(v.GetString("SCHEDULE_LUNCH_SLOT")),
		AfternoonSlots:   splitAndTrim(v.GetString("SCHEDULE_AFTERNOON_SLOTS"), ","),
		ClassProbability: v.GetFloat64("SCHEDULE_CLASS_PROBABILITY"),
		MaxRedraws:       v.GetInt("SCHEDULE_MAX_REDRAWS"),
		RoomScope:        normalizeRoomScope(v.GetString("SCHEDULE_ROOM_SCOPE")),
		Overrides:        splitAndTrim(v.GetString("SCHEDULE_OVERRIDES"), ";"),
		SeedNames:        splitAndTrim(v.GetString("DIRECTORY_SEED_NAMES"), ","),
		Timezone:         v.GetString("SCHEDULE_TIMEZONE"),
		RandomSeed:       v.GetInt64("SCHEDULE_RANDOM_SEED"),
	}

	cfg.Exports = ExportsConfig{
		Formats:      splitAndTrim(strings.ToLower(v.GetString("EXPORT_FORMATS")), ","),
		CacheEnabled: v.GetBool("ENABLE_EXPORT_CACHE"),
		CacheTTL:     parseDuration(v.GetString("EXPORT_CACHE_TTL"), time.Hour),
		CalendarName: v.GetString("EXPORT_CALENDAR_NAME"),

		StorageDir:      v.GetString("EXPORT_STORAGE_DIR"),
		SigningSecret:   v.GetString("EXPORT_SIGNING_SECRET"),
		URLTTL:          parseDuration(v.GetString("EXPORT_URL_TTL"), 24*time.Hour),
		Workers:         v.GetInt("EXPORT_WORKERS"),
		MaxRetries:      v.GetInt("EXPORT_JOB_MAX_RETRIES"),
		CleanupInterval: parseDuration(v.GetString("EXPORT_CLEANUP_INTERVAL"), time.Hour),
	}

	if cfg.Exports.SigningSecret == "" {
		if cfg.Env == EnvProduction {
			return nil, errors.New("EXPORT_SIGNING_SECRET is required in production")
		}
		cfg.Exports.SigningSecret = "dev-export-secret"
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULE_MORNING_SLOTS", "09:00-09:55,09:55-10:50,10:50-11:45")
	v.SetDefault("SCHEDULE_LUNCH_SLOT", "11:45-12:10")
	v.SetDefault("SCHEDULE_AFTERNOON_SLOTS", "12:10-13:05,13:05-14:00,14:00-14:55,14:55-15:30")
	v.SetDefault("SCHEDULE_CLASS_PROBABILITY", 0.7)
	v.SetDefault("SCHEDULE_MAX_REDRAWS", 64)
	v.SetDefault("SCHEDULE_ROOM_SCOPE", RoomScopeDirectory)
	v.SetDefault("SCHEDULE_OVERRIDES", defaultOverrides)
	v.SetDefault("DIRECTORY_SEED_NAMES", defaultSeedNames)
	v.SetDefault("SCHEDULE_TIMEZONE", "Local")
	v.SetDefault("SCHEDULE_RANDOM_SEED", 0)

	v.SetDefault("EXPORT_FORMATS", "csv,pdf,xlsx,ics")
	v.SetDefault("ENABLE_EXPORT_CACHE", false)
	v.SetDefault("EXPORT_CACHE_TTL", "1h")
	v.SetDefault("EXPORT_CALENDAR_NAME", "Faculty Timetable")
	v.SetDefault("EXPORT_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORT_SIGNING_SECRET", "")
	v.SetDefault("EXPORT_URL_TTL", "24h")
	v.SetDefault("EXPORT_WORKERS", 2)
	v.SetDefault("EXPORT_JOB_MAX_RETRIES", 2)
	v.SetDefault("EXPORT_CLEANUP_INTERVAL", "1h")
}

// DefaultOverrides returns the built-in override table.
func DefaultOverrides() []string {
	return splitAndTrim(defaultOverrides, ";")
}

// DefaultSeedNames returns the faculty the directory starts with.
func DefaultSeedNames() []string {
	return splitAndTrim(defaultSeedNames, ",")
}

// Location resolves the configured timezone, falling back to the host zone.
func (c ScheduleConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func normalizeRoomScope(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case RoomScopeFaculty:
		return RoomScopeFaculty
	default:
		return RoomScopeDirectory
	}
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw, sep string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
