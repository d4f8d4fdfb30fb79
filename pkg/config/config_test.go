package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "API_PREFIX",
		"SCHEDULE_MORNING_SLOTS", "SCHEDULE_LUNCH_SLOT", "SCHEDULE_AFTERNOON_SLOTS",
		"SCHEDULE_ROOM_SCOPE", "SCHEDULE_OVERRIDES", "DIRECTORY_SEED_NAMES",
		"EXPORT_FORMATS", "EXPORT_SIGNING_SECRET", "EXPORT_URL_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"09:00-09:55", "09:55-10:50", "10:50-11:45"}, cfg.Schedule.MorningSlots)
	assert.Equal(t, "11:45-12:10", cfg.Schedule.LunchSlot)
	assert.Len(t, cfg.Schedule.AfternoonSlots, 4)
	assert.Equal(t, RoomScopeDirectory, cfg.Schedule.RoomScope)
	assert.Equal(t, DefaultOverrides(), cfg.Schedule.Overrides)
	assert.Len(t, cfg.Schedule.Overrides, 4)
	assert.Equal(t, DefaultSeedNames(), cfg.Schedule.SeedNames)
	assert.Equal(t, []string{"csv", "pdf", "xlsx", "ics"}, cfg.Exports.Formats)
	assert.Equal(t, "dev-export-secret", cfg.Exports.SigningSecret)
	assert.Equal(t, 24*time.Hour, cfg.Exports.URLTTL)
}

func TestLoadReadsScheduleFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCHEDULE_MORNING_SLOTS", " 08:00-09:00 , 09:00-10:00 ,")
	t.Setenv("SCHEDULE_OVERRIDES", "Yesu|friday|09:00|09:55|LAB; ;Revathi|monday|12:10|13:05|SRP")
	t.Setenv("SCHEDULE_ROOM_SCOPE", " Faculty ")
	t.Setenv("DIRECTORY_SEED_NAMES", "Ada, Grace")
	t.Setenv("EXPORT_FORMATS", "CSV, ics")
	t.Setenv("EXPORT_URL_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00-09:00", "09:00-10:00"}, cfg.Schedule.MorningSlots)
	assert.Equal(t, []string{"Yesu|friday|09:00|09:55|LAB", "Revathi|monday|12:10|13:05|SRP"}, cfg.Schedule.Overrides)
	assert.Equal(t, RoomScopeFaculty, cfg.Schedule.RoomScope)
	assert.Equal(t, []string{"Ada", "Grace"}, cfg.Schedule.SeedNames)
	assert.Equal(t, []string{"csv", "ics"}, cfg.Exports.Formats)
	assert.Equal(t, 24*time.Hour, cfg.Exports.URLTTL)
}

func TestLoadUnknownRoomScopeFallsBackToDirectory(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCHEDULE_ROOM_SCOPE", "campus")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RoomScopeDirectory, cfg.Schedule.RoomScope)
}

func TestLoadRequiresSigningSecretInProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", EnvProduction)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_SIGNING_SECRET")

	t.Setenv("EXPORT_SIGNING_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Exports.SigningSecret)
}

func TestScheduleLocation(t *testing.T) {
	assert.Equal(t, time.Local, ScheduleConfig{}.Location())
	assert.Equal(t, time.Local, ScheduleConfig{Timezone: "local"}.Location())
	assert.Equal(t, time.Local, ScheduleConfig{Timezone: "Nowhere/Special"}.Location())
	assert.Equal(t, time.UTC, ScheduleConfig{Timezone: "UTC"}.Location())
}
