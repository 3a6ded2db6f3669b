package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/partylink/internal/config"
	"github.com/MrJamesThe3rd/partylink/internal/matching"
	"github.com/MrJamesThe3rd/partylink/internal/reconcile"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:@localhost:5432/partylink?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, matching.DefaultConfig(), cfg.MatchingConfig())
	assert.Equal(t, reconcile.DefaultRiskPolicy(), cfg.RiskPolicy())
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, 4, cfg.Linking.Workers)

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.Und, tag)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LINKING_AUTO_ACCEPT", "70")
	t.Setenv("LINKING_LOCALE", "tr")
	t.Setenv("RISK_HIGH_OVERDUE_PCT", "40")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.MatchingConfig().AutoAccept)
	assert.Equal(t, 40, cfg.RiskPolicy().HighOverduePct)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.Turkish, tag)
}

func TestLoad_Invalid(t *testing.T) {
	type testCase struct {
		name string
		env  map[string]string
	}

	tests := []testCase{
		{name: "AutoAcceptAboveHigh", env: map[string]string{"LINKING_AUTO_ACCEPT": "90"}},
		{name: "FloorAboveAutoAccept", env: map[string]string{"LINKING_SUGGESTION_FLOOR": "65"}},
		{name: "ModerateBelowFloor", env: map[string]string{"LINKING_MODERATE_FLOOR": "25"}},
		{name: "ModerateAboveAutoAccept", env: map[string]string{"LINKING_MODERATE_FLOOR": "70"}},
		{name: "NoSuggestions", env: map[string]string{"LINKING_MAX_SUGGESTIONS": "0"}},
		{name: "NegativeSuggestions", env: map[string]string{"LINKING_MAX_SUGGESTIONS": "-1"}},
		{name: "NoWorkers", env: map[string]string{"LINKING_WORKERS": "0"}},
		{name: "RiskInverted", env: map[string]string{"RISK_MEDIUM_OVERDUE_PCT": "30"}},
		{name: "BadLocale", env: map[string]string{"LINKING_LOCALE": "not a tag!"}},
		{name: "BadNumber", env: map[string]string{"PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
