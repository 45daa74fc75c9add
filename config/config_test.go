package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Addr:           ":8080",
		LogLevel:       "info",
		Suggestions:    15,
		LookaheadWidth: 10,
		Penalty:        0.1,
		MaxRounds:      6,
	}, cfg)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORDLEBOT_ADDR", ":9090")
	t.Setenv("WORDLEBOT_WORDLIST", "/tmp/words.tsv")
	t.Setenv("WORDLEBOT_LOOKAHEAD", "true")
	t.Setenv("WORDLEBOT_PENALTY", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/tmp/words.tsv", cfg.WordList)
	assert.True(t, cfg.Lookahead)

	opts := cfg.SuggestOptions()
	assert.Equal(t, 0.5, opts.Penalty)
	assert.True(t, opts.Lookahead)
	assert.Equal(t, 15, opts.N)
}

func TestLoadError(t *testing.T) {
	t.Setenv("WORDLEBOT_WORKERS", "many")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("word", "slate").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "slate")
}
