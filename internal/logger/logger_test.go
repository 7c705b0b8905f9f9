package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToInfo(t *testing.T) {
	t.Setenv("KEEPSAKE_LOG_LEVEL", "")
	log := New("keepsake-test")
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewHonorsLevelOverride(t *testing.T) {
	t.Setenv("KEEPSAKE_LOG_LEVEL", "debug")
	log := New("keepsake-test")
	require.Equal(t, zerolog.DebugLevel, log.GetLevel())
}

func TestNewIgnoresBogusLevel(t *testing.T) {
	t.Setenv("KEEPSAKE_LOG_LEVEL", "loudest")
	log := New("keepsake-test")
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
