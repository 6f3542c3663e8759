package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Debug().Msg("hidden")
	log.Info().Str("table", "Artist").Msg("loaded")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "table=Artist")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewWithWriter_FallbackLevel(t *testing.T) {
	for _, level := range []string{"", "loud"} {
		log := NewWithWriter(&bytes.Buffer{}, level)
		assert.Equal(t, zerolog.WarnLevel, log.GetLevel(), level)
	}
}
