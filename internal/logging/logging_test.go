package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewSuppressesDebugByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, zerolog.WarnLevel)

	log.Debug().Str("path", "/accounts/abc/workers/scripts").Msg("cloudflare api")
	assert.Empty(t, buf.String())

	log.Warn().Msg("slow response")
	assert.Contains(t, buf.String(), "slow response")
}

func TestNewDebugEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, zerolog.DebugLevel)

	log.Debug().Int("status", 200).Msg("cloudflare api")

	assert.Contains(t, buf.String(), "cloudflare api")
	assert.Contains(t, buf.String(), "200")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(""))
}
