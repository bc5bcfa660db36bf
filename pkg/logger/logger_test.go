package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/pkg/logger"
)

func TestWithWriter_NivelYCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.WithWriter(&buf, "warn")

	log.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len(), "info está por debajo de warn")

	log.Tenant("t-1").Warn().Str("sale_id", "s-1").Msg("venta")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "t-1", line["tenant_id"])
	assert.Equal(t, "s-1", line["sale_id"])
	assert.Equal(t, "warn", line["level"])
}

func TestWithWriter_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.WithWriter(&buf, "verbose")

	log.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())
	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}
