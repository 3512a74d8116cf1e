package startup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/pkg/config"
)

func TestEnsureJWTSecretGeneratesEphemeralKey(t *testing.T) {
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	original := config.JWTSecret
	t.Cleanup(func() { config.JWTSecret = original })

	config.JWTSecret = ""
	require.NoError(t, ensureJWTSecret(logger))
	assert.Len(t, config.JWTSecret, 64)

	config.JWTSecret = "configured-secret"
	require.NoError(t, ensureJWTSecret(logger))
	assert.Equal(t, "configured-secret", config.JWTSecret)
}
