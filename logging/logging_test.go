package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seanchatmangpt/kgcl/config"
)

func TestNew_ReturnsUsableLogger(t *testing.T) {
	cfg := config.LoadKGCLConfig("KGCL_LOGGING_TEST")
	logger := New(cfg, "0.1.0")

	require := assert.New(t)
	require.NotNil(logger)

	logger.WithField("case", "t1").Info("hello")
}
