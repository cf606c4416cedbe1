package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKGCLConfig_Defaults(t *testing.T) {
	cfg := LoadKGCLConfig("KGCL_CFG_TEST_DEFAULTS")

	assert.Equal(t, 64, cfg.BatchCeiling)
	assert.Equal(t, PersistenceMemory, cfg.PersistenceMode)
	assert.Equal(t, ReasonerInProcess, cfg.ReasonerMode)
	assert.Equal(t, RepositoryMemory, cfg.RepositoryBackend)
	assert.Equal(t, QueueNone, cfg.QueueBackend)
	assert.Equal(t, 100*time.Millisecond, cfg.TimerResolution)
	require.NoError(t, cfg.Validate())
}

func TestLoadKGCLConfig_EnvOverride(t *testing.T) {
	prefix := "KGCL_CFG_TEST_OVERRIDE"
	os.Setenv(prefix+"_BATCH_CEILING", "128")
	os.Setenv(prefix+"_PERSISTENCE_MODE", "file")
	defer os.Unsetenv(prefix + "_BATCH_CEILING")
	defer os.Unsetenv(prefix + "_PERSISTENCE_MODE")

	cfg := LoadKGCLConfig(prefix)

	assert.Equal(t, 128, cfg.BatchCeiling)
	assert.Equal(t, PersistenceFile, cfg.PersistenceMode)
}

func TestKGCLConfig_Validate_RejectsUnknownEnum(t *testing.T) {
	cfg := LoadKGCLConfig("KGCL_CFG_TEST_INVALID")
	cfg.PersistenceMode = "bogus"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PersistenceMode")
}

func TestKGCLConfig_Validate_RequiresAMQPURLWhenSelected(t *testing.T) {
	cfg := LoadKGCLConfig("KGCL_CFG_TEST_AMQP")
	cfg.QueueBackend = QueueAMQP
	cfg.AMQPURL = ""

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQPURL")
}

func TestValidator_AccumulatesErrors(t *testing.T) {
	v := NewValidator()
	v.RequireString("Name", "")
	v.RequirePositiveInt("Count", 0)
	v.RequireOneOf("Mode", "invalid", []string{"a", "b"})

	assert.False(t, v.IsValid())
	assert.Len(t, v.Errors(), 3)
	assert.Error(t, v.Validate())
}
