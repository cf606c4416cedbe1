// Package logging adapts the generic common logger to the CLI's
// configuration surface: it translates a config.KGCLConfig into the
// common.LoggerConfig the ambient logging stack expects.
package logging

import (
	"github.com/seanchatmangpt/kgcl/common"
	"github.com/seanchatmangpt/kgcl/config"
)

// New builds a service-scoped context logger for the given configuration,
// routed through common.NewLogger's OutputSplitter (errors to stderr,
// everything else to stdout).
func New(cfg config.KGCLConfig, version string) *common.ContextLogger {
	logger := common.NewLogger(common.LoggerConfig{
		Level:      common.LogLevel(cfg.LogLevel),
		Format:     cfg.LogFormat,
		Service:    "kgcl",
		Version:    version,
		TimeFormat: "",
	})
	cl := common.NewContextLogger(logger, map[string]interface{}{
		"service": "kgcl",
		"version": version,
	})
	cl.WithFields(map[string]interface{}{
		"store_path":   cfg.StorePath,
		"redis_url":    common.MaskSecret(cfg.RedisURL),
		"amqp_url":     common.MaskSecret(cfg.AMQPURL),
		"postgres_dsn": common.MaskSecret(cfg.PostgresDSN),
	}).Debug("loaded configuration")
	return cl
}
