// Package obslog configures the zap logger cmd/classql threads through
// the compiler pipeline under --verbose. The core compiler packages
// never import zap directly; classql.Compile only accepts the
// *zap.SugaredLogger this package builds.
package obslog

import (
	"go.uber.org/zap"
)

// New builds a SugaredLogger for the CLI: a human-readable console
// encoder at debug level when verbose is true, or a no-op logger
// otherwise so compile runs stay silent by default.
func New(verbose bool) (*zap.SugaredLogger, error) {
	if !verbose {
		return zap.NewNop().Sugar(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
