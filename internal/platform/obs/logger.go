package obs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds the process logger for the given environment and installs
// it as the zap global. Development gets a console encoder at debug level;
// everything else gets JSON at the requested level.
func NewLogger(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("new logger: parse level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return logger.Named("school-route-service"), nil
}
