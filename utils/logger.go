package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds a production zap logger, or a development one when
// appEnv is "development" / "dev".
func NewLogger(appEnv string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(appEnv)) {
	case "development", "dev":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
