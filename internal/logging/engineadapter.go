package logging

import "github.com/rs/zerolog"

// EngineAdapter satisfies internal/engine.Logger by forwarding to a
// zerolog.Logger, so the engine package depends only on the Logger
// interface and never imports zerolog directly.
type EngineAdapter struct {
	Logger zerolog.Logger
}

func (a EngineAdapter) Info(msg string, fields map[string]any) {
	a.Logger.Info().Fields(fields).Msg(msg)
}

func (a EngineAdapter) Warn(msg string, fields map[string]any) {
	a.Logger.Warn().Fields(fields).Msg(msg)
}

func (a EngineAdapter) Error(msg string, fields map[string]any) {
	a.Logger.Error().Fields(fields).Msg(msg)
}
