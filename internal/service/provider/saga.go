package provider

import (
	"context"

	"go.uber.org/zap"
)

// saga records compensating actions for a multi-step write. When a later
// step fails, compensate undoes completed steps in reverse order.
type saga struct {
	name   string
	logger *zap.Logger
	undo   []compensation
}

type compensation struct {
	step string
	fn   func(context.Context) error
}

func newSaga(name string, logger *zap.Logger) *saga {
	return &saga{name: name, logger: logger}
}

// done registers the compensation of a completed step.
func (s *saga) done(step string, fn func(context.Context) error) {
	s.undo = append(s.undo, compensation{step: step, fn: fn})
}

// compensate runs every registered compensation even when ctx was cancelled,
// and returns how many failed.
func (s *saga) compensate(ctx context.Context) int {
	ctx = context.WithoutCancel(ctx)
	failed := 0
	for i := len(s.undo) - 1; i >= 0; i-- {
		c := s.undo[i]
		if err := c.fn(ctx); err != nil {
			failed++
			s.logger.Error("saga compensation failed",
				zap.String("saga", s.name),
				zap.String("step", c.step),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("saga step compensated", zap.String("saga", s.name), zap.String("step", c.step))
	}
	s.undo = nil
	return failed
}
