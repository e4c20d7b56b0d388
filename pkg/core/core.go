package core

import (
	"context"

	"github.com/redactyl/privaudit/internal/engine"
	"github.com/redactyl/privaudit/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type Config = engine.Config
type Result = engine.Result
type Problem = types.Problem
type Kind = types.Kind

const (
	KindForbiddenPath      = types.KindForbiddenPath
	KindForbiddenExtension = types.KindForbiddenExtension
	KindEmailLeak          = types.KindEmailLeak
	KindPhoneLeak          = types.KindPhoneLeak
	KindReadError          = types.KindReadError
)

// ErrRootNotFound is returned when Config.Root does not exist.
var ErrRootNotFound = engine.ErrRootNotFound

// Audit is the stable entrypoint for other programs. It returns only the
// problems found.
func Audit(ctx context.Context, cfg Config) ([]Problem, error) {
	res, err := engine.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Problems, nil
}

// AuditWithStats runs an audit and returns problems along with counts and
// timing.
func AuditWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.Run(ctx, cfg)
}
