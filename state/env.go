// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docbc/config"
)

type envKey struct{}

// LocalEnv keeps everything the program needs for a single conversion run in
// one place, threaded through the context so deeply nested pipeline stages
// never need their own ad hoc globals.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by convert subcommand
	NoDirs    bool // not consulted by the pipeline, which always removes its scratch directory
	Overwrite bool // allow overwriting an existing output ZIP
	Strict    bool // abort on any reconciliation mismatch or QA flag instead of flagging it
	ForceOCR  bool // turn on OCR and image-only page escalation even if the configuration disables OCR
	Publisher string
	WorkDir   string

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
