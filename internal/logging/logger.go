// Package logging builds the zap logger used for --verbose diagnostics.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing debug output to w when verbose is
// set, and a no-op logger otherwise.
func New(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Named("privaudit")
}
