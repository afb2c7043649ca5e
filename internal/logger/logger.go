package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"swarm-console/internal/config"
)

// Log is usable before Init and discards everything until then.
var Log = zap.NewNop()

// Init routes logs to a rotating JSON file and, optionally, to stderr. The
// mission view owns the terminal, so console output is off by default.
func Init(cfg config.LoggerConfig) error {
	Log = New(cfg, zapcore.Lock(os.Stderr))
	Log.Info("Logger initialized.", zap.String("file", cfg.File), zap.String("level", cfg.Level))
	return nil
}

func New(cfg config.LoggerConfig, console zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	var cores []zapcore.Core
	if cfg.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), file, level))
	}
	if cfg.Console && console != nil {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), console, level))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("swarmctl")
}

// Sync flushes buffered entries; call it before exiting.
func Sync() {
	_ = Log.Sync()
}
