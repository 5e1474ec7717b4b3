package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOption 日志初始化配置，对应配置文件中的 logger 段。
type LogOption struct {
	Format   string // 日志格式，支持 "console" 或 "json"
	LogDir   string // 日志目录；为空时仅输出到 stdout
	Level    string // 日志级别：debug / info / warn / error
	Compress bool   // 是否压缩旧日志文件
}

var (
	mu     sync.Mutex
	sugar  = zap.NewNop().Sugar() // Init 之前调用日志接口时静默
	inited bool
)

// Init 初始化全局日志器。重复调用以最后一次为准。
func Init(opt LogOption) error {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.InfoLevel
	switch strings.ToLower(opt.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if opt.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if opt.LogDir != "" {
		if err := os.MkdirAll(opt.LogDir, 0o755); err != nil {
			return err
		}
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(opt.LogDir, "parser.log"),
			MaxSize:    256, // MB
			MaxBackups: 10,
			MaxAge:     14, // 天
			Compress:   opt.Compress,
		}))
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(syncers...), level)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = l.Sugar()
	inited = true
	return nil
}

// Sync 刷新缓冲日志，进程退出前调用。
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if inited {
		_ = sugar.Sync()
	}
}

func Debugf(format string, args ...any) { sugar.Debugf(format, args...) }
func Infof(format string, args ...any)  { sugar.Infof(format, args...) }
func Warnf(format string, args ...any)  { sugar.Warnf(format, args...) }
func Errorf(format string, args ...any) { sugar.Errorf(format, args...) }
