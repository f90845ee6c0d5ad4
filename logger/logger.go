package logger

import (
	"log"

	"go.uber.org/zap"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

var logger *zap.Logger

func init() {
	if err := Init(EnvDev); err != nil {
		log.Fatal("logger init", err)
	}
}

// Init 按运行环境重建全局 logger，dev 为开发格式，prod 为 JSON
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == EnvProd {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// Replace 替换全局 logger，测试中用于捕获日志
func Replace(l *zap.Logger) func() {
	prev := logger
	logger = l
	return func() { logger = prev }
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

func Sync() {
	_ = logger.Sync()
}

// With 返回带固定字段的子 logger
func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}
