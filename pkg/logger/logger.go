package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер приложения.
// До вызова Init пишет в stderr с уровнем info, поэтому библиотечный код может логировать всегда.
var Log = logrus.New()

// Init настраивает логгер из окружения и направляет вывод в stdout.
// Вызывается в main.go и в TestMain. Повторный вызов безопасен.
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput - то же, что Init, но с явным приемником.
// TUI пишет логи в файл, чтобы не ломать экран.
func InitWithOutput(w io.Writer) {
	// 1. Уровень из LOG_LEVEL, по умолчанию "info"
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер: "json" для сбора логов, иначе текст
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	Log.SetOutput(w)
}

// Component возвращает логгер с полем component
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
