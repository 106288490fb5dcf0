package jobs

import (
	"context"
	"fmt"
	"os"

	"outreach-server/internal/observability"

	"github.com/hibiken/asynq"
)

// asynqLogger adapts observability.Logger to the asynq.Logger interface
type asynqLogger struct {
	logger *observability.Logger
	exit   func(code int)
}

// NewAsynqLogger routes asynq server and scheduler logs through the application logger
func NewAsynqLogger(logger *observability.Logger) asynq.Logger {
	return &asynqLogger{logger: logger, exit: os.Exit}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(context.Background(), fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(context.Background(), fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(context.Background(), fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(context.Background(), fmt.Sprint(args...), nil)
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(context.Background(), fmt.Sprint(args...), nil)
	l.exit(1)
}
