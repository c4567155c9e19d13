package cron_feature

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// zapCronLogger routes robfig/cron's own logging into zap.
type zapCronLogger struct {
	sugar *zap.SugaredLogger
}

var _ cron.Logger = zapCronLogger{}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
