package logger

import (
	"context"

	common_models "firm-crm/internal/common/models"
	"firm-crm/internal/config"
	"firm-crm/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger and tees warnings and errors into the logs collection
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	logs := mongodb.DB.Collection("logs")
	dbWriter := NewDBLogWriter(func(ctx context.Context, rec common_models.Log) error {
		_, err := logs.InsertOne(ctx, rec)
		return err
	}, cfg.AppId, 1000)

	logger := zap.New(NewDBCore(baseLogger.Core(), dbWriter, zapcore.WarnLevel), zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			dbWriter.Close()
			return nil
		},
	})

	return logger, nil
}
