package dbfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fundly/internal/infra"
)

var Module = fx.Provide(
	provideDB, provideLogger)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func provideLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}
