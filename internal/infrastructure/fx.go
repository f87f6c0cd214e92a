package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/internal/infrastructure/database"
	httpfx "github.com/Conte777/fanscraper/internal/infrastructure/http"
	"github.com/Conte777/fanscraper/internal/infrastructure/kafka"
	"github.com/Conte777/fanscraper/internal/infrastructure/logger"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
	"github.com/Conte777/fanscraper/internal/infrastructure/onlyfans"
	"github.com/Conte777/fanscraper/internal/infrastructure/rules"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	rules.Module,
	onlyfans.Module, // depends on the rules provider
	kafka.Module,
	httpfx.Module,
)
