//go:build wireinject
// +build wireinject

package di

import (
	"VolSentry/pkg/config"
	"VolSentry/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient services
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideReportPublisher,

		// Engine components
		ProvideSignalCalculator,
		ProvideCalendarOverlay,
		ProvideCompositeClassifier,
		ProvideRiskBudgetSizer,
		ProvideStructureSelector,

		// Use cases
		ProvideReferenceRegistry,
		ProvideEvaluator,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
