package di

import (
	"fmt"
	"time"

	domrepo "VolSentry/internal/domain/repository"
	"VolSentry/internal/engine"
	"VolSentry/internal/handler/api"
	internalrepo "VolSentry/internal/repository"
	"VolSentry/internal/usecase"
	"VolSentry/pkg/cache"
	"VolSentry/pkg/config"
	xhttp "VolSentry/pkg/http"
	pkgkafka "VolSentry/pkg/kafka"
	applogger "VolSentry/pkg/logger"
	"VolSentry/pkg/metrics"
	"VolSentry/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder. Nil when disabled;
// the evaluator treats a nil recorder as a no-op.
func ProvideMetrics(cfg *config.Config) domrepo.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

// ProvideCache creates the latest-report cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemoryCache(time.Minute), nil
	}
}

// ProvideKafkaProducer creates a Kafka producer, or nil when publishing is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher creates the Kafka report publisher seam. Nil when
// the producer is disabled; the evaluator skips publishing then.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSignalCalculator creates the signal calculator from engine config.
func ProvideSignalCalculator(cfg *config.Config) *engine.SignalCalculator {
	return engine.NewSignalCalculator(cfg.Engine)
}

// ProvideCalendarOverlay creates the calendar overlay.
func ProvideCalendarOverlay(cfg *config.Config) *engine.CalendarOverlay {
	return engine.NewCalendarOverlay(cfg.Engine.Calendar)
}

// ProvideCompositeClassifier creates the composite classifier.
func ProvideCompositeClassifier(cfg *config.Config) *engine.CompositeClassifier {
	return engine.NewCompositeClassifier(cfg.Engine.Composite)
}

// ProvideRiskBudgetSizer creates the risk budget sizer.
func ProvideRiskBudgetSizer(cfg *config.Config) *engine.RiskBudgetSizer {
	return engine.NewRiskBudgetSizer(cfg.Engine.Risk, cfg.Engine.Capital)
}

// ProvideStructureSelector creates the structure selector.
func ProvideStructureSelector(cfg *config.Config) *engine.StructureSelector {
	return engine.NewStructureSelector(cfg.Engine.Structures)
}

// ProvideReferenceRegistry creates the per-symbol reference registry.
func ProvideReferenceRegistry() *usecase.ReferenceRegistry {
	return usecase.NewReferenceRegistry()
}

// ProvideEvaluator wires the full decision pipeline.
func ProvideEvaluator(
	calc *engine.SignalCalculator,
	overlay *engine.CalendarOverlay,
	classifier *engine.CompositeClassifier,
	sizer *engine.RiskBudgetSizer,
	selector *engine.StructureSelector,
	refs *usecase.ReferenceRegistry,
	logger *applogger.Logger,
	m domrepo.Metrics,
	publisher domrepo.Publisher,
	reportCache cache.Service,
	cfg *config.Config,
) *usecase.Evaluator {
	return usecase.NewEvaluator(calc, overlay, classifier, sizer, selector,
		refs, logger, m, publisher, reportCache, cfg.Cache.TTL)
}

// ProvideHTTPHandler creates the decision API handler.
func ProvideHTTPHandler(logger *applogger.Logger, eval *usecase.Evaluator) xhttp.Handler {
	return api.NewDecisionEchoHandler(logger, eval)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	reportCache cache.Service,
	publisher domrepo.Publisher,
) *server.App {
	return server.New(cfg, logger, handler, reportCache, publisher)
}
