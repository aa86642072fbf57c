package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Threshold comparison operators understood by the signal calculator.
const (
	OpGreater    = "gt"
	OpLess       = "lt"
	OpAbsGreater = "abs_gt"
)

// SignalThreshold is one signal's comparison rule. Warn is the looser bound,
// Action the stricter one; for "lt" signals Action sits below Warn.
type SignalThreshold struct {
	Op     string  `yaml:"op" validate:"oneof=gt lt abs_gt"`
	Warn   float64 `yaml:"warn"`
	Action float64 `yaml:"action"`
}

// CompositeConfig holds the classification cascade counts.
type CompositeConfig struct {
	MinTier1        int `yaml:"min_tier1" default:"2" validate:"gte=1"`
	CompositeMin    int `yaml:"composite_min" default:"3" validate:"gte=1"`
	CompositeMinVix int `yaml:"composite_min_vix" default:"4" validate:"gte=1"`
	CoreGroupMin    int `yaml:"core_group_min" default:"2" validate:"gte=1"`
}

// RiskConfig holds the budgeting formula parameters.
type RiskConfig struct {
	BaseRiskPct     float64 `yaml:"base_risk_pct" default:"0.02" validate:"gt=0,lte=1"`
	MaxRiskPct      float64 `yaml:"max_risk_pct" default:"0.04" validate:"gt=0,lte=1"`
	MaxDailyRiskPct float64 `yaml:"max_daily_risk_pct" default:"0.06" validate:"gt=0,lte=1"`
	GroupBonusPct   float64 `yaml:"group_bonus_pct" default:"0.10" validate:"gte=0"`
	NonCoreFloor    float64 `yaml:"non_core_floor" default:"0.8" validate:"gte=0"`

	// Lookup tables; unmapped keys fall back to a neutral 1.0.
	CoreMultipliers      map[int]float64    `yaml:"core_multipliers"`
	CompositeMultipliers map[string]float64 `yaml:"composite_multipliers"`
}

// StructuresConfig holds the structure-ranking thresholds and point weights.
// The weights are tunable defaults with no derivation beyond backtest fit.
type StructuresConfig struct {
	IVRankHigh    float64 `yaml:"iv_rank_high" default:"50"`
	IVRankLow     float64 `yaml:"iv_rank_low" default:"30"`
	IVRankMidLow  float64 `yaml:"iv_rank_mid_low" default:"30"`
	IVRankMidHigh float64 `yaml:"iv_rank_mid_high" default:"60"`
	IVRankCap     float64 `yaml:"iv_rank_cap" default:"70"`
	SkewSteep     float64 `yaml:"skew_steep" default:"6"`
	SkewFlat      float64 `yaml:"skew_flat" default:"3"`
	TermFloor     float64 `yaml:"term_floor" default:"0.5"`
	TermSteep     float64 `yaml:"term_steep" default:"1.5"`
	KinkMin       float64 `yaml:"kink_min" default:"0.75"`

	WeightPrimary   float64 `yaml:"weight_primary" default:"3"`
	WeightSecondary float64 `yaml:"weight_secondary" default:"2"`
	WeightMinor     float64 `yaml:"weight_minor" default:"1"`
}

// CalendarConfig holds the FOMC meeting calendar as YYYY-MM-DD dates.
type CalendarConfig struct {
	FOMCDates []string `yaml:"fomc_dates"`
}

// EngineConfig is the full decision-engine parameter surface. Every numeric
// documented in the behavior table is a default here, never a hardcoded
// constant in the engine.
type EngineConfig struct {
	Capital    float64                    `yaml:"capital" default:"250000" validate:"gt=0"`
	Signals    map[string]SignalThreshold `yaml:"signals"`
	Composite  CompositeConfig            `yaml:"composite"`
	Risk       RiskConfig                 `yaml:"risk"`
	Structures StructuresConfig           `yaml:"structures"`
	Calendar   CalendarConfig             `yaml:"calendar"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"5m"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"volsentry.reports"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		MaxAttempts  int      `yaml:"max_attempts" default:"3"`
	} `yaml:"kafka"`
	Engine EngineConfig `yaml:"engine"`
}

// DefaultSignalThresholds is the documented behavior table for all 19 signals.
// A YAML file only needs to list the signals it overrides.
func DefaultSignalThresholds() map[string]SignalThreshold {
	return map[string]SignalThreshold{
		// core fear
		"skew_spread":   {Op: OpGreater, Warn: 2.0, Action: 3.5},
		"risk_premium":  {Op: OpGreater, Warn: 6.0, Action: 9.0},
		"near_skew":     {Op: OpGreater, Warn: 5.0, Action: 7.5},
		"contango":      {Op: OpLess, Warn: 0.5, Action: -0.5},
		"credit_spread": {Op: OpLess, Warn: -0.20, Action: -0.35},
		// wing skew
		"wing_1m": {Op: OpGreater, Warn: 10.0, Action: 14.0},
		"wing_3m": {Op: OpGreater, Warn: 8.0, Action: 11.0},
		// funding stress
		"funding_curve":    {Op: OpGreater, Warn: 0.25, Action: 0.60},
		"funding_richness": {Op: OpGreater, Warn: 0.75, Action: 1.50},
		// vol momentum
		"iv_momentum":   {Op: OpGreater, Warn: 1.5, Action: 3.0},
		"fear_momentum": {Op: OpGreater, Warn: 2.0, Action: 4.0},
		"term_momentum": {Op: OpLess, Warn: -0.75, Action: -1.50},
		// secondary
		"forecast_ratio":   {Op: OpGreater, Warn: 1.15, Action: 1.35},
		"skew_slope_shift": {Op: OpAbsGreater, Warn: 1.0, Action: 2.0},
		"forward_kink":     {Op: OpAbsGreater, Warn: 0.75, Action: 1.50},
		"rv_divergence":    {Op: OpGreater, Warn: 1.5, Action: 3.0},
		"model_confidence": {Op: OpLess, Warn: 0.50, Action: 0.30},
		"market_width":     {Op: OpLess, Warn: 0.40, Action: 0.20},
		"iv_ratio":         {Op: OpGreater, Warn: 1.03, Action: 1.10},
	}
}

// DefaultCoreMultipliers maps exact core ACTION counts to sizing multipliers.
func DefaultCoreMultipliers() map[int]float64 {
	return map[int]float64{2: 0.7, 3: 1.0, 4: 1.5, 5: 2.0}
}

// DefaultCompositeMultipliers maps composite verdicts to sizing multipliers.
func DefaultCompositeMultipliers() map[string]float64 {
	return map[string]float64{
		"MULTI_SIGNAL_STRONG":      1.5,
		"FEAR_BOUNCE_STRONG_OPEX":  1.4,
		"FEAR_BOUNCE_STRONG":       1.3,
		"FUNDING_STRESS":           1.2,
		"WING_PANIC":               1.2,
		"VOL_ACCELERATION":         1.2,
		"DIRECTIONAL_BEARISH":      1.2,
		"FEAR_BOUNCE_LONG":         1.0,
		"DIRECTIONAL_BEARISH_WEAK": 0.8,
	}
}

// DefaultFOMCDates lists scheduled FOMC meeting days. Both days of each
// two-day meeting are listed; the blackout window extends one day around each.
func DefaultFOMCDates() []string {
	return []string{
		"2025-01-28", "2025-01-29",
		"2025-03-18", "2025-03-19",
		"2025-05-06", "2025-05-07",
		"2025-06-17", "2025-06-18",
		"2025-07-29", "2025-07-30",
		"2025-09-16", "2025-09-17",
		"2025-10-28", "2025-10-29",
		"2025-12-09", "2025-12-10",
		"2026-01-27", "2026-01-28",
		"2026-03-17", "2026-03-18",
		"2026-04-28", "2026-04-29",
		"2026-06-16", "2026-06-17",
		"2026-07-28", "2026-07-29",
		"2026-09-15", "2026-09-16",
		"2026-10-27", "2026-10-28",
		"2026-12-08", "2026-12-09",
	}
}

var validate = validator.New()

// Default returns a fully-populated configuration with every documented
// default applied.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	c.Engine.Signals = DefaultSignalThresholds()
	c.Engine.Risk.CoreMultipliers = DefaultCoreMultipliers()
	c.Engine.Risk.CompositeMultipliers = DefaultCompositeMultipliers()
	c.Engine.Calendar.FOMCDates = DefaultFOMCDates()
	return &c
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// yaml merges into the pre-filled maps key by key; re-fill any signal an
	// override file zeroed out so the engine always sees all 19.
	for key, th := range DefaultSignalThresholds() {
		if _, ok := c.Engine.Signals[key]; !ok {
			c.Engine.Signals[key] = th
		}
	}
	if len(c.Engine.Risk.CoreMultipliers) == 0 {
		c.Engine.Risk.CoreMultipliers = DefaultCoreMultipliers()
	}
	if len(c.Engine.Risk.CompositeMultipliers) == 0 {
		c.Engine.Risk.CompositeMultipliers = DefaultCompositeMultipliers()
	}
	if len(c.Engine.Calendar.FOMCDates) == 0 {
		c.Engine.Calendar.FOMCDates = DefaultFOMCDates()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("VOLSENTRY_CAPITAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Engine.Capital = f
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if host, port, ok := strings.Cut(v, ":"); ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Backend = "redis"
				c.Cache.Redis.Host = host
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("FOMC_DATES"); v != "" {
		c.Engine.Calendar.FOMCDates = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Engine.Risk.MaxRiskPct < c.Engine.Risk.BaseRiskPct {
		return fmt.Errorf("engine.risk: max_risk_pct %.4f below base_risk_pct %.4f",
			c.Engine.Risk.MaxRiskPct, c.Engine.Risk.BaseRiskPct)
	}
	for key, th := range c.Engine.Signals {
		switch th.Op {
		case OpGreater, OpLess, OpAbsGreater:
		default:
			return fmt.Errorf("engine.signals.%s: unknown op %q", key, th.Op)
		}
	}
	for _, d := range c.Engine.Calendar.FOMCDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("engine.calendar: bad fomc date %q: %w", d, err)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka.enabled")
	}
	return nil
}
