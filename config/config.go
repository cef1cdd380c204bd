package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del bot.
type Config struct {
	Backtest BacktestConfig `yaml:"backtest"`
	Trader   TraderConfig   `yaml:"trader"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BacktestConfig controla el análisis histórico de mercados cerrados.
type BacktestConfig struct {
	Limit                int       `yaml:"limit"`                   // mercados cerrados a analizar
	MinMinutesSinceClose int       `yaml:"min_minutes_since_close"` // ignorar mercados recién cerrados (datos incompletos)
	Pattern              string    `yaml:"pattern"`                 // "15min" | "any"
	FidelityMinutes      int       `yaml:"fidelity_minutes"`        // resolución del price history
	LookbackMinutes      int       `yaml:"lookback_minutes"`        // minutos de historia antes del cierre
	Thresholds           []float64 `yaml:"thresholds"`              // umbrales de precio, estrictamente ascendentes
	DeviationThresholds  []float64 `yaml:"deviation_thresholds"`    // umbrales de momentum, ascendentes
	BucketWidth          float64   `yaml:"bucket_width"`
	BucketMinPrice       float64   `yaml:"bucket_min_price"`
	BucketMaxPrice       float64   `yaml:"bucket_max_price"`
	Workers              int       `yaml:"workers"` // workers para recolección concurrente; 0 = secuencial
}

// TraderConfig controla el loop de trading en vivo.
type TraderConfig struct {
	AmountUSDC        float64 `yaml:"amount_usdc"`          // USDC por trade
	MinProb           float64 `yaml:"min_prob"`             // entrada: best ask >= min_prob
	MaxProb           float64 `yaml:"max_prob"`             // entrada: best ask <= max_prob
	RefreshSeconds    int     `yaml:"refresh_seconds"`      // cadencia de refresco de mercados
	PollSeconds       int     `yaml:"poll_seconds"`         // cadencia de polling de precios
	MinMinutesToClose float64 `yaml:"min_minutes_to_close"` // evitar entradas de último segundo
	MaxMinutesToClose float64 `yaml:"max_minutes_to_close"` // evitar mercados que abrieron demasiado pronto
	WindowOpenMinutes int     `yaml:"window_open_minutes"`  // la ventana abre N minutos antes del cierre
	SearchQuery       string  `yaml:"search_query"`
	PageSize          int     `yaml:"page_size"`
	MaxPages          int     `yaml:"max_pages"`
}

// APIConfig contiene los base URLs y credenciales de las APIs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
	APIKey    string `yaml:"-"` // solo desde env, nunca desde YAML
}

// StorageConfig controla dónde se persisten los trade intents.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return &cfg, nil
}

// RefreshInterval devuelve la cadencia de refresco de mercados como time.Duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Trader.RefreshSeconds) * time.Second
}

// PollInterval devuelve la cadencia de polling como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Trader.PollSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("POLYMARKET_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
// Los defaults de estrategia replican los parámetros validados contra el
// histórico de la familia "Bitcoin Up or Down" de 15 minutos.
func setDefaults(cfg *Config) {
	if cfg.Backtest.Limit <= 0 {
		cfg.Backtest.Limit = 50
	}
	if cfg.Backtest.MinMinutesSinceClose <= 0 {
		cfg.Backtest.MinMinutesSinceClose = 5
	}
	if cfg.Backtest.Pattern == "" {
		cfg.Backtest.Pattern = "15min"
	}
	if cfg.Backtest.FidelityMinutes <= 0 {
		cfg.Backtest.FidelityMinutes = 5
	}
	if cfg.Backtest.LookbackMinutes <= 0 {
		cfg.Backtest.LookbackMinutes = 60
	}
	if len(cfg.Backtest.Thresholds) == 0 {
		cfg.Backtest.Thresholds = []float64{0.50, 0.505, 0.51, 0.52, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80}
	}
	if len(cfg.Backtest.DeviationThresholds) == 0 {
		cfg.Backtest.DeviationThresholds = []float64{0.0, 0.005, 0.01, 0.02, 0.05, 0.10, 0.15, 0.20}
	}
	if cfg.Backtest.BucketWidth <= 0 {
		cfg.Backtest.BucketWidth = 0.005
	}
	if cfg.Backtest.BucketMinPrice <= 0 {
		cfg.Backtest.BucketMinPrice = 0.50
	}
	if cfg.Backtest.BucketMaxPrice <= 0 {
		cfg.Backtest.BucketMaxPrice = 0.95
	}

	if cfg.Trader.AmountUSDC <= 0 {
		cfg.Trader.AmountUSDC = 5.0
	}
	if cfg.Trader.MinProb <= 0 {
		cfg.Trader.MinProb = 0.52
	}
	if cfg.Trader.MaxProb <= 0 {
		cfg.Trader.MaxProb = 0.60
	}
	if cfg.Trader.RefreshSeconds <= 0 {
		cfg.Trader.RefreshSeconds = 60
	}
	if cfg.Trader.PollSeconds <= 0 {
		cfg.Trader.PollSeconds = 3
	}
	if cfg.Trader.MinMinutesToClose <= 0 {
		cfg.Trader.MinMinutesToClose = 2
	}
	if cfg.Trader.MaxMinutesToClose <= 0 {
		cfg.Trader.MaxMinutesToClose = 120
	}
	if cfg.Trader.WindowOpenMinutes <= 0 {
		cfg.Trader.WindowOpenMinutes = 20
	}
	if cfg.Trader.SearchQuery == "" {
		cfg.Trader.SearchQuery = "bitcoin up or down"
	}
	if cfg.Trader.PageSize <= 0 {
		cfg.Trader.PageSize = 100
	}
	if cfg.Trader.MaxPages <= 0 {
		cfg.Trader.MaxPages = 10
	}

	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "updownbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// validate comprueba los invariantes de configuración que son fatales al arranque.
// Un listado de thresholds mal ordenado rompería la propiedad de subconjunto
// monotónico del slice por umbral, así que se rechaza aquí y no más adelante.
func validate(cfg *Config) error {
	for i := 1; i < len(cfg.Backtest.Thresholds); i++ {
		if cfg.Backtest.Thresholds[i] <= cfg.Backtest.Thresholds[i-1] {
			return fmt.Errorf("thresholds must be strictly ascending, got %v", cfg.Backtest.Thresholds)
		}
	}
	for i := 1; i < len(cfg.Backtest.DeviationThresholds); i++ {
		if cfg.Backtest.DeviationThresholds[i] <= cfg.Backtest.DeviationThresholds[i-1] {
			return fmt.Errorf("deviation_thresholds must be strictly ascending, got %v", cfg.Backtest.DeviationThresholds)
		}
	}
	if cfg.Backtest.BucketMinPrice >= cfg.Backtest.BucketMaxPrice {
		return fmt.Errorf("bucket_min_price %.3f must be below bucket_max_price %.3f",
			cfg.Backtest.BucketMinPrice, cfg.Backtest.BucketMaxPrice)
	}
	if cfg.Trader.MinProb >= cfg.Trader.MaxProb {
		return fmt.Errorf("min_prob %.3f must be below max_prob %.3f",
			cfg.Trader.MinProb, cfg.Trader.MaxProb)
	}
	if cfg.Backtest.Pattern != "15min" && cfg.Backtest.Pattern != "any" {
		return fmt.Errorf("pattern must be \"15min\" or \"any\", got %q", cfg.Backtest.Pattern)
	}
	return nil
}
