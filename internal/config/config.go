// Package config assembles runtime configuration from an optional YAML file
// with environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/venturelens/pitchmeter/internal/scoring"
)

// ScoringParams collects the hand-tuned constants of the scoring pipeline.
// The defaults reproduce the calibration the system shipped with; they are
// configuration, not ground truth, and should be revisited against real
// outcome data.
type ScoringParams struct {
	// LLMBlend and HeuristicBlend weight the model judgment against the
	// deterministic sub-scores when producing a category score.
	LLMBlend       float64 `yaml:"llm_blend"`
	HeuristicBlend float64 `yaml:"heuristic_blend"`
	// AgentSigmaDenom normalizes sub-score disagreement into an agent
	// confidence: max(0.1, 1 - stdev/denom).
	AgentSigmaDenom float64 `yaml:"agent_sigma_denom"`
	// ConsensusSigmaMax is the assumed maximum meaningful disagreement
	// between ensemble samples on a 0-100 scale.
	ConsensusSigmaMax float64 `yaml:"consensus_sigma_max"`
	// OutlierThreshold is the z-score beyond which a category score is
	// flagged as an outlier.
	OutlierThreshold float64 `yaml:"outlier_threshold"`
	// NormalizationMethod selects the default metric rescaling method.
	NormalizationMethod string `yaml:"normalization_method"`

	Probability scoring.ProbabilityParams `yaml:"probability"`
}

// DefaultScoringParams returns the shipped calibration.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		LLMBlend:            0.6,
		HeuristicBlend:      0.4,
		AgentSigmaDenom:     50,
		ConsensusSigmaMax:   30,
		OutlierThreshold:    2.0,
		NormalizationMethod: string(scoring.MethodMinMax),
		Probability:         scoring.DefaultProbabilityParams(),
	}
}

// LLMConfig configures the inference collaborator.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	// Temperatures defines the ensemble: one sampler per entry. Low /
	// medium / near-zero is the recommended spread.
	Temperatures   []float32 `yaml:"temperatures"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	RequestsPerMin int       `yaml:"requests_per_minute"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port            string   `yaml:"port"`
	CORSOrigins     []string `yaml:"cors_origins"`
	RateLimitRPS    float64  `yaml:"rate_limit_rps"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLMinutes int      `yaml:"cache_ttl_minutes"`
}

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Scoring ScoringParams `yaml:"scoring"`
	// TablesPath points at an optional YAML file with reference values,
	// cohort statistics and metric benchmark quartiles.
	TablesPath string `yaml:"tables_path"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			RateLimitRPS:    5,
			RateLimitBurst:  10,
			CacheTTLMinutes: 15,
		},
		LLM: LLMConfig{
			Model:          "llama-3.1-8b-instant",
			Temperatures:   []float32{0.1, 0.3, 0.0},
			TimeoutSeconds: 30,
			RequestsPerMin: 60,
		},
		Scoring: DefaultScoringParams(),
	}
}

// Load reads configuration from path (optional) and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL_NAME"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.LLM.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("TABLES_PATH"); v != "" {
		c.TablesPath = v
	}
}

// Timeout returns the per-invocation LLM deadline.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the analysis cache TTL.
func (c *ServerConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
