// Package config provides process-wide configuration for the engineer
// recommender: utility weights, the seniority year table, team-focus skill
// alignments, inference and advisor thresholds, and graph/logging settings.
//
// Configuration can be loaded from multiple sources (in order of precedence):
// 1. Environment variables (highest priority)
// 2. Configuration file (JSON; the YAML rule set named by
//    Inference.RuleSetPath is parsed by the inference package, not here)
// 3. Default values (lowest priority)
//
// The loaded Config is immutable process-wide state: construct it once at
// startup and share it read-only across requests.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"unified-thinking/internal/types"
)

// Config represents the complete server configuration.
type Config struct {
	Server      ServerConfig      `json:"server"`
	Graph       GraphConfig       `json:"graph"`
	Weights     WeightsConfig     `json:"weights"`
	Seniority   SeniorityConfig   `json:"seniority"`
	TeamFocus   TeamFocusConfig   `json:"teamFocus"`
	Inference   InferenceConfig   `json:"inference"`
	Advisor     AdvisorConfig     `json:"advisor"`
	Similarity  SimilarityConfig  `json:"similarity"`
	Critique    CritiqueConfig    `json:"critique"`
	Performance PerformanceConfig `json:"performance"`
	Logging     LoggingConfig     `json:"logging"`
	LLM         LLMConfig         `json:"llm"`
}

// ServerConfig contains server-level configuration.
type ServerConfig struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	HTTPAddr    string `json:"httpAddr"`
}

// GraphConfig contains the Neo4j connection configuration.
type GraphConfig struct {
	URI      string `json:"uri"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	TimeoutMs int   `json:"timeoutMs"`
}

// WeightsConfig holds the per-attribute weights and normalisation ceilings
// consumed by the utility calculator (C7). Every w_j/max_j the
// function bank references lives here so scoring is reproducible given only
// this struct and the expanded criteria.
type WeightsConfig struct {
	SkillMatchWeight              float64 `json:"skillMatchWeight"`
	ConfidenceWeight              float64 `json:"confidenceWeight"`
	ExperienceWeight              float64 `json:"experienceWeight"`
	PreferredSkillsWeight         float64 `json:"preferredSkillsWeight"`
	TeamFocusWeight               float64 `json:"teamFocusWeight"`
	RelatedSkillsWeight           float64 `json:"relatedSkillsWeight"`
	PreferredBusinessDomainWeight float64 `json:"preferredBusinessDomainWeight"`
	PreferredTechnicalDomainWeight float64 `json:"preferredTechnicalDomainWeight"`
	StartTimelineWeight           float64 `json:"startTimelineWeight"`
	PreferredTimezoneWeight       float64 `json:"preferredTimezoneWeight"`
	PreferredSeniorityWeight      float64 `json:"preferredSeniorityWeight"`
	BudgetWeight                  float64 `json:"budgetWeight"`

	ConfidenceMin float64 `json:"confidenceMin"`
	ConfidenceMax float64 `json:"confidenceMax"`
	MaxYearsExperience float64 `json:"maxYearsExperience"`

	ExpertProficiencyBonus     float64 `json:"expertProficiencyBonus"`
	ProficientProficiencyBonus float64 `json:"proficientProficiencyBonus"`

	RelatedSkillsMaxMatch float64 `json:"relatedSkillsMaxMatch"`
	PreferredSkillsMaxMatch float64 `json:"preferredSkillsMaxMatch"`
	TeamFocusMaxMatch       float64 `json:"teamFocusMaxMatch"`
	DomainMaxMatch          float64 `json:"domainMaxMatch"`
	TimezoneMaxMatch        float64 `json:"timezoneMaxMatch"`
	SeniorityMaxMatch       float64 `json:"seniorityMaxMatch"`
}

// SeniorityConfig is the fixed seniority -> year-range table.
type SeniorityConfig struct {
	Ranges map[types.SeniorityLevel]types.YearRange `json:"ranges"`
}

// TeamFocusConfig maps a team-focus enum value to an aligned skill id list.
type TeamFocusConfig struct {
	Alignments map[types.TeamFocus][]string `json:"alignments"`
}

// InferenceConfig controls the forward-chaining rule engine (C4).
type InferenceConfig struct {
	MaxIterations int    `json:"maxIterations"`
	RuleSetPath   string `json:"ruleSetPath"` // YAML file; empty = built-in defaults
}

// AdvisorConfig controls when and how the constraint advisor (C9) runs.
type AdvisorConfig struct {
	Threshold             int `json:"threshold"`             // totalCount below this triggers the advisor
	InsufficientThreshold int `json:"insufficientThreshold"` // MCS consistency cutoff
	MaxConflictSets       int `json:"maxConflictSets"`
	LLMExplanationEnabled bool `json:"llmExplanationEnabled"`
}

// SimilarityConfig controls the similarity engine (C10).
type SimilarityConfig struct {
	CorrelationThreshold float64 `json:"correlationThreshold"`
	SkillsWeight         float64 `json:"skillsWeight"`
	ExperienceWeight     float64 `json:"experienceWeight"`
	DomainWeight         float64 `json:"domainWeight"`
	TimezoneWeight       float64 `json:"timezoneWeight"`
	DiversityPenalty     float64 `json:"diversityPenalty"`
}

// CritiqueConfig controls the critique engine (C11): which 2-property axes it
// sweeps when generating refinement suggestions.
type CritiqueConfig struct {
	PropertyPairs []types.CritiquePropertyPair `json:"propertyPairs"`
	MaxSuggestions int                          `json:"maxSuggestions"`
}

// PerformanceConfig contains performance tuning options.
type PerformanceConfig struct {
	MaxConcurrentTraversals int `json:"maxConcurrentTraversals"`
	CacheSize               int `json:"cacheSize"`
}

// LoggingConfig contains logging configuration (consumed by internal/logging).
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// LLMConfig controls the optional advisor explanation LLM. APIKey is read
// from an environment variable, never from the JSON config file.
type LLMConfig struct {
	Enabled   bool          `json:"enabled"`
	Model     string        `json:"model"`
	TimeoutMs int           `json:"timeoutMs"`
	APIKey    string        `json:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:        "engineer-recommender",
			Version:     "1.0.0",
			Environment: "development",
			HTTPAddr:    ":8090",
		},
		Graph: GraphConfig{
			URI:       "bolt://localhost:7687",
			Username:  "neo4j",
			Password:  "password",
			Database:  "neo4j",
			TimeoutMs: 5000,
		},
		Weights: WeightsConfig{
			SkillMatchWeight:               0.20,
			ConfidenceWeight:               0.08,
			ExperienceWeight:               0.12,
			PreferredSkillsWeight:          0.10,
			TeamFocusWeight:                0.05,
			RelatedSkillsWeight:            0.05,
			PreferredBusinessDomainWeight:  0.07,
			PreferredTechnicalDomainWeight: 0.07,
			StartTimelineWeight:            0.08,
			PreferredTimezoneWeight:        0.06,
			PreferredSeniorityWeight:       0.06,
			BudgetWeight:                   0.06,

			ConfidenceMin:      0.3,
			ConfidenceMax:      1.0,
			MaxYearsExperience: 20,

			ExpertProficiencyBonus:     0.1,
			ProficientProficiencyBonus: 0.05,

			RelatedSkillsMaxMatch:   1.0,
			PreferredSkillsMaxMatch: 1.0,
			TeamFocusMaxMatch:       1.0,
			DomainMaxMatch:          1.0,
			TimezoneMaxMatch:        1.0,
			SeniorityMaxMatch:       1.0,
		},
		Seniority: SeniorityConfig{
			Ranges: map[types.SeniorityLevel]types.YearRange{
				types.SeniorityJunior:    {Min: 0, Max: 3},
				types.SeniorityMid:       {Min: 3, Max: 6},
				types.SenioritySenior:    {Min: 6, Max: 10},
				types.SeniorityStaff:     {Min: 10, Max: 15},
				types.SeniorityPrincipal: {Min: 15, Max: 0},
			},
		},
		TeamFocus: TeamFocusConfig{
			Alignments: map[types.TeamFocus][]string{
				"scaling":    {"skill_distributed", "skill_caching", "skill_loadbalancing"},
				"greenfield": {"skill_architecture", "skill_prototyping"},
				"migration":  {"skill_legacy", "skill_dataMigration"},
				"platform":   {"skill_infra", "skill_observability"},
			},
		},
		Inference: InferenceConfig{
			MaxIterations: 10,
			RuleSetPath:   "",
		},
		Advisor: AdvisorConfig{
			Threshold:             5,
			InsufficientThreshold: 3,
			MaxConflictSets:       5,
			LLMExplanationEnabled: true,
		},
		Similarity: SimilarityConfig{
			CorrelationThreshold: 0.7,
			SkillsWeight:         0.4,
			ExperienceWeight:     0.2,
			DomainWeight:         0.25,
			TimezoneWeight:       0.15,
			DiversityPenalty:     0.3,
		},
		Critique: CritiqueConfig{
			PropertyPairs: []types.CritiquePropertyPair{
				{PropertyA: "seniorityLevel", PropertyB: "requiredTimezone"},
				{PropertyA: "requiredSkills", PropertyB: "requiredTimezone"},
				{PropertyA: "requiredSkills", PropertyB: "seniorityLevel"},
			},
			MaxSuggestions: 10,
		},
		Performance: PerformanceConfig{
			MaxConcurrentTraversals: 8,
			CacheSize:               1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			Enabled:   false,
			Model:     "gemini-2.0-flash",
			TimeoutMs: 4000,
		},
	}
}

// Load loads configuration from environment variables applied over defaults.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file, then applies environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromEnv loads configuration from environment variables. Environment
// variables follow the pattern ENGREC_<SECTION>_<KEY>.
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("ENGREC_SERVER_NAME"); v != "" {
		c.Server.Name = v
	}
	if v := os.Getenv("ENGREC_SERVER_ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("ENGREC_HTTP_ADDR"); v != "" {
		c.Server.HTTPAddr = v
	}

	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Graph.URI = v
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" {
		c.Graph.Username = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Graph.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		c.Graph.Database = v
	}
	if v := os.Getenv("NEO4J_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Graph.TimeoutMs = n
		}
	}

	if v := os.Getenv("ENGREC_ADVISOR_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Advisor.Threshold = n
		}
	}
	if v := os.Getenv("ENGREC_ADVISOR_INSUFFICIENT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Advisor.InsufficientThreshold = n
		}
	}
	if v := os.Getenv("ENGREC_INFERENCE_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Inference.MaxIterations = n
		}
	}
	if v := os.Getenv("ENGREC_INFERENCE_RULESET_PATH"); v != "" {
		c.Inference.RuleSetPath = v
	}

	if v := os.Getenv("GENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
		c.LLM.Enabled = true
	}
	if v := os.Getenv("ENGREC_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv("ENGREC_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ENGREC_LOGGING_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server.name cannot be empty")
	}
	env := c.Server.Environment
	if env != "development" && env != "staging" && env != "production" {
		return fmt.Errorf("server.environment must be one of: development, staging, production")
	}
	if c.Graph.URI == "" {
		return fmt.Errorf("graph.uri cannot be empty")
	}
	if c.Inference.MaxIterations < 1 {
		return fmt.Errorf("inference.maxIterations must be >= 1")
	}
	if c.Advisor.Threshold < 0 {
		return fmt.Errorf("advisor.threshold cannot be negative")
	}
	if c.Advisor.InsufficientThreshold < 1 {
		return fmt.Errorf("advisor.insufficientThreshold must be >= 1")
	}
	if c.Advisor.MaxConflictSets < 1 {
		return fmt.Errorf("advisor.maxConflictSets must be >= 1")
	}
	if c.Similarity.CorrelationThreshold < 0 || c.Similarity.CorrelationThreshold > 1 {
		return fmt.Errorf("similarity.correlationThreshold must be within [0,1]")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	return nil
}

// ToJSON serializes the configuration to JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
