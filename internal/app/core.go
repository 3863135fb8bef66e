// Package app wires the constraint-aware engineer recommender's core
// components (C1-C11) from configuration. Both server entry points
// (cmd/server's HTTP surface and cmd/mcpserver's MCP surface) build on the
// same Core so the two transports never drift in behavior.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"unified-thinking/internal/advisor"
	"unified-thinking/internal/config"
	"unified-thinking/internal/expander"
	"unified-thinking/internal/graphdb"
	"unified-thinking/internal/inference"
	"unified-thinking/internal/llm"
	"unified-thinking/internal/logging"
	"unified-thinking/internal/querybuilder"
	"unified-thinking/internal/resolver"
	"unified-thinking/internal/search"
	"unified-thinking/internal/similarity"
)

// Core holds every wired component short of a transport. Extracted so it can
// be built once and handed to either the HTTP server or the MCP server.
type Core struct {
	Config     *config.Config
	Logger     *zap.Logger
	Graph      *graphdb.Client
	Inference  *inference.Engine
	Expander   *expander.Expander
	Advisor    *advisor.Advisor
	Search     *search.Service
	Similarity *similarity.Engine
}

// Build wires config, the graph driver, the rule engine, and every C1-C11
// component. It never starts a transport.
func Build() (*Core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	graph, err := graphdb.NewClient(cfg.Graph)
	if err != nil {
		logger.Error("failed to connect to graph database", zap.Error(err))
		return nil, err
	}
	logger.Info("connected to graph database", zap.String("uri", cfg.Graph.URI))

	rules := inference.DefaultRuleSet()
	if cfg.Inference.RuleSetPath != "" {
		loaded, err := inference.LoadRuleSet(cfg.Inference.RuleSetPath)
		if err != nil {
			logger.Warn("failed to load rule set file, falling back to built-in rules", zap.String("path", cfg.Inference.RuleSetPath), zap.Error(err))
		} else {
			rules = loaded
			logger.Info("loaded inference rule set", zap.String("path", cfg.Inference.RuleSetPath), zap.Int("rules", len(rules)))
		}
	}
	engine := inference.NewEngine(rules, cfg.Inference.MaxIterations)

	exp := expander.New(cfg, engine)

	skillGraph := resolver.NewNeo4jSkillGraph(graph)
	businessGraph := resolver.NewNeo4jDomainGraph(graph, "BusinessDomain")
	technicalGraph := resolver.NewNeo4jDomainGraph(graph, "TechnicalDomain")

	skillResolver := resolver.NewSkillResolver(skillGraph)
	businessResolver := resolver.NewDomainResolver(businessGraph)
	technicalResolver := resolver.NewDomainResolver(technicalGraph)

	builder := querybuilder.New()

	llmClient := buildLLMClient(cfg.LLM, logger)

	adv := advisor.New(graph, builder, cfg.Advisor, cfg.Seniority, llmClient)

	searchService := search.NewService(cfg, graph, exp, skillResolver, businessResolver, technicalResolver, adv)

	graphCache := similarity.NewGraphCache(
		similarity.NewNeo4jSkillGraph(graph),
		similarity.NewNeo4jDomainGraph(graph, "BusinessDomain"),
		similarity.NewNeo4jDomainGraph(graph, "TechnicalDomain"),
		cfg.Similarity.CorrelationThreshold,
	)
	profileReader := similarity.NewCachedProfileReader(similarity.NewNeo4jProfileReader(graph), cfg.Performance.CacheSize)
	simEngine := similarity.New(graphCache, profileReader, cfg.Similarity)

	return &Core{
		Config:     cfg,
		Logger:     logger,
		Graph:      graph,
		Inference:  engine,
		Expander:   exp,
		Advisor:    adv,
		Search:     searchService,
		Similarity: simEngine,
	}, nil
}

// buildLLMClient returns a no-op client when the LLM is disabled or no API
// key is configured; an unavailable LLM never fails the advisor.
func buildLLMClient(cfg config.LLMConfig, logger *zap.Logger) llm.Client {
	if !cfg.Enabled || cfg.APIKey == "" {
		logger.Info("LLM-assisted explanations disabled (no API key configured)")
		return llm.Unavailable{}
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		logger.Warn("failed to create genai client, falling back to no-op LLM", zap.Error(err))
		return llm.Unavailable{}
	}

	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	logger.Info("LLM-assisted explanations enabled", zap.String("model", cfg.Model))
	return llm.NewGenAIClient(client, cfg.Model, timeout)
}

// Close releases every resource Build opened.
func (c *Core) Close() error {
	if c.Graph != nil {
		return c.Graph.Close(context.Background())
	}
	return nil
}
