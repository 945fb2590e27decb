package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/personality"
)

// DefaultKnowledgeURLs are the InfinitePay pages indexed by the knowledge responder.
var DefaultKnowledgeURLs = []string{
	"https://www.infinitepay.io",
	"https://www.infinitepay.io/maquininha",
	"https://www.infinitepay.io/maquininha-celular",
	"https://www.infinitepay.io/tap-to-pay",
	"https://www.infinitepay.io/pdv",
	"https://www.infinitepay.io/receba-na-hora",
	"https://www.infinitepay.io/gestao-de-cobranca-2",
	"https://www.infinitepay.io/gestao-de-cobranca",
	"https://www.infinitepay.io/link-de-pagamento",
	"https://www.infinitepay.io/loja-online",
	"https://www.infinitepay.io/boleto",
	"https://www.infinitepay.io/conta-digital",
	"https://www.infinitepay.io/conta-pj",
	"https://www.infinitepay.io/pix",
	"https://www.infinitepay.io/pix-parcelado",
	"https://www.infinitepay.io/emprestimo",
	"https://www.infinitepay.io/cartao",
	"https://www.infinitepay.io/rendimento",
}

// Config aggregates every setting of the service.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Swarm     SwarmConfig
	Knowledge KnowledgeConfig
	AI        AIConfig
	Embedding EmbeddingConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	swarm, err := loadSwarmConfig()
	if err != nil {
		return nil, err
	}

	knowledge, err := loadKnowledgeConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	embedding, err := loadEmbeddingConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Log:       logCfg,
		Swarm:     swarm,
		Knowledge: knowledge,
		AI:        ai,
		Embedding: embedding,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are used as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level  zerolog.Level
	Pretty bool
}

func loadLogConfig() (LogConfig, error) {
	raw := getEnvOrDefault("LOG_LEVEL", "info")
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q: %w", raw, err)
	}

	pretty, err := parseBoolEnv("LOG_PRETTY", false)
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{Level: level, Pretty: pretty}, nil
}

// SwarmConfig holds agent wiring options.
type SwarmConfig struct {
	Personality        personality.Style
	PersonalityEnabled bool
	// Seed makes synthetic accounts and personality decoration reproducible when set.
	Seed *int64
}

func loadSwarmConfig() (SwarmConfig, error) {
	raw := getEnvOrDefault("PERSONALITY_TYPE", string(personality.DefaultStyle))
	style, ok := personality.ParseStyle(strings.ToLower(raw))
	if !ok {
		return SwarmConfig{}, fmt.Errorf("invalid PERSONALITY_TYPE value %q (available: %s)", raw, strings.Join(personality.Names(), ", "))
	}

	enabled, err := parseBoolEnv("PERSONALITY_ENABLED", true)
	if err != nil {
		return SwarmConfig{}, err
	}

	seed, err := parseOptionalInt64Env("RANDOM_SEED")
	if err != nil {
		return SwarmConfig{}, err
	}

	return SwarmConfig{Personality: style, PersonalityEnabled: enabled, Seed: seed}, nil
}

// KnowledgeConfig describes how the retrieval index is built and queried.
type KnowledgeConfig struct {
	URLs             []string
	ChunkSize        int
	ChunkOverlap     int
	TopK             int
	FetchConcurrency int
}

func loadKnowledgeConfig() (KnowledgeConfig, error) {
	cfg := KnowledgeConfig{
		URLs:             parseListEnv("KNOWLEDGE_URLS", DefaultKnowledgeURLs),
		ChunkSize:        1000,
		ChunkOverlap:     200,
		TopK:             4,
		FetchConcurrency: 4,
	}

	overrides := []struct {
		key string
		dst *int
		min int
	}{
		{"KNOWLEDGE_CHUNK_SIZE", &cfg.ChunkSize, 1},
		{"KNOWLEDGE_CHUNK_OVERLAP", &cfg.ChunkOverlap, 0},
		{"KNOWLEDGE_TOP_K", &cfg.TopK, 1},
		{"KNOWLEDGE_FETCH_CONCURRENCY", &cfg.FetchConcurrency, 1},
	}
	for _, o := range overrides {
		val, err := parseOptionalIntEnv(o.key)
		if err != nil {
			return KnowledgeConfig{}, err
		}
		if val == nil {
			continue
		}
		if *val < o.min {
			return KnowledgeConfig{}, fmt.Errorf("invalid %s value %d: must be >= %d", o.key, *val, o.min)
		}
		*o.dst = *val
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return KnowledgeConfig{}, fmt.Errorf("KNOWLEDGE_CHUNK_OVERLAP (%d) must be smaller than KNOWLEDGE_CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

// AIConfig describes the generation model used by the retrieval chain.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("missing Ark credentials or model: set ARK_API_KEY + Model or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	})
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		zero := 0.0
		temperature = &zero
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// EmbeddingConfig describes the OpenAI-compatible embedding endpoint.
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// Enabled reports whether an API key was provided.
func (c EmbeddingConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

func loadEmbeddingConfig() (EmbeddingConfig, error) {
	dims := 1536
	if override, err := parseOptionalIntEnv("EMBEDDING_DIMENSIONS"); err != nil {
		return EmbeddingConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return EmbeddingConfig{}, fmt.Errorf("invalid EMBEDDING_DIMENSIONS value %d", *override)
		}
		dims = *override
	}

	return EmbeddingConfig{
		APIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:    getEnvOrDefault("OPENAI_BASE_URL", ""),
		Model:      getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		Dimensions: dims,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return append([]string(nil), defaultValue...)
	}

	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalInt64Env(key string) (*int64, error) {
	value, ok := lookupTrimmed(key)
	if !ok {
		return nil, nil
	}

	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func lookupTrimmed(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(raw)
	return value, value != ""
}
