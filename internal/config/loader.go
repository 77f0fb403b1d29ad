// Package config provides configuration loading, defaults, and validation
// for the LexAtlas platform.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "LEXATLAS"

// newViper builds a pre-configured Viper instance: YAML file type,
// LEXATLAS_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so that nested keys like "database.host" resolve to
// "LEXATLAS_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindDefaults(v)
	return v
}

// bindDefaults registers every configuration key with viper.  Env-only keys
// are invisible to Unmarshal unless viper knows them, so each key is seeded
// with its platform default (the config file and env overrides still win).
func bindDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("database.host", DefaultDBHost)
	v.SetDefault("database.port", DefaultDBPort)
	v.SetDefault("database.user", "lexatlas")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", DefaultDBName)
	v.SetDefault("database.ssl_mode", DefaultDBSSLMode)
	v.SetDefault("database.max_conns", DefaultDBMaxConns)
	v.SetDefault("database.migration_path", "file://migrations")

	v.SetDefault("neo4j.uri", DefaultNeo4jURI)
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", DefaultNeo4jDatabase)

	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", DefaultRedisKeyPrefix)
	v.SetDefault("redis.default_ttl", DefaultRedisTTL)

	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)
	v.SetDefault("kafka.auto_offset_reset", "earliest")

	v.SetDefault("opensearch.addresses", []string{DefaultOpenSearchAddr})
	v.SetDefault("opensearch.index_prefix", DefaultOpenSearchPrefix)

	v.SetDefault("milvus.addr", DefaultMilvusAddr)
	v.SetDefault("milvus.embedding_dim", DefaultMilvusEmbeddingDim)
	v.SetDefault("milvus.default_top_k", DefaultMilvusTopK)
	v.SetDefault("milvus.collection_prefix", DefaultMilvusPrefix)
	v.SetDefault("milvus.index_type", "HNSW")

	v.SetDefault("minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", DefaultMinIOBucket)

	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.embed_model", DefaultLLMEmbedModel)
	v.SetDefault("llm.retrieval_k", DefaultLLMRetrievalK)

	v.SetDefault("worker.concurrency", DefaultWorkerConcurrency)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("analysis.max_document_bytes", DefaultMaxDocumentBytes)
	v.SetDefault("analysis.max_diff_lines", DefaultMaxDiffLines)
	v.SetDefault("analysis.chunk_size", DefaultChunkSize)
	v.SetDefault("analysis.chunk_overlap", DefaultChunkOverlap)
	v.SetDefault("analysis.cache_ttl", DefaultAnalysisCacheTTL)
}

// Load reads the YAML file at configPath, merges any LEXATLAS_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from LEXATLAS_* environment
// variables, with no config file required.  Preferred for containerised
// deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified.  Intended for hot-reloading
// non-critical settings such as log level; callers are responsible for
// applying only the safe subset at runtime.  If a changed file fails to
// parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; errors are surfaced by Load, not here.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad panics on any load error.  For use in main() where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
