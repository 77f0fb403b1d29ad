package config

import "time"

// Default value constants.  Explicit configuration always wins; these only
// fill zero-value fields after unmarshalling.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "debug"
	DefaultShutdownTimeout = 15 * time.Second

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "lexatlas"
	DefaultDBSSLMode  = "disable"
	DefaultDBMaxConns = 25

	DefaultNeo4jURI      = "bolt://localhost:7687"
	DefaultNeo4jDatabase = "neo4j"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "lexatlas:"
	DefaultRedisTTL       = 10 * time.Minute

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "lexatlas-workers"

	DefaultMilvusAddr         = "localhost:19530"
	DefaultMilvusEmbeddingDim = 768
	DefaultMilvusTopK         = 5
	DefaultMilvusPrefix       = "lexatlas_"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "lexatlas-documents"

	DefaultOpenSearchAddr   = "http://localhost:9200"
	DefaultOpenSearchPrefix = "lexatlas-"

	DefaultLLMModel       = "llama3-70b-8192"
	DefaultLLMEmbedModel  = "nomic-embed-text"
	DefaultLLMTemperature = 0.2
	DefaultLLMMaxTokens   = 2048
	DefaultLLMTimeout     = 60 * time.Second
	DefaultLLMRetrievalK  = 5

	DefaultWorkerConcurrency = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMaxDocumentBytes = 2 << 20 // 2 MiB of text per document
	DefaultMaxDiffLines     = 200
	DefaultChunkSize        = 1000
	DefaultChunkOverlap     = 200
	DefaultAnalysisCacheTTL = 30 * time.Minute
)

// ApplyDefaults fills every zero-value field in cfg with the platform
// default.  Must be called after unmarshalling and before Validate so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "lexatlas"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "file://migrations"
	}

	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = DefaultNeo4jDatabase
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddr}
	}
	if cfg.OpenSearch.IndexPrefix == "" {
		cfg.OpenSearch.IndexPrefix = DefaultOpenSearchPrefix
	}

	if cfg.Milvus.Addr == "" {
		cfg.Milvus.Addr = DefaultMilvusAddr
	}
	if cfg.Milvus.EmbeddingDim == 0 {
		cfg.Milvus.EmbeddingDim = DefaultMilvusEmbeddingDim
	}
	if cfg.Milvus.DefaultTopK == 0 {
		cfg.Milvus.DefaultTopK = DefaultMilvusTopK
	}
	if cfg.Milvus.CollectionPrefix == "" {
		cfg.Milvus.CollectionPrefix = DefaultMilvusPrefix
	}
	if cfg.Milvus.IndexType == "" {
		cfg.Milvus.IndexType = "HNSW"
	}

	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultLLMModel
	}
	if cfg.LLM.EmbedModel == "" {
		cfg.LLM.EmbedModel = DefaultLLMEmbedModel
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = DefaultLLMTemperature
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = DefaultLLMMaxTokens
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = DefaultLLMTimeout
	}
	if cfg.LLM.RetrievalK == 0 {
		cfg.LLM.RetrievalK = DefaultLLMRetrievalK
	}

	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = 2 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Analysis.MaxDocumentBytes == 0 {
		cfg.Analysis.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if cfg.Analysis.MaxDiffLines == 0 {
		cfg.Analysis.MaxDiffLines = DefaultMaxDiffLines
	}
	if cfg.Analysis.ChunkSize == 0 {
		cfg.Analysis.ChunkSize = DefaultChunkSize
	}
	if cfg.Analysis.ChunkOverlap == 0 {
		cfg.Analysis.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.Analysis.CacheTTL == 0 {
		cfg.Analysis.CacheTTL = DefaultAnalysisCacheTTL
	}
}
