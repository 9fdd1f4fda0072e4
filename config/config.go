package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Kafka     KafkaConfig
	Ingest    IngestConfig
	Pipeline  PipelineConfig
	FileState FileStateConfig
}

type ServerConfig struct {
	Port string
}

type KafkaConfig struct {
	Brokers       []string
	RawLogTopic   string
	ResultTopic   string
	ConsumerGroup string
}

type IngestConfig struct {
	LogDirectory string // Root directory scanned for *.log files
	Schedule     string
	BatchSize    int
	MaxBatchWait time.Duration
}

type PipelineConfig struct {
	DefaultChain   string
	DisabledChains []string
}

type FileStateConfig struct {
	FilePath string
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_RAW_LOG_TOPIC", "raw_logs")
	viper.SetDefault("KAFKA_RESULT_TOPIC", "parsed_logs")
	viper.SetDefault("KAFKA_CONSUMER_GROUP", "log_parser_group")
	viper.SetDefault("INGEST_LOG_DIRECTORY", "./logs")
	viper.SetDefault("INGEST_SCHEDULE", "*/300 * * * * *") // Every 300 seconds
	viper.SetDefault("INGEST_BATCH_SIZE", 100)
	viper.SetDefault("INGEST_MAX_BATCH_WAIT", "5s")
	viper.SetDefault("PIPELINE_DEFAULT_CHAIN", "generic")
	viper.SetDefault("PIPELINE_DISABLED_CHAINS", "")
	viper.SetDefault("FILE_STATE_PATH", "./log_state.json")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	// --- Kafka ---
	kafkaBrokers := viper.GetString("KAFKA_BROKERS")
	config.Kafka.Brokers = strings.Split(kafkaBrokers, ",")
	config.Kafka.RawLogTopic = viper.GetString("KAFKA_RAW_LOG_TOPIC")
	config.Kafka.ResultTopic = viper.GetString("KAFKA_RESULT_TOPIC")
	config.Kafka.ConsumerGroup = viper.GetString("KAFKA_CONSUMER_GROUP")

	// --- Ingest ---
	config.Ingest.LogDirectory = viper.GetString("INGEST_LOG_DIRECTORY")
	config.Ingest.Schedule = viper.GetString("INGEST_SCHEDULE")
	config.Ingest.BatchSize = viper.GetInt("INGEST_BATCH_SIZE")
	config.Ingest.MaxBatchWait = viper.GetDuration("INGEST_MAX_BATCH_WAIT")

	// --- Pipeline ---
	config.Pipeline.DefaultChain = viper.GetString("PIPELINE_DEFAULT_CHAIN")
	if disabled := viper.GetString("PIPELINE_DISABLED_CHAINS"); disabled != "" {
		for _, name := range strings.Split(disabled, ",") {
			if name = strings.TrimSpace(name); name != "" {
				config.Pipeline.DisabledChains = append(config.Pipeline.DisabledChains, name)
			}
		}
	}

	// --- File State ---
	config.FileState.FilePath = viper.GetString("FILE_STATE_PATH")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
