package appconfig

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	MongoURI         string `env:"MONGO-URI" ini:"mongo_uri"`
	RedisAddr        string `env:"REDIS-ADDR" ini:"redis_addr"`
	TemporalHostPort string `env:"TEMPORAL-HOST-PORT" ini:"temporal_host_port"`
	TemporalTaskQue  string `env:"TEMPORAL-TASK-QUEUE" ini:"temporal_task_queue"`

	HTTPPort string `env:"HTTP-PORT" ini:"http_port"`

	// Tutoring session parameters.
	QuestionsPerSession int `ini:"questions_per_session"`
	TurnWindowSize      int `ini:"turn_window_size"`
	BatchCacheTTLMins   int `ini:"batch_cache_ttl_mins"`

	// Model routing. Classification runs on the cheap model, everything
	// else on the default generation model.
	GenerationModel string `ini:"generation_model"`
	ClassifierModel string `ini:"classifier_model"`

	// Hard timeout (seconds) applied to every generation/retrieval call.
	ExternalCallTimeoutSecs int `ini:"external_call_timeout_secs"`
}

func (c *AppConfig) Questions() int {
	if c.QuestionsPerSession <= 0 {
		return 10
	}
	return c.QuestionsPerSession
}

func (c *AppConfig) TurnWindow() int {
	if c.TurnWindowSize <= 0 {
		return 6
	}
	return c.TurnWindowSize
}

func (c *AppConfig) CallTimeout() time.Duration {
	if c.ExternalCallTimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ExternalCallTimeoutSecs) * time.Second
}

func (c *AppConfig) BatchCacheTTL() time.Duration {
	if c.BatchCacheTTLMins <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.BatchCacheTTLMins) * time.Minute
}
