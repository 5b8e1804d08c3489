package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-wide configuration. It is constructed once
// at startup, passed explicitly to the components that need it, and
// read-only afterwards.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Telegram TelegramConfig
	Upload   UploadConfig
	Quiz     QuizConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
	Timeout     time.Duration
}

type UploadConfig struct {
	Dir          string
	MaxFileSize  int64
	MaxTextChars int
}

type QuizConfig struct {
	MaxQuestions int
	StoreTTL     time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.timeout", 30)
	viper.SetDefault("telegram.timeout", 30)
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("upload.max_file_size", 16*1024*1024)
	viper.SetDefault("upload.max_text_chars", 60000)
	viper.SetDefault("quiz.max_questions", 20)
	viper.SetDefault("quiz.store_ttl_hours", 24)

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; defaults and env vars cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			APIKey:  viper.GetString("llm.api_key"),
			Model:   viper.GetString("llm.model"),
			Timeout: viper.GetDuration("llm.timeout") * time.Second,
		},
		Telegram: TelegramConfig{
			BotToken:    viper.GetString("telegram.bot_token"),
			AdminChatID: viper.GetInt64("telegram.admin_chat_id"),
			Timeout:     viper.GetDuration("telegram.timeout") * time.Second,
		},
		Upload: UploadConfig{
			Dir:          viper.GetString("upload.dir"),
			MaxFileSize:  viper.GetInt64("upload.max_file_size"),
			MaxTextChars: viper.GetInt("upload.max_text_chars"),
		},
		Quiz: QuizConfig{
			MaxQuestions: viper.GetInt("quiz.max_questions"),
			StoreTTL:     viper.GetDuration("quiz.store_ttl_hours") * time.Hour,
		},
	}

	// Override with environment variables if set
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.BotToken = token
	}
	if chatID := os.Getenv("ADMIN_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			config.Telegram.AdminChatID = id
		}
	}

	return config, nil
}
