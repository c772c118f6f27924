package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/streamsmart/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8000,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	gracePeriod = configVar[int]{
		envKey:       "SERVER_GRACE_PERIOD",
		flagKey:      "grace-period",
		defaultValue: 10,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	dbPath = configVar[string]{
		envKey:       "SERVER_DB_PATH",
		flagKey:      "db-path",
		defaultValue: "streamsmart.db",
	}
	audioDir = configVar[string]{
		envKey:       "SERVER_AUDIO_DIR",
		flagKey:      "audio-dir",
		defaultValue: "audio",
	}
	openaiBaseURL = configVar[string]{
		envKey:       "OPENAI_BASE_URL",
		flagKey:      "openai-base-url",
		defaultValue: "https://api.openai.com/v1",
	}
	openaiAPIKey = configVar[string]{
		envKey:       "OPENAI_API_KEY",
		flagKey:      "openai-api-key",
		defaultValue: "",
	}
	transcribeModel = configVar[string]{
		envKey:       "OPENAI_TRANSCRIBE_MODEL",
		flagKey:      "transcribe-model",
		defaultValue: "gpt-4o-transcribe",
	}
	chatModel = configVar[string]{
		envKey:       "OPENAI_CHAT_MODEL",
		flagKey:      "chat-model",
		defaultValue: "gpt-4o-mini",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(gracePeriod.flagKey, gracePeriod.defaultValue, "Seconds a room survives a host disconnect")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.String(dbPath.flagKey, dbPath.defaultValue, "Path to the sqlite database file")
	pflag.String(audioDir.flagKey, audioDir.defaultValue, "Directory for downloaded audio files")
	pflag.String(openaiBaseURL.flagKey, openaiBaseURL.defaultValue, "OpenAI-compatible API base url")
	pflag.String(openaiAPIKey.flagKey, openaiAPIKey.defaultValue, "OpenAI API key")
	pflag.String(transcribeModel.flagKey, transcribeModel.defaultValue, "Transcription model")
	pflag.String(chatModel.flagKey, chatModel.defaultValue, "Chat model for analysis")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(gracePeriod.flagKey, gracePeriod.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(dbPath.flagKey, dbPath.envKey)
	viper.BindEnv(audioDir.flagKey, audioDir.envKey)
	viper.BindEnv(openaiBaseURL.flagKey, openaiBaseURL.envKey)
	viper.BindEnv(openaiAPIKey.flagKey, openaiAPIKey.envKey)
	viper.BindEnv(transcribeModel.flagKey, transcribeModel.envKey)
	viper.BindEnv(chatModel.flagKey, chatModel.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(gracePeriod.flagKey, gracePeriod.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)
	viper.SetDefault(dbPath.flagKey, dbPath.defaultValue)
	viper.SetDefault(audioDir.flagKey, audioDir.defaultValue)
	viper.SetDefault(openaiBaseURL.flagKey, openaiBaseURL.defaultValue)
	viper.SetDefault(openaiAPIKey.flagKey, openaiAPIKey.defaultValue)
	viper.SetDefault(transcribeModel.flagKey, transcribeModel.defaultValue)
	viper.SetDefault(chatModel.flagKey, chatModel.defaultValue)

	config := &app.AppConfig{
		Host:            viper.GetString(host.flagKey),
		Port:            viper.GetInt(port.flagKey),
		LogLevel:        viper.GetString(logLevel.flagKey),
		GracePeriodSec:  viper.GetInt(gracePeriod.flagKey),
		RedisPort:       viper.GetInt(redisPort.flagKey),
		RedisHost:       viper.GetString(redisHost.flagKey),
		RedisPassword:   viper.GetString(redisPassword.flagKey),
		DBPath:          viper.GetString(dbPath.flagKey),
		AudioDir:        viper.GetString(audioDir.flagKey),
		OpenAIBaseURL:   viper.GetString(openaiBaseURL.flagKey),
		OpenAIAPIKey:    viper.GetString(openaiAPIKey.flagKey),
		TranscribeModel: viper.GetString(transcribeModel.flagKey),
		ChatModel:       viper.GetString(chatModel.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
