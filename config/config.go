package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"community-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const serverConfigFile = "data/config.json"

// Load reads the configuration from environment variables and the per-guild
// JSON config file.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("db_path", "data/community.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("daily_reward", 200)

	token := v.GetString("bot_token")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}
	appID := v.GetString("app_id")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}
	if v.GetString("log_channel_id") == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	var developerIDs []string
	if raw := v.GetString("developer_user_ids"); raw != "" {
		developerIDs = strings.Split(raw, ",")
	}

	cfg := &model.Config{
		BotToken:         token,
		AppID:            appID,
		LogChannelID:     v.GetString("log_channel_id"),
		DeveloperUserIDs: developerIDs,
		DBPath:           v.GetString("db_path"),
		RedisAddr:        v.GetString("redis_addr"),
		RedisPassword:    v.GetString("redis_password"),
		RedisDB:          v.GetInt("redis_db"),
		DailyReward:      v.GetInt64("daily_reward"),
		ServerConfigs:    make(map[string]model.ServerConfig),
	}

	servers, err := loadServerConfigs()
	if err != nil {
		return nil, err
	}
	for _, serverCfg := range servers {
		cfg.ServerConfigs[serverCfg.GuildID] = serverCfg
	}

	return cfg, nil
}

func loadServerConfigs() ([]model.ServerConfig, error) {
	if _, err := os.Stat(serverConfigFile); os.IsNotExist(err) {
		log.Printf("Warning: Config file not found at %s, skipping.", serverConfigFile)
		return nil, nil
	}

	sv := viper.New()
	sv.SetConfigFile(serverConfigFile)
	sv.SetConfigType("json")
	if err := sv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", serverConfigFile, err)
	}

	var servers []model.ServerConfig
	if err := sv.UnmarshalKey("servers", &servers); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", serverConfigFile, err)
	}
	return servers, nil
}
