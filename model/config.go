package model

// ServerConfig holds the per-guild configuration.
type ServerConfig struct {
	Name             string   `json:"name" mapstructure:"name"`
	GuildID          string   `json:"guild_id" mapstructure:"guild_id"`
	Enable           bool     `json:"enable" mapstructure:"enable"`
	AdminRoleIDs     []string `json:"admin_role_ids" mapstructure:"admin_role_ids"`
	LogChannelID     string   `json:"log_channel_id" mapstructure:"log_channel_id"`
	WelcomeChannelID string   `json:"welcome_channel_id" mapstructure:"welcome_channel_id"`
	WelcomeMessage   string   `json:"welcome_message" mapstructure:"welcome_message"`
	LeaveMessage     string   `json:"leave_message" mapstructure:"leave_message"`
}

// Config stores the application configuration.
type Config struct {
	BotToken         string
	AppID            string
	LogChannelID     string
	DeveloperUserIDs []string
	DBPath           string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	DailyReward      int64
	ServerConfigs    map[string]ServerConfig
}
