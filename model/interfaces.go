package model

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"community-bot/cache"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
	GetCache() *cache.Cache
}
