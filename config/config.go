package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"mission-bot/models"
)

// LoadConfig loads configuration from multiple sources in order:
// 1. .env file (environment variables)
// 2. config.yaml (base configuration)
// 3. config/missions_config.json (per-guild mission wiring, merged in)
// Environment variables override file settings of the same name.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No base config file (config.yaml) found, using environment variables and merged configs only.")
		} else {
			panic(fmt.Errorf("fatal error reading base config file: %w", err))
		}
	}

	viper.SetConfigName("missions_config")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No missions config file (config/missions_config.json) found, skipping merge.")
		} else {
			panic(fmt.Errorf("fatal error merging missions config file: %w", err))
		}
	}
}

// Missions decodes the per-guild mission configuration. Keys under
// "missions" are guild snowflakes; anything else is skipped.
func Missions() models.MissionsConfig {
	raw := viper.GetStringMap("missions")
	cfg := make(models.MissionsConfig)

	for key, value := range raw {
		if _, err := strconv.ParseUint(key, 10, 64); err != nil {
			continue // Skip keys that are not snowflakes
		}
		var guildConf models.GuildMissionConfig
		if err := mapstructure.Decode(value, &guildConf); err != nil {
			log.Printf("Could not decode mission config for guild %s: %v", key, err)
			continue
		}
		cfg[key] = guildConf
	}
	return cfg
}
