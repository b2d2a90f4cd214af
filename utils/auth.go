package utils

import (
	"mission-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.CommandsConfig
}

// NewAuth creates a new Auth instance with the loaded configuration.
func NewAuth() (*Auth, error) {
	var commandsConfig models.CommandsConfig
	if err := viper.UnmarshalKey("commands", &commandsConfig); err != nil {
		return nil, err
	}
	return &Auth{config: commandsConfig}, nil
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	for _, devID := range a.config.Auth.Developers {
		if userID == devID {
			return true
		}
	}
	return false
}

// IsAdmin checks if a member holds an admin role.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	return hasAnyRole(member, a.config.Auth.AdminRoles)
}

// IsJudge checks if a member holds at least one configured judge role.
// Only judges may have their score reactions recorded as votes.
func (a *Auth) IsJudge(member *discordgo.Member) bool {
	return hasAnyRole(member, a.config.Auth.JudgeRoles)
}

func hasAnyRole(member *discordgo.Member, roles []string) bool {
	if member == nil {
		return false
	}
	for _, want := range roles {
		for _, have := range member.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// CheckPermission checks if the interaction's member has the required
// permission level.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate, requiredLevel string) bool {
	if i.Member == nil {
		return false
	}
	switch requiredLevel {
	case "developer":
		return a.IsDeveloper(i.Member.User.ID)
	case "admin":
		return a.IsDeveloper(i.Member.User.ID) || a.IsAdmin(i.Member)
	case "judge":
		return a.IsDeveloper(i.Member.User.ID) || a.IsAdmin(i.Member) || a.IsJudge(i.Member)
	case "guest":
		return true
	default:
		return false
	}
}
