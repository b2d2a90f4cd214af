package command

import "github.com/bwmarrin/discordgo"

// MissionCommand defines the structure for the /mission command.
type MissionCommand struct{}

// Definition returns the application command definition.
func (c *MissionCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "mission",
		Description: "Manage submission missions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "create",
				Description: "Open a mission in the current thread",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "title",
						Description: "Mission title (defaults to the thread name)",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    false,
					},
					{
						Name:        "hours",
						Description: "Hours until the deadline (default 168)",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Required:    false,
					},
					{
						Name:        "brief",
						Description: "Short brief shown in the announcement",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    false,
					},
				},
			},
			{
				Name:        "status",
				Description: "Show the mission for the current thread",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "list",
				Description: "List all missions",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// SweepCommand defines the structure for the /sweep command.
type SweepCommand struct{}

// Definition returns the application command definition.
func (c *SweepCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "sweep",
		Description: "Manually trigger a deadline sweep",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "retry_mission",
				Description: "Re-run export for a closed mission (mission id)",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    false,
			},
		},
	}
}

// TemplateCommand defines the structure for the /template command.
type TemplateCommand struct{}

// Definition returns the application command definition.
func (c *TemplateCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "template",
		Description: "Manage announcement templates",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "set",
				Description: "Create or replace a template",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "name",
						Description: "Template name (recap, results, announcement_closed)",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
					{
						Name:        "body",
						Description: "Template body; placeholders like {{title}} are substituted",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
				},
			},
			{
				Name:        "list",
				Description: "List stored templates",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}
