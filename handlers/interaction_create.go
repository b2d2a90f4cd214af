package handlers

import (
	"github.com/bwmarrin/discordgo"

	"mission-bot/bot"
)

// InteractionCreate handles slash command interactions.
func InteractionCreate(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		switch i.ApplicationCommandData().Name {
		case "mission":
			HandleMission(b, s, i)
		case "sweep":
			HandleSweep(b, s, i)
		case "template":
			HandleTemplate(b, s, i)
		case "ping":
			HandlePing(s, i)
		}
	}
}
