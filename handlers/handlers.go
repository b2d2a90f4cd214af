package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"mission-bot/bot"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(MessageCreate(b))
	b.Session.AddHandler(ReactionAdd(b))
	b.Session.AddHandler(ReactionRemove(b))

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
}
