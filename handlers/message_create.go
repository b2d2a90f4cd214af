package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"mission-bot/bot"
	"mission-bot/mission"
	"mission-bot/models"
	"mission-bot/utils"
)

// MessageCreate watches mission threads for URL-bearing messages and turns
// them into submissions, seeding the score reactions on each.
func MessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore bot accounts, including ourselves.
		if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
			return
		}

		guildCfg, ok := b.Missions[m.GuildID]
		if !ok {
			return
		}

		ch, err := channel(s, m.ChannelID)
		if err != nil {
			log.Printf("Failed to resolve channel %s: %v", m.ChannelID, err)
			return
		}
		// Submissions only count inside threads under the mission channel.
		if !ch.IsThread() || ch.ParentID != guildCfg.MissionChannelID {
			return
		}

		urls := utils.ExtractURLs(m.Content)
		if len(urls) == 0 {
			return
		}

		sub, err := b.Tracker.Track(mission.Candidate{
			ThreadID:   m.ChannelID,
			ThreadName: ch.Name,
			ChannelID:  ch.ParentID,
			MessageID:  m.ID,
			AuthorID:   m.Author.ID,
			AuthorTag:  m.Author.Username,
			Content:    m.Content,
			URLs:       urls,
			Origin:     models.OriginDiscord,
		})
		if err != nil {
			utils.Error("tracker", "track", fmt.Sprintf("message %s: %v", m.ID, err))
			return
		}

		// Seed the voting surface so judges only ever click one of the five
		// bounded score options.
		for _, emoji := range ScoreEmojis {
			if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
				log.Printf("Failed to seed reaction %s on %s: %v", emoji, m.ID, err)
			}
		}
		log.Printf("Recorded submission %s by %s in thread %s", sub.ID, m.Author.Username, ch.Name)
	}
}

// channel resolves a channel from the session state, falling back to the
// API when the state has not seen it yet.
func channel(s *discordgo.Session, id string) (*discordgo.Channel, error) {
	if ch, err := s.State.Channel(id); err == nil {
		return ch, nil
	}
	return s.Channel(id)
}
