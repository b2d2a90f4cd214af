package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"mission-bot/bot"
	"mission-bot/store"
	"mission-bot/utils"
)

// ScoreEmojis are the five keycap reactions, in score order. They are the
// entire voting surface; no other emoji carries a score.
var ScoreEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣"}

// scoreForEmoji maps a reaction emoji to its score. ok is false for
// non-score emojis.
func scoreForEmoji(name string) (int, bool) {
	for i, e := range ScoreEmojis {
		if e == name {
			return i + 1, true
		}
	}
	return 0, false
}

// ReactionAdd treats score reactions by judges as vote assertions.
// Reactions by non-judges are removed so the voting surface stays clean.
func ReactionAdd(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.UserID == s.State.User.ID {
			return
		}
		score, ok := scoreForEmoji(r.Emoji.Name)
		if !ok {
			return
		}

		sub, err := b.Tracker.SubmissionByMessage(r.MessageID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				utils.Error("voting", "lookup", fmt.Sprintf("message %s: %v", r.MessageID, err))
			}
			return
		}

		member, err := member(s, r.GuildID, r.UserID, r.Member)
		if err != nil {
			log.Printf("Failed to resolve member %s: %v", r.UserID, err)
			return
		}
		if !b.Auth.IsJudge(member) {
			// Undo the raw affordance activation; only judges may score.
			if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.APIName(), r.UserID); err != nil {
				log.Printf("Failed to remove non-judge reaction on %s: %v", r.MessageID, err)
			}
			return
		}

		tag := r.UserID
		if member.User != nil {
			tag = member.User.Username
		}
		prior, hadPrior := sub.VoteBy(r.UserID)
		if err := b.Reconciler.AssertVote(sub.ID, r.UserID, tag, score); err != nil {
			utils.Error("voting", "assert", fmt.Sprintf("submission %s: %v", sub.ID, err))
			return
		}

		// Clear the judge's previous score reaction so the message shows
		// one reaction per judge. The resulting removal event is ignored by
		// ReactionRemove because the stored score no longer matches it.
		if hadPrior && prior.Score != score {
			stale := ScoreEmojis[prior.Score-1]
			if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, stale, r.UserID); err != nil {
				log.Printf("Failed to clear stale reaction %s on %s: %v", stale, r.MessageID, err)
			}
		}
	}
}

// ReactionRemove retracts a judge's vote when their current score reaction
// is removed. Removing a reaction that does not match the stored score is
// ignored, which covers both stale reactions cleared by the bot and
// reactions that never became votes.
func ReactionRemove(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
		if r.UserID == s.State.User.ID {
			return
		}
		score, ok := scoreForEmoji(r.Emoji.Name)
		if !ok {
			return
		}

		sub, err := b.Tracker.SubmissionByMessage(r.MessageID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				utils.Error("voting", "lookup", fmt.Sprintf("message %s: %v", r.MessageID, err))
			}
			return
		}

		vote, ok := sub.VoteBy(r.UserID)
		if !ok || vote.Score != score {
			return
		}
		if err := b.Reconciler.RetractVote(sub.ID, r.UserID); err != nil {
			utils.Error("voting", "retract", fmt.Sprintf("submission %s: %v", sub.ID, err))
		}
	}
}

// member resolves a guild member, preferring the one delivered with the
// event.
func member(s *discordgo.Session, guildID, userID string, fromEvent *discordgo.Member) (*discordgo.Member, error) {
	if fromEvent != nil {
		return fromEvent, nil
	}
	if m, err := s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return s.GuildMember(guildID, userID)
}
