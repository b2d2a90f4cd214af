package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"mission-bot/export"
	"mission-bot/models"
	"mission-bot/store"
	"mission-bot/utils"
)

// Template names looked up in the templates collection. Missing templates
// fall back to built-in bodies.
const (
	TemplateRecap   = "recap"
	TemplateResults = "results"
	TemplateClosed  = "announcement_closed"
)

const (
	defaultRecapTemplate   = "⏰ Mission **{{title}}** has reached its deadline. {{count}} submissions received. Thanks to everyone who participated!"
	defaultResultsTemplate = "🏆 Results for **{{title}}**:\n{{ranking}}"
	defaultClosedTemplate  = "🔒 **[CLOSED]** {{title}}"
)

// TelegramEditor updates the cross-platform announcement for missions
// created from Telegram.
type TelegramEditor interface {
	EditAnnouncement(chatID int64, messageID int, text string) error
}

// Notifier implements the sweep's chat-platform side against Discord,
// with an optional Telegram hook for cross-platform missions.
type Notifier struct {
	Session  *discordgo.Session
	Store    *store.Store
	Telegram TelegramEditor // nil when the secondary platform is disabled
}

// PostRecap posts a human-readable recap into the mission thread.
func (n *Notifier) PostRecap(m models.Mission, subs []models.Submission) error {
	body := n.template(TemplateRecap, defaultRecapTemplate)
	msg := utils.RenderTemplate(body, map[string]string{
		"title": m.Title,
		"count": fmt.Sprintf("%d", len(subs)),
	})
	_, err := n.Session.ChannelMessageSend(m.ThreadID, msg)
	return err
}

// LockThread archives and locks the mission thread so no further
// submissions arrive.
func (n *Notifier) LockThread(m models.Mission) error {
	locked := true
	_, err := n.Session.ChannelEdit(m.ThreadID, &discordgo.ChannelEdit{
		Archived: &locked,
		Locked:   &locked,
	})
	return err
}

// UpdateAnnouncement flips the mission's public announcement to a closed
// marker. Missions without a recorded announcement are skipped.
func (n *Notifier) UpdateAnnouncement(m models.Mission) error {
	body := n.template(TemplateClosed, defaultClosedTemplate)
	msg := utils.RenderTemplate(body, map[string]string{"title": m.Title})

	if m.AnnounceMessageID != "" {
		if _, err := n.Session.ChannelMessageEdit(m.AnnounceChannelID, m.AnnounceMessageID, msg); err != nil {
			return err
		}
	}
	if n.Telegram != nil && m.TelegramChatID != 0 && m.TelegramMessageID != 0 {
		if err := n.Telegram.EditAnnouncement(m.TelegramChatID, m.TelegramMessageID, msg); err != nil {
			return err
		}
	}
	return nil
}

// PostResults posts the ranked results into the mission thread.
func (n *Notifier) PostResults(m models.Mission, subs []models.Submission) error {
	body := n.template(TemplateResults, defaultResultsTemplate)
	msg := utils.RenderTemplate(body, map[string]string{
		"title":   m.Title,
		"ranking": ranking(subs),
	})
	_, err := n.Session.ChannelMessageSend(m.ThreadID, msg)
	return err
}

// template fetches a stored template body, falling back when absent.
func (n *Notifier) template(name, fallback string) string {
	t, err := n.Store.GetTemplate(name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			utils.Warn("notifier", "template", fmt.Sprintf("failed to load template %q: %v", name, err))
		}
		return fallback
	}
	return t.Body
}

// ranking renders submissions sorted by average score, highest first.
func ranking(subs []models.Submission) string {
	if len(subs) == 0 {
		return "No submissions this time."
	}

	sorted := make([]models.Submission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, _ := sorted[i].AverageScore()
		aj, _ := sorted[j].AverageScore()
		return ai > aj
	})

	var b strings.Builder
	for i, sub := range sorted {
		avg := export.NoScore
		if mean, ok := sub.AverageScore(); ok {
			avg = fmt.Sprintf("%.2f", mean)
		}
		fmt.Fprintf(&b, "%d. %s — %s (%d votes)\n", i+1, sub.AuthorTag, avg, len(sub.Votes))
	}
	return strings.TrimRight(b.String(), "\n")
}
