// Package telegram is the secondary-platform frontend. Unlike the Discord
// side, which registers missions passively from thread activity, Telegram
// missions are created with an explicit command and submissions arrive via
// /submit.
package telegram

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mission-bot/mission"
	"mission-bot/models"
	"mission-bot/store"
	"mission-bot/utils"
)

// Bot runs the Telegram long-polling command loop.
type Bot struct {
	api     *tgbotapi.BotAPI
	store   *store.Store
	tracker *mission.Tracker
	done    chan struct{}
}

// New creates the Telegram frontend.
func New(token string, st *store.Store, tr *mission.Tracker) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram API client: %w", err)
	}
	return &Bot{api: api, store: st, tracker: tr, done: make(chan struct{})}, nil
}

// Start begins polling for updates in a background goroutine.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	go func() {
		defer close(b.done)
		log.Printf("Telegram frontend running as @%s", b.api.Self.UserName)
		for update := range updates {
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(update.Message)
		}
	}()
}

// Stop ends the polling loop and waits for it to drain.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	<-b.done
	log.Println("Telegram frontend stopped.")
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	switch msg.Command() {
	case "newmission":
		b.handleNewMission(msg)
	case "submit":
		b.handleSubmit(msg)
	case "status":
		b.handleStatus(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Available: /newmission, /submit, /status")
	}
}

// handleNewMission creates a mission explicitly, bypassing the passive
// auto-registration the Discord side uses. Arguments: "Title | duration"
// where duration is optional (e.g. "72h", default 7 days).
func (b *Bot) handleNewMission(msg *tgbotapi.Message) {
	title, duration := parseMissionArgs(msg.CommandArguments())
	if title == "" {
		b.reply(msg.Chat.ID, "Usage: /newmission Title | 72h")
		return
	}

	// One synthetic thread id per creating message keeps registration
	// idempotent if Telegram redelivers the update.
	threadID := fmt.Sprintf("telegram-%d-%d", msg.Chat.ID, msg.MessageID)
	m, err := b.store.RegisterMission(threadID, title, time.Now().Add(duration))
	if err != nil {
		utils.Error("telegram", "newmission", err.Error())
		b.reply(msg.Chat.ID, "Failed to create the mission, please try again.")
		return
	}

	announcement := fmt.Sprintf("📢 Mission **%s** is open! Submit entries with /submit until %s.",
		m.Title, m.Deadline.Format("2006-01-02 15:04 MST"))
	sent, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, announcement))
	if err != nil {
		utils.Warn("telegram", "newmission", fmt.Sprintf("announcement failed: %v", err))
		return
	}
	if err := b.store.SetMissionTelegramLink(m.ID, msg.Chat.ID, sent.MessageID); err != nil {
		utils.Warn("telegram", "newmission", fmt.Sprintf("failed to record announcement link: %v", err))
	}
}

// handleSubmit records a URL-bearing entry against the chat's most recent
// active mission.
func (b *Bot) handleSubmit(msg *tgbotapi.Message) {
	content := strings.TrimSpace(msg.CommandArguments())
	urls := utils.ExtractURLs(content)
	if len(urls) == 0 {
		b.reply(msg.Chat.ID, "A submission needs to include a link (http:// or https://).")
		return
	}

	m, err := b.activeMission(msg.Chat.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.reply(msg.Chat.ID, "No active mission in this chat. Start one with /newmission.")
			return
		}
		utils.Error("telegram", "submit", err.Error())
		return
	}

	author := msg.From.UserName
	if author == "" {
		author = msg.From.FirstName
	}
	_, err = b.tracker.Track(mission.Candidate{
		ThreadID:   m.ThreadID,
		ThreadName: m.Title,
		MessageID:  fmt.Sprintf("telegram-%d-%d", msg.Chat.ID, msg.MessageID),
		AuthorID:   fmt.Sprintf("%d", msg.From.ID),
		AuthorTag:  author,
		Content:    content,
		URLs:       urls,
		Origin:     models.OriginTelegram,
	})
	if err != nil {
		utils.Error("telegram", "submit", err.Error())
		b.reply(msg.Chat.ID, "Failed to record the submission, please try again.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Submission recorded for mission %q.", m.Title))
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	m, err := b.activeMission(msg.Chat.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.reply(msg.Chat.ID, "No active mission in this chat.")
			return
		}
		utils.Error("telegram", "status", err.Error())
		return
	}
	subs, err := b.store.SubmissionsForMission(m.ID)
	if err != nil {
		utils.Error("telegram", "status", err.Error())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Mission %q: %d submissions, deadline %s.",
		m.Title, len(subs), m.Deadline.Format("2006-01-02 15:04 MST")))
}

// activeMission finds the most recently created active mission linked to
// the chat. Returns store.ErrNotFound when none exists.
func (b *Bot) activeMission(chatID int64) (models.Mission, error) {
	missions, err := b.store.ListMissions()
	if err != nil {
		return models.Mission{}, err
	}
	var best models.Mission
	found := false
	for _, m := range missions {
		if m.TelegramChatID != chatID || m.Status != models.MissionActive {
			continue
		}
		if !found || m.CreatedAt.After(best.CreatedAt) {
			best = m
			found = true
		}
	}
	if !found {
		return models.Mission{}, store.ErrNotFound
	}
	return best, nil
}

// EditAnnouncement updates a previously posted mission announcement. It
// implements the sweep notifier's Telegram hook.
func (b *Bot) EditAnnouncement(chatID int64, messageID int, text string) error {
	_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending Telegram message: %v", err)
	}
}

// parseMissionArgs splits "Title | duration" command arguments.
func parseMissionArgs(args string) (string, time.Duration) {
	duration := mission.DefaultDeadline
	parts := strings.SplitN(args, "|", 2)
	title := strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		if d, err := time.ParseDuration(strings.TrimSpace(parts[1])); err == nil && d > 0 {
			duration = d
		}
	}
	return title, duration
}
