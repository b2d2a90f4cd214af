package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"mission-bot/bot"
	"mission-bot/store"
)

// HandleMission dispatches the /mission subcommands.
func HandleMission(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "create":
		handleMissionCreate(b, s, i, options[0].Options)
	case "status":
		handleMissionStatus(b, s, i)
	case "list":
		handleMissionList(b, s, i)
	}
}

func handleMissionCreate(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !b.Auth.CheckPermission(i, "admin") {
		respond(s, i, "You need an admin role to create missions.")
		return
	}

	ch, err := channel(s, i.ChannelID)
	if err != nil || !ch.IsThread() {
		respond(s, i, "Run this command inside the thread the mission should live in.")
		return
	}

	title := ch.Name
	hours := 168
	brief := ""
	for _, opt := range opts {
		switch opt.Name {
		case "title":
			title = opt.StringValue()
		case "hours":
			hours = int(opt.IntValue())
		case "brief":
			brief = opt.StringValue()
		}
	}

	m, err := b.Store.RegisterMission(i.ChannelID, title, time.Now().Add(time.Duration(hours)*time.Hour))
	if err != nil {
		respond(s, i, fmt.Sprintf("Failed to create the mission: %v", err))
		return
	}
	if brief != "" {
		if err := b.Store.SetMissionBrief(m.ID, brief); err != nil {
			log.Printf("Failed to store brief for mission %s: %v", m.ID, err)
		}
	}

	// Post the public announcement the sweep later flips to closed.
	if cfg, ok := b.Missions[i.GuildID]; ok && cfg.AnnounceChannelID != "" {
		text := fmt.Sprintf("📢 Mission **%s** is open in <#%s> until <t:%d>!", m.Title, m.ThreadID, m.Deadline.Unix())
		if brief != "" {
			text += "\n" + brief
		}
		msg, err := s.ChannelMessageSend(cfg.AnnounceChannelID, text)
		if err != nil {
			log.Printf("Failed to announce mission %s: %v", m.ID, err)
		} else if err := b.Store.SetMissionAnnouncement(m.ID, cfg.AnnounceChannelID, msg.ID); err != nil {
			log.Printf("Failed to record announcement for mission %s: %v", m.ID, err)
		}
	}

	respond(s, i, fmt.Sprintf("Mission **%s** is open until <t:%d>. Id: `%s`", m.Title, m.Deadline.Unix(), m.ID))
}

func handleMissionStatus(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	m, err := b.Store.GetMissionByThread(i.ChannelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond(s, i, "No mission is registered for this thread.")
			return
		}
		respond(s, i, fmt.Sprintf("Failed to look up the mission: %v", err))
		return
	}

	subs, err := b.Store.SubmissionsForMission(m.ID)
	if err != nil {
		respond(s, i, fmt.Sprintf("Failed to load submissions: %v", err))
		return
	}
	votes := 0
	for _, sub := range subs {
		votes += len(sub.Votes)
	}
	respond(s, i, fmt.Sprintf("**%s** — %s\nDeadline: <t:%d>\nSubmissions: %d, votes: %d",
		m.Title, m.Status, m.Deadline.Unix(), len(subs), votes))
}

func handleMissionList(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	missions, err := b.Store.ListMissions()
	if err != nil {
		respond(s, i, fmt.Sprintf("Failed to list missions: %v", err))
		return
	}
	if len(missions) == 0 {
		respond(s, i, "No missions yet.")
		return
	}

	var lines []string
	for _, m := range missions {
		lines = append(lines, fmt.Sprintf("• **%s** (%s) — deadline <t:%d> — `%s`", m.Title, m.Status, m.Deadline.Unix(), m.ID))
	}
	respond(s, i, strings.Join(lines, "\n"))
}

// HandleSweep handles the logic for the /sweep command: either one manual
// sweep, or a re-export of a mission stuck at closed.
func HandleSweep(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Auth.CheckPermission(i, "admin") {
		respond(s, i, "You need an admin role to trigger a sweep.")
		return
	}

	var retryID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "retry_mission" {
			retryID = opt.StringValue()
		}
	}

	if retryID != "" {
		respond(s, i, fmt.Sprintf("Retrying export for mission `%s`...", retryID))
		go func() {
			var content string
			if err := b.Sweeper.RetryExport(context.Background(), retryID); err != nil {
				content = fmt.Sprintf("❌ Export retry failed: %v", err)
			} else {
				content = fmt.Sprintf("✅ Mission `%s` exported.", retryID)
			}
			followup(s, i, content)
		}()
		return
	}

	respond(s, i, "Running a deadline sweep...")
	go func() {
		report, err := b.Sweeper.Run(context.Background())
		var content string
		if err != nil {
			content = fmt.Sprintf("❌ Sweep failed: %v", err)
		} else {
			content = fmt.Sprintf("✅ Sweep finished: %s", report.Summary())
		}
		followup(s, i, content)
	}()
}

// HandleTemplate dispatches the /template subcommands.
func HandleTemplate(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Auth.CheckPermission(i, "admin") {
		respond(s, i, "You need an admin role to manage templates.")
		return
	}
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "set":
		handleTemplateSet(b, s, i, options[0].Options)
	case "list":
		handleTemplateList(b, s, i)
	}
}

func handleTemplateSet(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var name, body string
	for _, opt := range opts {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "body":
			body = opt.StringValue()
		}
	}
	if err := b.Store.UpsertTemplate(name, body); err != nil {
		respond(s, i, fmt.Sprintf("Failed to store the template: %v", err))
		return
	}
	respond(s, i, fmt.Sprintf("Template `%s` saved.", name))
}

func handleTemplateList(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	templates, err := b.Store.ListTemplates()
	if err != nil {
		respond(s, i, fmt.Sprintf("Failed to list templates: %v", err))
		return
	}
	if len(templates) == 0 {
		respond(s, i, "No stored templates; the built-in defaults are in use.")
		return
	}
	var lines []string
	for _, t := range templates {
		lines = append(lines, fmt.Sprintf("• `%s`: %s", t.Name, t.Body))
	}
	respond(s, i, strings.Join(lines, "\n"))
}

// HandlePing handles the logic for the /ping command.
func HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respond(s, i, "Pong!")
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

func followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		log.Printf("Failed to send followup: %v", err)
	}
}
