package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"mission-bot/config"
	"mission-bot/export"
	"mission-bot/journal"
	"mission-bot/mission"
	"mission-bot/models"
	"mission-bot/store"
	"mission-bot/sweep"
	"mission-bot/telegram"
	"mission-bot/utils"
	"mission-bot/voting"
)

// Bot encapsulates the bot's state and wired components.
type Bot struct {
	Session    *discordgo.Session
	Store      *store.Store
	Tracker    *mission.Tracker
	Reconciler *voting.Reconciler
	Sweeper    *sweep.Sweeper
	Auth       *utils.Auth
	Journal    *journal.Journal
	Telegram   *telegram.Bot
	Missions   models.MissionsConfig
}

// NewBot creates and initializes a new Bot instance from configuration.
func NewBot() (*Bot, error) {
	config.LoadConfig()

	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	dataDir := viper.GetString("bot.dataDir")
	if dataDir == "" {
		dataDir = "data"
	}
	st, err := store.New(dataDir)
	if err != nil {
		return nil, fmt.Errorf("error initializing store: %w", err)
	}

	var jrnl *journal.Journal
	if path := viper.GetString("bot.journalPath"); path != "" {
		jrnl, err = journal.Open(path)
		if err != nil {
			// The journal is observability, not the source of truth.
			log.Printf("Journal disabled: %v", err)
			jrnl = nil
		}
	}

	tracker := mission.New(st)
	reconciler := voting.New(st, jrnl)

	var tg *telegram.Bot
	if tgToken := viper.GetString("TELEGRAM_TOKEN"); tgToken != "" {
		tg, err = telegram.New(tgToken, st, tracker)
		if err != nil {
			return nil, fmt.Errorf("error creating Telegram bot: %w", err)
		}
	}

	var exportCfg models.ExportConfig
	if err := viper.UnmarshalKey("export", &exportCfg); err != nil {
		return nil, fmt.Errorf("error reading export config: %w", err)
	}
	var exporter sweep.Exporter
	if exportCfg.SpreadsheetID != "" {
		sheetsExporter, err := export.NewSheetsExporter(context.Background(), exportCfg.CredentialsFile, exportCfg.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("error creating sheets exporter: %w", err)
		}
		exporter = sheetsExporter
	} else {
		log.Println("No export destination configured; missions will stay closed after their deadline.")
	}

	notifier := &Notifier{Session: dg, Store: st}
	if tg != nil {
		notifier.Telegram = tg
	}

	auth, err := utils.NewAuth()
	if err != nil {
		return nil, fmt.Errorf("error loading auth config: %w", err)
	}

	return &Bot{
		Session:    dg,
		Store:      st,
		Tracker:    tracker,
		Reconciler: reconciler,
		Sweeper:    sweep.New(st, notifier, exporter, jrnl),
		Auth:       auth,
		Journal:    jrnl,
		Telegram:   tg,
		Missions:   config.Missions(),
	}, nil
}

// Start opens the bot's session, registers handlers and slash commands,
// and begins the sweep schedule.
func (b *Bot) Start(registerHandlers func(*Bot), commands []*discordgo.ApplicationCommand) error {
	registerHandlers(b)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	utils.InitLogger(b.Session)

	for _, cmd := range commands {
		if _, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd); err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Name, err)
		}
	}

	if b.Telegram != nil {
		b.Telegram.Start()
	}
	startScheduler(b.Sweeper)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts the bot down.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Telegram != nil {
		b.Telegram.Stop()
	}
	if b.Session != nil {
		b.Session.Close()
	}
	b.Journal.Close()
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []*discordgo.ApplicationCommand) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers, commands); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
