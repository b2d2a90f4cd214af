package bot

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"mission-bot/sweep"
)

var c *cron.Cron

// startScheduler begins the periodic deadline sweep plus one immediate
// sweep at startup.
func startScheduler(sw *sweep.Sweeper) {
	log.Println("Initializing scheduler...")

	interval := viper.GetString("bot.sweepInterval")
	if interval == "" {
		interval = "5m"
	}

	c = cron.New()
	_, err := c.AddFunc("@every "+interval, func() {
		if _, err := sw.Run(context.Background()); err != nil {
			log.Printf("Deadline sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Could not set up sweep job: %v", err)
	}
	c.Start()
	log.Printf("Deadline sweep scheduled every %s.", interval)

	go func() {
		log.Println("Performing initial deadline sweep...")
		if _, err := sw.Run(context.Background()); err != nil {
			log.Printf("Initial sweep failed: %v", err)
		}
	}()
}

// stopScheduler cancels the pending sweep timer. An in-flight sweep is not
// aborted; shutdown is best-effort.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
