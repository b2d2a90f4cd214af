package main

import (
	"mission-bot/bot"
	"mission-bot/command"
	"mission-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.GetCommandDefinitions())
}
