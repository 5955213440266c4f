// Package telegram adapts Telegram updates to game events. The engine is
// transport-agnostic; this package only maps messages in and replies out.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kiprotich-dev/bahatibot/internal/game"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *game.Engine
}

func New(token string, engine *game.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Printf("Telegram bot authorized on account %s", api.Self.UserName)
	return &Bot{api: api, engine: engine}, nil
}

// Run polls for updates until ctx is cancelled. Replies go to the chat the
// triggering message came from; reward announcements name their recipient in
// the text, so the winner's chat sees them all.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := strconv.FormatInt(update.Message.From.ID, 10)

	var replies []game.Reply
	if update.Message.IsCommand() {
		replies = b.engine.HandleCommand(ctx, update.Message.Command(), userID)
	} else {
		replies = b.engine.HandleText(ctx, userID, update.Message.Text)
	}

	for _, r := range replies {
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, r.Text)
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Failed to send telegram message: %v", err)
		}
	}
}
