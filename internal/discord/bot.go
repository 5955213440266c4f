// Package discord adapts Discord messages to game events, mirroring the
// telegram package. Commands use the "!" prefix.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kiprotich-dev/bahatibot/internal/game"
)

type Bot struct {
	session *discordgo.Session
	engine  *game.Engine
}

func New(token string, engine *game.Engine) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{session: session, engine: engine}
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("%s is connected!", event.User.Username)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author.Bot {
		return
	}

	ctx := context.Background()
	content := strings.TrimSpace(m.Content)

	var replies []game.Reply
	if strings.HasPrefix(content, "!") && len(content) > 1 {
		replies = b.engine.HandleCommand(ctx, content[1:], m.Author.ID)
	} else {
		replies = b.engine.HandleText(ctx, m.Author.ID, content)
	}

	for _, r := range replies {
		if _, err := s.ChannelMessageSend(m.ChannelID, r.Text); err != nil {
			log.Printf("Failed to send discord message: %v", err)
		}
	}
}
