// Package telegram runs interviews in Telegram chats over long polling.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/orchestrator"
)

// Bot maps each chat to one interview session.
type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	svc         orchestrator.Service
	log         *zap.Logger
	pollTimeout time.Duration

	mu    sync.Mutex
	chats map[int64]string
}

// New connects to the Bot API with token.
func New(token string, svc orchestrator.Service, pollTimeout time.Duration, debug bool, log *zap.Logger) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = debug

	b := newBot(botAPISender{api: api}, svc, log)
	b.api = api
	b.pollTimeout = pollTimeout
	return b, nil
}

func newBot(s sender, svc orchestrator.Service, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		s:           s,
		svc:         svc,
		log:         log,
		pollTimeout: 60 * time.Second,
		chats:       make(map[int64]string),
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout / time.Second)

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) sessionFor(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.chats[chatID]
	return id, ok
}

func (b *Bot) setSession(chatID int64, sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sessionID == "" {
		delete(b.chats, chatID)
		return
	}
	b.chats[chatID] = sessionID
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.s.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
