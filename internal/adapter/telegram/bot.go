// Package telegram carries the quiz conversation over the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eslsoft/vocquiz/internal/adapter/chat"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("telegram.token is required")

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher accepts incoming messages for processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, in chat.Incoming) error
}

// Bot is a chat.Channel backed by long polling. Outgoing messages share one
// rate limiter to stay under the API flood limits.
type Bot struct {
	api         botAPI
	limiter     *rate.Limiter
	pollTimeout int
	logger      logrus.FieldLogger
}

var _ chat.Channel = (*Bot)(nil)

// NewBot authenticates against the Bot API with cfg.Telegram.Token.
func NewBot(cfg *config.Config, logger logrus.FieldLogger) (*Bot, error) {
	token := strings.TrimSpace(cfg.Telegram.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	logger.WithField("bot", api.Self.UserName).Info("telegram bot authorized")
	return newBot(api, cfg.Telegram, logger), nil
}

func newBot(api botAPI, cfg config.TelegramConfig, logger logrus.FieldLogger) *Bot {
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Bot{
		api:         api,
		limiter:     rate.NewLimiter(limit, burst),
		pollTimeout: cfg.PollTimeout,
		logger:      logger,
	}
}

// Send delivers msg to the chat identified by sessionID.
func (b *Bot) Send(ctx context.Context, sessionID int64, msg chat.Message) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := b.api.Send(messageConfig(sessionID, msg)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Run polls for updates and hands text messages to d until ctx is done.
func (b *Bot) Run(ctx context.Context, d Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			in, ok := incoming(update)
			if !ok {
				continue
			}
			if err := d.Dispatch(ctx, in); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				if errors.Is(err, chat.ErrSessionBusy) {
					continue
				}
				b.logger.WithError(err).WithField("session", in.SessionID).Error("dispatch update")
			}
		}
	}
}

func messageConfig(chatID int64, msg chat.Message) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(chatID, msg.Text)
	if msg.HTML {
		out.ParseMode = tgbotapi.ModeHTML
	}
	if len(msg.Keyboard) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(msg.Keyboard))
		for _, row := range msg.Keyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = true
		out.ReplyMarkup = keyboard
	}
	return out
}

func incoming(update tgbotapi.Update) (chat.Incoming, bool) {
	m := update.Message
	if m == nil || m.Chat == nil || m.From == nil || m.Text == "" {
		return chat.Incoming{}, false
	}
	name := strings.TrimSpace(m.From.FirstName + " " + m.From.LastName)
	if name == "" {
		name = m.From.UserName
	}
	return chat.Incoming{
		SessionID: m.Chat.ID,
		UserID:    m.From.ID,
		UserName:  name,
		Text:      m.Text,
	}, true
}
