package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stockwatch/internal/models"
)

// Store is the persistence surface the command handlers consume. Every
// mutating call is scoped to the requesting chat's owner id.
type Store interface {
	InsertProduct(ctx context.Context, p *models.Product) error
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error)
	GetOwned(ctx context.Context, id, ownerID int64) (models.Product, error)
	SetActive(ctx context.Context, id, ownerID int64, active bool) error
	DeleteProduct(ctx context.Context, id, ownerID int64) error
	RecentCheckLogs(ctx context.Context, productID int64, limit int) ([]models.CheckLog, error)
}

// Bot answers Telegram commands for managing tracked products. The chat id
// doubles as the owner id, so users only ever see their own products.
type Bot struct {
	api    *tgbotapi.BotAPI
	store  Store
	stores []models.Store
	logger *slog.Logger
}

func New(api *tgbotapi.BotAPI, store Store, supportedStores []models.Store, logger *slog.Logger) *Bot {
	return &Bot{
		api:    api,
		store:  store,
		stores: supportedStores,
		logger: logger.With("component", "bot"),
	}
}

// Run consumes the update long-poll until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot listening for commands")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	logger := b.logger.With("chat_id", msg.Chat.ID, "command", msg.Command())
	logger.Debug("handling command")

	var reply string
	switch msg.Command() {
	case "start", "help":
		reply = b.helpText()
	case "add":
		reply = b.handleAdd(ctx, msg)
	case "list":
		reply = b.handleList(ctx, msg)
	case "pause":
		reply = b.handleSetActive(ctx, msg, false)
	case "resume":
		reply = b.handleSetActive(ctx, msg, true)
	case "remove":
		reply = b.handleRemove(ctx, msg)
	case "logs":
		reply = b.handleLogs(ctx, msg)
	default:
		reply = "Unknown command. Try /help."
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.DisableWebPagePreview = true
	if _, err := b.api.Send(out); err != nil {
		logger.Error("failed to send reply", "error", err)
	}
}
