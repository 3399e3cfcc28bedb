package bot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stockwatch/internal/database"
	"stockwatch/internal/models"
	"stockwatch/internal/parser"
)

const defaultLogLimit = 10

func (b *Bot) helpText() string {
	stores := make([]string, len(b.stores))
	for i, s := range b.stores {
		stores[i] = string(s)
	}

	return "Track product availability and price.\n\n" +
		"/add <store> <url> [size] - start tracking a product\n" +
		"/list - show your tracked products\n" +
		"/pause <id> - pause checks for a product\n" +
		"/resume <id> - resume checks\n" +
		"/remove <id> - stop tracking\n" +
		"/logs <id> - show recent check results\n\n" +
		"Supported stores: " + strings.Join(stores, ", ")
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) string {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return "Usage: /add <store> <url> [size]"
	}

	store := models.Store(strings.ToLower(args[0]))
	if !b.supported(store) {
		return fmt.Sprintf("Unknown store %q. Supported: %s", args[0], b.storeList())
	}

	rawURL := args[1]
	if u, err := url.Parse(rawURL); err != nil || u.Scheme == "" || u.Host == "" {
		return "That does not look like a product URL."
	}

	var size string
	if len(args) > 2 {
		size = parser.NormalizeSize(args[2])
	}

	product := models.Product{
		OwnerID: msg.Chat.ID,
		Store:   store,
		URL:     rawURL,
		Size:    size,
		Active:  true,
	}

	if err := b.store.InsertProduct(ctx, &product); err != nil {
		b.logger.Error("failed to insert product", "error", err)
		return "Could not save the product, please try again."
	}

	sizeNote := "any size"
	if size != "" {
		sizeNote = "size " + size
	}
	return fmt.Sprintf("Tracking product %d (%s, %s).", product.ID, store, sizeNote)
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) string {
	products, err := b.store.ListByOwner(ctx, msg.Chat.ID)
	if err != nil {
		b.logger.Error("failed to list products", "error", err)
		return "Could not load your products, please try again."
	}

	if len(products) == 0 {
		return "You are not tracking any products yet. Use /add to start."
	}

	var sb strings.Builder
	for _, p := range products {
		status := "active"
		if !p.Active {
			status = "paused"
		}
		size := p.Size
		if size == "" {
			size = "any"
		}

		fmt.Fprintf(&sb, "#%d [%s] %s\n  size: %s", p.ID, status, p.Store, size)
		if p.Price > 0 {
			fmt.Fprintf(&sb, ", last price: %.2f", p.Price)
		}
		fmt.Fprintf(&sb, "\n  %s\n", p.URL)
	}

	return sb.String()
}

func (b *Bot) handleSetActive(ctx context.Context, msg *tgbotapi.Message, active bool) string {
	id, ok := parseID(msg.CommandArguments())
	if !ok {
		if active {
			return "Usage: /resume <id>"
		}
		return "Usage: /pause <id>"
	}

	err := b.store.SetActive(ctx, id, msg.Chat.ID, active)
	if errors.Is(err, database.ErrProductNotFound) {
		return fmt.Sprintf("No product #%d in your list.", id)
	}
	if err != nil {
		b.logger.Error("failed to update product status", "error", err)
		return "Could not update the product, please try again."
	}

	if active {
		return fmt.Sprintf("Product #%d resumed.", id)
	}
	return fmt.Sprintf("Product #%d paused. It will be skipped until you /resume it.", id)
}

func (b *Bot) handleRemove(ctx context.Context, msg *tgbotapi.Message) string {
	id, ok := parseID(msg.CommandArguments())
	if !ok {
		return "Usage: /remove <id>"
	}

	err := b.store.DeleteProduct(ctx, id, msg.Chat.ID)
	if errors.Is(err, database.ErrProductNotFound) {
		return fmt.Sprintf("No product #%d in your list.", id)
	}
	if err != nil {
		b.logger.Error("failed to delete product", "error", err)
		return "Could not remove the product, please try again."
	}

	return fmt.Sprintf("Product #%d removed.", id)
}

func (b *Bot) handleLogs(ctx context.Context, msg *tgbotapi.Message) string {
	id, ok := parseID(msg.CommandArguments())
	if !ok {
		return "Usage: /logs <id>"
	}

	// Ownership check first so logs never leak across chats.
	if _, err := b.store.GetOwned(ctx, id, msg.Chat.ID); err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return fmt.Sprintf("No product #%d in your list.", id)
		}
		b.logger.Error("failed to load product", "error", err)
		return "Could not load the product, please try again."
	}

	logs, err := b.store.RecentCheckLogs(ctx, id, defaultLogLimit)
	if err != nil {
		b.logger.Error("failed to load check logs", "error", err)
		return "Could not load the check history, please try again."
	}

	if len(logs) == 0 {
		return fmt.Sprintf("Product #%d has not been checked yet.", id)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Last %d checks for #%d:\n", len(logs), id)
	for _, l := range logs {
		line := "out of stock"
		if l.InStock {
			line = "in stock"
		}
		if l.Error != "" {
			line = "error: " + l.Error
		}

		fmt.Fprintf(&sb, "%s - %s", l.CheckedAt.Format("02.01. 15:04"), line)
		if l.Price > 0 {
			fmt.Fprintf(&sb, " (%.2f)", l.Price)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (b *Bot) supported(store models.Store) bool {
	for _, s := range b.stores {
		if s == store {
			return true
		}
	}
	return false
}

func (b *Bot) storeList() string {
	names := make([]string, len(b.stores))
	for i, s := range b.stores {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func parseID(args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
