package telegram

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/k4doshh/bau-tribo/pkg/types"
)

// sender is the slice of the bot API the presenter needs. *tgbotapi.BotAPI
// satisfies it; tests use a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Presenter renders engine output as Telegram messages and inline keyboards.
// It tracks every message it posts per chat so ClearTransient can delete the
// conversation noise accumulated since the last cleanup.
type Presenter struct {
	api       sender
	log       *logrus.Entry
	logChatID int64

	mu        sync.Mutex
	transient map[int64][]int
}

// NewPresenter creates a Presenter reporting committed actions to logChatID.
func NewPresenter(api sender, logChatID int64, log *logrus.Entry) *Presenter {
	return &Presenter{
		api:       api,
		log:       log,
		logChatID: logChatID,
		transient: make(map[int64][]int),
	}
}

// ShowInventoryMenu posts the root add/remove menu.
func (p *Presenter) ShowInventoryMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Add or remove items from the chest.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add item", actionCallback(types.ActionAdd)),
			tgbotapi.NewInlineKeyboardButtonData("➖ Remove item", actionCallback(types.ActionRemove)),
		),
	)
	p.send(chatID, msg)
}

// ShowCategoryMenu posts the category-management root menu.
func (p *Presenter) ShowCategoryMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Manage categories and their items.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 Create category", manageCallback(opCreate)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete category", manageCallback(opDelete)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Manage items", manageCallback(opManage)),
		),
	)
	p.send(chatID, msg)
}

// ShowCategorySelect posts one button per category. An empty list gets a
// plain notice instead of an empty keyboard.
func (p *Presenter) ShowCategorySelect(chatID int64, action types.Action, categories []string) {
	if len(categories) == 0 {
		p.send(chatID, tgbotapi.NewMessage(chatID, "No categories exist yet. Use /categories to create one."))
		return
	}

	verb := "add an item to"
	if action == types.ActionRemove {
		verb = "remove an item from"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Select a category to %s:", verb))

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(category, categoryCallback(action, category)),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	p.send(chatID, msg)
}

// ShowItemSelect posts one button per item defined in the category.
func (p *Presenter) ShowItemSelect(chatID int64, action types.Action, category string, items []string) {
	if len(items) == 0 {
		p.send(chatID, tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Category %s has no items yet. Use /categories to add some.", category)))
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Category: %s\nSelect an item:", category))
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(item, itemCallback(item)),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	p.send(chatID, msg)
}

// ShowItemManageMenu posts the add/remove item-definition menu.
func (p *Presenter) ShowItemManageMenu(chatID int64, category string) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Items in category %s:", category))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add item", manageItemCallback(opAdd, category)),
			tgbotapi.NewInlineKeyboardButtonData("➖ Remove item", manageItemCallback(opRemove, category)),
		),
	)
	p.send(chatID, msg)
}

// Prompt asks the user for free-text input.
func (p *Presenter) Prompt(chatID int64, text string) {
	p.send(chatID, tgbotapi.NewMessage(chatID, text))
}

// Notify reports a session outcome to the user.
func (p *Presenter) Notify(chatID int64, text string) {
	p.send(chatID, tgbotapi.NewMessage(chatID, text))
}

// Report posts the structured action log entry to the log chat.
func (p *Presenter) Report(report types.ActionReport) {
	if p.logChatID == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("📋 Inventory action\n")
	fmt.Fprintf(&b, "Time: %s\n", report.Time.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Action: %s\n", report.Action)
	fmt.Fprintf(&b, "Category: %s\n", report.Category)
	fmt.Fprintf(&b, "Item: %s\n", report.Item)
	fmt.Fprintf(&b, "Quantity: %d\n", report.Quantity)
	fmt.Fprintf(&b, "By: %s\n\n", report.User)
	b.WriteString(formatInventory(report.Inventory))

	if _, err := p.api.Send(tgbotapi.NewMessage(p.logChatID, b.String())); err != nil {
		p.log.WithError(err).Error("send action report")
	}
}

// ClearTransient deletes every tracked message in the chat.
func (p *Presenter) ClearTransient(chatID int64) {
	p.mu.Lock()
	ids := p.transient[chatID]
	delete(p.transient, chatID)
	p.mu.Unlock()

	for _, id := range ids {
		if _, err := p.api.Request(tgbotapi.NewDeleteMessage(chatID, id)); err != nil {
			p.log.WithError(err).WithField("message", id).Debug("delete transient message")
		}
	}
}

// Announce posts the readiness notice.
func (p *Presenter) Announce(chatID int64, text string) {
	if chatID == 0 {
		return
	}
	if _, err := p.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		p.log.WithError(err).Error("send announcement")
	}
}

// send posts a message to the chat and tracks it for ClearTransient.
func (p *Presenter) send(chatID int64, msg tgbotapi.MessageConfig) {
	sent, err := p.api.Send(msg)
	if err != nil {
		p.log.WithError(err).Error("send message")
		return
	}

	p.mu.Lock()
	p.transient[chatID] = append(p.transient[chatID], sent.MessageID)
	p.mu.Unlock()
}

// formatInventory renders the full inventory dump for the action report.
func formatInventory(inv types.Inventory) string {
	if len(inv) == 0 {
		return "Inventory is empty."
	}

	categories := make([]string, 0, len(inv))
	for category := range inv {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Current inventory:\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "Category: %s\n", category)

		items := make([]string, 0, len(inv[category]))
		for item := range inv[category] {
			items = append(items, item)
		}
		sort.Strings(items)
		for _, item := range items {
			fmt.Fprintf(&b, "  • %s: %d\n", item, inv[category][item])
		}
	}
	return b.String()
}
