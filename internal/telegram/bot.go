// Package telegram adapts the session flow engine to the Telegram Bot API:
// it turns updates into engine events and renders engine output as messages
// and inline keyboards.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/k4doshh/bau-tribo/internal/session"
	"github.com/k4doshh/bau-tribo/pkg/types"
)

const helpText = `Inventory bot commands:

/inventory - open the inventory menu (add or remove stock)
/categories - manage categories and item definitions
/help - this help

Use the buttons to navigate. When asked for a quantity or a name, type it
in the chat within 60 seconds.`

// Bot runs the Telegram update loop and feeds the session engine.
type Bot struct {
	api       *tgbotapi.BotAPI
	engine    *session.Engine
	presenter *Presenter
	config    types.TelegramConfig
	log       *logrus.Entry
}

// New connects to the Bot API and wires the presenter and engine.
func New(cfg types.Config, store types.Store, log *logrus.Entry) (*Bot, error) {
	if cfg.Telegram.Token == "" {
		return nil, types.ErrTokenEmpty
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	presenter := NewPresenter(api, cfg.Telegram.LogChatID, log)
	engine := session.New(store, presenter, cfg.EffectivePromptTimeout(), log)

	return &Bot{
		api:       api,
		engine:    engine,
		presenter: presenter,
		config:    cfg.Telegram,
		log:       log,
	}, nil
}

// Run announces readiness and processes updates until the context ends.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.WithField("bot", b.api.Self.UserName).Info("bot online")
	b.presenter.Announce(b.config.AnnounceChatID, "Bot restarted and ready to use!")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	if update.Message.IsCommand() {
		b.handleCommand(update.Message)
		return
	}
	b.handleText(update.Message)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		b.presenter.Notify(chatID, helpText)
	case "inventory":
		b.engine.ShowInventoryMenu(chatID)
	case "categories":
		b.engine.ShowCategoryMenu(chatID)
	default:
		b.presenter.Notify(chatID, "Unknown command. Use /help.")
	}
}

// handleCallback is the single dispatcher for every interactive control.
func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	// Acknowledge first so the client stops the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.WithError(err).Debug("answer callback")
	}

	if cb.Message == nil {
		return
	}
	user := session.User{ID: cb.From.ID, Name: displayName(cb.From)}
	chatID := cb.Message.Chat.ID

	data, ok := parseCallback(cb.Data)
	if !ok {
		b.log.WithField("data", cb.Data).Debug("unrecognized callback")
		return
	}

	switch data.kind {
	case kindInventory:
		b.engine.SelectAction(user, chatID, data.action)
	case kindCategory:
		b.engine.SelectCategory(user, chatID, data.action, data.name)
	case kindItem:
		b.engine.SelectItem(user, chatID, data.name)
	case kindManage:
		switch data.op {
		case opCreate:
			b.engine.BeginCreateCategory(user, chatID)
		case opDelete:
			b.engine.BeginDeleteCategory(user, chatID)
		case opManage:
			b.engine.BeginManageCategory(user, chatID)
		}
	case kindManageItem:
		if data.op == opAdd {
			b.engine.BeginAddItem(user, chatID, data.name)
		} else {
			b.engine.BeginRemoveItem(user, chatID, data.name)
		}
	}
}

func (b *Bot) handleText(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	consumed := b.engine.HandleText(msg.From.ID, msg.Chat.ID, msg.Text)
	if !consumed {
		b.log.WithField("user", msg.From.ID).Debug("text with no pending session")
	}
}

// displayName prefers the username and falls back to the first name.
func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}
