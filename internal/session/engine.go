// Package session implements the interactive flow engine. It is an
// externally driven state machine: the chat adapter feeds it selection and
// text events, a per-session deadline timer races the text wait, and every
// step re-validates store state before mutating it.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/k4doshh/bau-tribo/pkg/types"
)

// Engine drives multi-step interactions over the store. At most one session
// is outstanding per user; starting a new flow supersedes the previous one.
// Sessions are never persisted and never shared across users.
type Engine struct {
	mu        sync.Mutex
	store     types.Store
	presenter Presenter
	log       *logrus.Entry
	timeout   time.Duration
	sessions  map[int64]*Session
}

// New creates an Engine. timeout bounds every free-text prompt.
func New(store types.Store, presenter Presenter, timeout time.Duration, log *logrus.Entry) *Engine {
	return &Engine{
		store:     store,
		presenter: presenter,
		log:       log,
		timeout:   timeout,
		sessions:  make(map[int64]*Session),
	}
}

// ShowInventoryMenu posts the inventory root menu.
func (e *Engine) ShowInventoryMenu(chatID int64) {
	e.presenter.ShowInventoryMenu(chatID)
}

// ShowCategoryMenu posts the category-management root menu.
func (e *Engine) ShowCategoryMenu(chatID int64) {
	e.presenter.ShowCategoryMenu(chatID)
}

// SelectAction starts an add or remove flow: a fresh session in category
// selection, presenting one control per existing category. No categories is
// an empty selection surface, not an error.
func (e *Engine) SelectAction(user User, chatID int64, action types.Action) {
	e.mu.Lock()
	sess := e.beginLocked(user, chatID)
	sess.Action = action
	sess.State = StateCategorySelect
	e.mu.Unlock()

	e.presenter.ShowCategorySelect(chatID, action, e.store.Categories())
}

// SelectCategory advances to item selection. The item list comes from the
// category's definitions, not the inventory: an item with zero stock is
// still selectable.
func (e *Engine) SelectCategory(user User, chatID int64, action types.Action, category string) {
	cat := types.Canonical(category)
	items, err := e.store.Items(cat)
	if err != nil {
		e.cancelFor(user, fmt.Sprintf("Category '%s' no longer exists.", cat), chatID)
		return
	}

	e.mu.Lock()
	sess := e.resumeOrBeginLocked(user, chatID)
	sess.Action = action
	sess.Category = cat
	sess.State = StateItemSelect
	e.mu.Unlock()

	e.presenter.ShowItemSelect(chatID, action, cat, items)
}

// SelectItem transitions to the quantity prompt with a deadline. The
// category comes from the session established by SelectCategory; a stale
// control with no matching session is rejected.
func (e *Engine) SelectItem(user User, chatID int64, item string) {
	it := types.Canonical(item)

	e.mu.Lock()
	sess, ok := e.sessions[user.ID]
	if !ok || sess.ChatID != chatID || sess.State != StateItemSelect {
		e.mu.Unlock()
		e.presenter.Notify(chatID, "That selection has expired. Open the menu again.")
		return
	}
	category := sess.Category
	e.mu.Unlock()

	if !e.itemDefined(category, it) {
		e.cancelFor(user, fmt.Sprintf("Item '%s' no longer exists in category %s.", it, category), chatID)
		return
	}

	e.mu.Lock()
	if current, ok := e.sessions[user.ID]; !ok || current != sess || sess.State != StateItemSelect {
		e.mu.Unlock()
		return
	}
	sess.Item = it
	e.toAwaitingTextLocked(sess, promptQuantity)
	e.mu.Unlock()

	e.presenter.Prompt(chatID, fmt.Sprintf("You chose %s. Type the quantity in the chat.", it))
}

// BeginCreateCategory prompts for a new category name.
func (e *Engine) BeginCreateCategory(user User, chatID int64) {
	e.beginPrompt(user, chatID, promptCreateCategory, "", "Type the name of the new category:")
}

// BeginDeleteCategory prompts for the name of the category to delete.
func (e *Engine) BeginDeleteCategory(user User, chatID int64) {
	e.beginPrompt(user, chatID, promptDeleteCategory, "", "Type the name of the category to delete:")
}

// BeginManageCategory prompts for the category whose item definitions the
// user wants to edit.
func (e *Engine) BeginManageCategory(user User, chatID int64) {
	e.beginPrompt(user, chatID, promptManageCategory, "", "Type the name of the category whose items you want to manage:")
}

// BeginAddItem prompts for a new item name in the given category.
func (e *Engine) BeginAddItem(user User, chatID int64, category string) {
	cat := types.Canonical(category)
	if _, err := e.store.Items(cat); err != nil {
		e.cancelFor(user, fmt.Sprintf("Category '%s' no longer exists.", cat), chatID)
		return
	}
	e.beginPrompt(user, chatID, promptAddItem, cat,
		fmt.Sprintf("Type the name of the item to add to category %s:", cat))
}

// BeginRemoveItem prompts for the item definition to remove from the
// category.
func (e *Engine) BeginRemoveItem(user User, chatID int64, category string) {
	cat := types.Canonical(category)
	if _, err := e.store.Items(cat); err != nil {
		e.cancelFor(user, fmt.Sprintf("Category '%s' no longer exists.", cat), chatID)
		return
	}
	e.beginPrompt(user, chatID, promptRemoveItem, cat,
		fmt.Sprintf("Type the name of the item to remove from category %s:", cat))
}

// HandleText offers a free-text message to the engine. It is consumed only
// when the sender has a session awaiting input in the same chat; the return
// value tells the adapter whether the message was used.
func (e *Engine) HandleText(userID, chatID int64, text string) bool {
	e.mu.Lock()
	sess, ok := e.sessions[userID]
	if !ok || sess.ChatID != chatID || sess.State != StateAwaitingText {
		e.mu.Unlock()
		return false
	}
	sess.stopDeadline()
	delete(e.sessions, userID)
	e.mu.Unlock()

	switch sess.prompt {
	case promptQuantity:
		e.commitQuantity(sess, text)
	case promptCreateCategory:
		e.createCategory(sess, text)
	case promptDeleteCategory:
		e.deleteCategory(sess, text)
	case promptManageCategory:
		e.manageCategory(sess, text)
	case promptAddItem:
		e.addItem(sess, text)
	case promptRemoveItem:
		e.removeItem(sess, text)
	}
	return true
}

// commitQuantity validates and applies the quantity entered for the
// session's (category, item). Every failure leaves the store unmodified.
func (e *Engine) commitQuantity(sess *Session, text string) {
	qty, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || qty < 1 {
		sess.State = StateCancelled
		e.logTerminal(sess, "invalid quantity input")
		e.presenter.Notify(sess.ChatID, "Please enter a valid number for the quantity.")
		return
	}

	delta := qty
	if sess.Action == types.ActionRemove {
		delta = -qty
	}

	if _, err := e.store.AdjustQuantity(sess.Category, sess.Item, delta); err != nil {
		sess.State = StateCancelled
		e.logTerminal(sess, "quantity rejected")
		switch {
		case errors.Is(err, types.ErrInsufficientQuantity):
			e.presenter.Notify(sess.ChatID, "The quantity to remove exceeds the available stock.")
		case errors.Is(err, types.ErrNotFound):
			e.presenter.Notify(sess.ChatID,
				fmt.Sprintf("Item '%s' no longer exists in category %s.", sess.Item, sess.Category))
		default:
			e.log.WithError(err).Error("adjust quantity")
			e.presenter.Notify(sess.ChatID, "Something went wrong. Try again.")
		}
		return
	}

	sess.State = StateCommitted
	e.logTerminal(sess, "mutation committed")

	if sess.Action == types.ActionRemove {
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Removed %d of %s from category %s.", qty, sess.Item, sess.Category))
	} else {
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Added %d of %s to category %s.", qty, sess.Item, sess.Category))
	}

	e.presenter.Report(types.ActionReport{
		Time:      time.Now().UTC(),
		Action:    sess.Action,
		Category:  sess.Category,
		Item:      sess.Item,
		Quantity:  qty,
		User:      sess.User.Name,
		Inventory: e.store.Snapshot(),
	})

	// Clear the conversation noise and repost the root menu so the user can
	// chain another operation.
	e.presenter.ClearTransient(sess.ChatID)
	e.presenter.ShowInventoryMenu(sess.ChatID)
}

func (e *Engine) createCategory(sess *Session, text string) {
	name := types.Canonical(text)
	err := e.store.CreateCategory(name)
	switch {
	case err == nil:
		sess.State = StateCommitted
		e.logTerminal(sess, "category created")
		e.presenter.Notify(sess.ChatID, fmt.Sprintf("Category '%s' created.", name))
	case errors.Is(err, types.ErrDuplicateCategory):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID, fmt.Sprintf("Category '%s' already exists.", name))
	case errors.Is(err, types.ErrInvalidName):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID, "Please enter a valid category name.")
	default:
		sess.State = StateCancelled
		e.log.WithError(err).Error("create category")
		e.presenter.Notify(sess.ChatID, "Something went wrong. Try again.")
	}
}

func (e *Engine) deleteCategory(sess *Session, text string) {
	name := types.Canonical(text)
	err := e.store.DeleteCategory(name)
	switch {
	case err == nil:
		sess.State = StateCommitted
		e.logTerminal(sess, "category deleted")
		e.presenter.Notify(sess.ChatID, fmt.Sprintf("Category '%s' deleted.", name))
	case errors.Is(err, types.ErrNotFound):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID, fmt.Sprintf("Category '%s' does not exist.", name))
	default:
		sess.State = StateCancelled
		e.log.WithError(err).Error("delete category")
		e.presenter.Notify(sess.ChatID, "Something went wrong. Try again.")
	}
}

func (e *Engine) manageCategory(sess *Session, text string) {
	name := types.Canonical(text)
	if _, err := e.store.Items(name); err != nil {
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID, fmt.Sprintf("Category '%s' does not exist.", name))
		return
	}
	sess.State = StateCommitted
	e.presenter.Notify(sess.ChatID, fmt.Sprintf("Managing items in category '%s'.", name))
	e.presenter.ShowItemManageMenu(sess.ChatID, name)
}

func (e *Engine) addItem(sess *Session, text string) {
	item := types.Canonical(text)
	err := e.store.AddItem(sess.Category, item)
	switch {
	case err == nil:
		sess.State = StateCommitted
		e.logTerminal(sess, "item added")
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Item '%s' added to category %s.", item, sess.Category))
	case errors.Is(err, types.ErrDuplicateItem):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Item '%s' already exists in category %s.", item, sess.Category))
	case errors.Is(err, types.ErrNotFound):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Category '%s' no longer exists.", sess.Category))
	case errors.Is(err, types.ErrInvalidName):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID, "Please enter a valid item name.")
	default:
		sess.State = StateCancelled
		e.log.WithError(err).Error("add item")
		e.presenter.Notify(sess.ChatID, "Something went wrong. Try again.")
	}
}

func (e *Engine) removeItem(sess *Session, text string) {
	item := types.Canonical(text)
	err := e.store.RemoveItem(sess.Category, item)
	switch {
	case err == nil:
		sess.State = StateCommitted
		e.logTerminal(sess, "item removed")
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Item '%s' removed from category %s.", item, sess.Category))
	case errors.Is(err, types.ErrNotFound):
		sess.State = StateCancelled
		e.presenter.Notify(sess.ChatID,
			fmt.Sprintf("Item '%s' does not exist in category %s.", item, sess.Category))
	default:
		sess.State = StateCancelled
		e.log.WithError(err).Error("remove item")
		e.presenter.Notify(sess.ChatID, "Something went wrong. Try again.")
	}
}

// beginPrompt starts a free-text prompt session with a deadline.
func (e *Engine) beginPrompt(user User, chatID int64, kind promptKind, category, prompt string) {
	e.mu.Lock()
	sess := e.beginLocked(user, chatID)
	sess.Category = category
	e.toAwaitingTextLocked(sess, kind)
	e.mu.Unlock()

	e.presenter.Prompt(chatID, prompt)
}

// beginLocked creates a fresh session for the user, superseding any
// outstanding one. The caller must hold e.mu.
func (e *Engine) beginLocked(user User, chatID int64) *Session {
	if prev, ok := e.sessions[user.ID]; ok {
		prev.stopDeadline()
		prev.State = StateCancelled
		e.log.WithFields(logrus.Fields{
			"session": prev.ID,
			"user":    user.ID,
		}).Debug("session superseded")
	}

	sess := &Session{
		ID:     newSessionID(),
		User:   user,
		ChatID: chatID,
	}
	e.sessions[user.ID] = sess
	return sess
}

// resumeOrBeginLocked returns the user's session when it belongs to the same
// chat, or begins a fresh one. The caller must hold e.mu.
func (e *Engine) resumeOrBeginLocked(user User, chatID int64) *Session {
	if sess, ok := e.sessions[user.ID]; ok && sess.ChatID == chatID && sess.State != StateAwaitingText {
		return sess
	}
	return e.beginLocked(user, chatID)
}

// toAwaitingTextLocked moves the session into the prompt state and arms the
// deadline timer. The caller must hold e.mu.
func (e *Engine) toAwaitingTextLocked(sess *Session, kind promptKind) {
	sess.stopDeadline()
	sess.State = StateAwaitingText
	sess.prompt = kind

	userID := sess.User.ID
	sessionID := sess.ID
	sess.deadline = time.AfterFunc(e.timeout, func() {
		e.expire(userID, sessionID)
	})
}

// expire is the deadline timer callback. It fires only when the same session
// is still awaiting input; a session completed or superseded meanwhile is
// left alone.
func (e *Engine) expire(userID int64, sessionID string) {
	e.mu.Lock()
	sess, ok := e.sessions[userID]
	if !ok || sess.ID != sessionID || sess.State != StateAwaitingText {
		e.mu.Unlock()
		return
	}
	delete(e.sessions, userID)
	sess.State = StateTimedOut
	e.mu.Unlock()

	e.logTerminal(sess, "session timed out")
	e.presenter.Notify(sess.ChatID, "Time expired. Try again.")
}

// cancelFor drops the user's outstanding session, if any, and notifies.
func (e *Engine) cancelFor(user User, message string, chatID int64) {
	e.mu.Lock()
	if sess, ok := e.sessions[user.ID]; ok {
		sess.stopDeadline()
		sess.State = StateCancelled
		delete(e.sessions, user.ID)
	}
	e.mu.Unlock()

	e.presenter.Notify(chatID, message)
}

// itemDefined reports whether the item is defined in the category.
func (e *Engine) itemDefined(category, item string) bool {
	items, err := e.store.Items(category)
	if err != nil {
		return false
	}
	for _, existing := range items {
		if existing == item {
			return true
		}
	}
	return false
}

func (e *Engine) logTerminal(sess *Session, msg string) {
	e.log.WithFields(logrus.Fields{
		"session":  sess.ID,
		"user":     sess.User.ID,
		"state":    sess.State,
		"category": sess.Category,
		"item":     sess.Item,
	}).Debug(msg)
}
