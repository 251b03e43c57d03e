package session

import "github.com/k4doshh/bau-tribo/pkg/types"

// Presenter renders menus and messages for the engine. The Telegram adapter
// implements it against the bot API; tests use a recording fake. The engine
// never talks to the chat platform directly.
type Presenter interface {
	// ShowInventoryMenu posts the root add/remove menu.
	ShowInventoryMenu(chatID int64)

	// ShowCategoryMenu posts the category-management root menu.
	ShowCategoryMenu(chatID int64)

	// ShowCategorySelect posts one selectable control per category.
	// An empty category list is presented as-is, not treated as an error.
	ShowCategorySelect(chatID int64, action types.Action, categories []string)

	// ShowItemSelect posts one selectable control per item defined in the
	// category.
	ShowItemSelect(chatID int64, action types.Action, category string, items []string)

	// ShowItemManageMenu posts the add/remove item-definition menu for a
	// category.
	ShowItemManageMenu(chatID int64, category string)

	// Prompt asks the user for free-text input.
	Prompt(chatID int64, text string)

	// Notify reports a session outcome or error to the user.
	Notify(chatID int64, text string)

	// Report emits the structured action log entry after a committed
	// mutation.
	Report(report types.ActionReport)

	// ClearTransient removes the conversation noise accumulated since the
	// last root menu.
	ClearTransient(chatID int64)
}
