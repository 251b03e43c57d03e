package telegram

import (
	"strings"

	"github.com/k4doshh/bau-tribo/pkg/types"
)

// Callback data encoding. Every interactive control carries its selection
// identifier in its callback data and all controls dispatch through one
// generic handler. A name is always the final field, so names survive
// unescaped.
const (
	kindInventory  = "inv"  // inv|<action>
	kindCategory   = "cat"  // cat|<action>|<category>
	kindItem       = "item" // item|<item>
	kindManage     = "mgmt" // mgmt|<op>
	kindManageItem = "mi"   // mi|<op>|<category>
)

// Management operations.
const (
	opCreate = "create"
	opDelete = "delete"
	opManage = "manage"
	opAdd    = "add"
	opRemove = "del"
)

// callbackData is one decoded control selection.
type callbackData struct {
	kind   string
	action types.Action
	op     string
	name   string
}

func actionCallback(action types.Action) string {
	return kindInventory + "|" + string(action)
}

func categoryCallback(action types.Action, category string) string {
	return kindCategory + "|" + string(action) + "|" + category
}

func itemCallback(item string) string {
	return kindItem + "|" + item
}

func manageCallback(op string) string {
	return kindManage + "|" + op
}

func manageItemCallback(op, category string) string {
	return kindManageItem + "|" + op + "|" + category
}

// parseCallback decodes callback data. It returns false for anything that is
// not a recognized control, including data from older bot versions.
func parseCallback(data string) (callbackData, bool) {
	kind, rest, found := strings.Cut(data, "|")
	if !found {
		return callbackData{}, false
	}

	switch kind {
	case kindInventory:
		action := types.Action(rest)
		if action != types.ActionAdd && action != types.ActionRemove {
			return callbackData{}, false
		}
		return callbackData{kind: kind, action: action}, true

	case kindCategory:
		actionStr, name, found := strings.Cut(rest, "|")
		if !found || name == "" {
			return callbackData{}, false
		}
		action := types.Action(actionStr)
		if action != types.ActionAdd && action != types.ActionRemove {
			return callbackData{}, false
		}
		return callbackData{kind: kind, action: action, name: name}, true

	case kindItem:
		if rest == "" {
			return callbackData{}, false
		}
		return callbackData{kind: kind, name: rest}, true

	case kindManage:
		if rest != opCreate && rest != opDelete && rest != opManage {
			return callbackData{}, false
		}
		return callbackData{kind: kind, op: rest}, true

	case kindManageItem:
		op, name, found := strings.Cut(rest, "|")
		if !found || name == "" || (op != opAdd && op != opRemove) {
			return callbackData{}, false
		}
		return callbackData{kind: kind, op: op, name: name}, true
	}

	return callbackData{}, false
}
