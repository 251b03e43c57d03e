// Package types defines the inventory domain types, the Store interface,
// the bot configuration, and the standard errors shared by all backends
// and the session flow engine.
package types
