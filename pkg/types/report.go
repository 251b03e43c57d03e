package types

import "time"

// ActionReport describes one committed inventory mutation. It is emitted to
// the configured log destination after every commit.
type ActionReport struct {
	Time      time.Time `json:"time"`
	Action    Action    `json:"action"`
	Category  string    `json:"category"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	User      string    `json:"user"`
	Inventory Inventory `json:"inventory"`
}
