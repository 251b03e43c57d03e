package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower case upper-cased", in: "sword", want: "SWORD"},
		{name: "mixed case upper-cased", in: "Sword", want: "SWORD"},
		{name: "already canonical unchanged", in: "SWORD", want: "SWORD"},
		{name: "surrounding whitespace trimmed", in: "  weapons \n", want: "WEAPONS"},
		{name: "inner whitespace preserved", in: "health potion", want: "HEALTH POTION"},
		{name: "empty stays empty", in: "", want: ""},
		{name: "whitespace only collapses to empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}
