package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckInput(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"Who is the best dino?", true},
		{"ping @channel", false},
		{"ping <!channel>", false},
		{"@everyone party", false},
		{"@EVERYONE PARTY", false},
		{"hiding <!EveryOne> here", false},
		{"come @here now", false},
		{"<!here>", false},
		{"email me @everyone.com", false},
		{"channel discussion", true},
		{"", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, CheckInput(tt.input), "input %q", tt.input)
	}
}
