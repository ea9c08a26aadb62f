package poll

import "strings"

// Broadcast mentions in both raw and Slack-escaped forms. Polls must not ping
// the whole channel.
var broadcastMentions = []string{
	"@channel", "<!channel>",
	"@everyone", "<!everyone>",
	"@here", "<!here>",
}

// CheckInput reports whether user-supplied text is safe to post.
func CheckInput(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range broadcastMentions {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}
