package cli

import (
	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/emoji"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// GetStatusEmoji returns the emoji of an election status
func GetStatusEmoji(status election.Status) string {
	if status == election.Ended {
		return GetEmoji("ended")
	}
	return GetEmoji("live")
}
