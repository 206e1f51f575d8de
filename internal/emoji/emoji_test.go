package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	t.Cleanup(func() { SetEmojiDisabled(false) })

	tests := []struct {
		key      string
		disabled bool
		want     string
	}{
		{"success", false, "✅"},
		{"success", true, "[OK]"},
		{"pending", true, "[...]"},
		{"leader", true, "[LEAD]"},
		{"missing", false, "[?]"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			SetEmojiDisabled(tt.disabled)
			if IsEmojiDisabled() != tt.disabled {
				t.Fatalf("IsEmojiDisabled() = %v, want %v", IsEmojiDisabled(), tt.disabled)
			}
			if got := GetEmoji(tt.key); got != tt.want {
				t.Errorf("GetEmoji(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
