package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobscout/internal/config"
)

// chunkLimit stays under Telegram's 4096 character message cap with room
// for the subject line.
const chunkLimit = 3800

// Telegram sends digests to a single chat via the Bot API.
type Telegram struct {
	token   string
	chatID  string
	client  *http.Client
	apiBase string
}

func NewTelegram(cfg config.NotifyConfig) *Telegram {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Telegram{
		token:   cfg.TelegramToken,
		chatID:  cfg.TelegramChatID,
		client:  &http.Client{Timeout: timeout},
		apiBase: "https://api.telegram.org",
	}
}

func (t *Telegram) Configured() bool {
	return t != nil && t.token != "" && t.chatID != ""
}

func (t *Telegram) Send(ctx context.Context, subject, body string) error {
	if !t.Configured() {
		return ErrUnavailable
	}

	for _, chunk := range chunkMessage(subject, body) {
		if err := t.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// chunkMessage splits one digest into messages that fit the API cap. Only
// the first chunk carries the subject line.
func chunkMessage(subject, body string) []string {
	header := "*" + escapeMarkdown(subject) + "*\n\n"

	var chunks []string
	var current strings.Builder
	current.WriteString(header)

	for _, line := range strings.Split(body, "\n") {
		entry := escapeMarkdown(line) + "\n"
		if current.Len()+len(entry) > chunkLimit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func (t *Telegram) send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(t.apiBase, "/"), t.token)

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error %d: %v", resp.StatusCode, result["description"])
	}
	return nil
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
		">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
		"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
		".", "\\.", "!", "\\!",
	)
	return replacer.Replace(s)
}

var _ Notifier = (*Telegram)(nil)
