package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Notifier pushes short status messages to a Telegram chat. With no token or
// chat id it silently no-ops, so notifications stay optional.
type Notifier struct {
	token  string
	chatID string
}

func New(token, chatID string) *Notifier {
	return &Notifier{token: token, chatID: chatID}
}

// Notify sends a Markdown message. Failures are logged, never returned: a
// missed notification must not fail the operation that triggered it.
func (n *Notifier) Notify(text string) {
	if n.token == "" || n.chatID == "" {
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.token)
	payload := map[string]string{
		"chat_id":    n.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Telegram notification failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Telegram API error: status %s", resp.Status)
	}
}
