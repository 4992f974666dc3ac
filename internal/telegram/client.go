package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is the largest reply sent as a single Telegram message.
// Telegram's hard limit is ~4096; longer replies are chunked.
const maxMessageLen = 4000

// Client wraps the Telegram bot API for the handler layer.
type Client struct {
	bot        *tgbotapi.BotAPI
	httpClient *http.Client
}

func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	log.Printf("✅ Telegram connected as @%s", bot.Self.UserName)

	return &Client{
		bot:        bot,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Updates returns the long-poll update channel.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return c.bot.GetUpdatesChan(u)
}

// Stop shuts down the long-poll loop.
func (c *Client) Stop() {
	c.bot.StopReceivingUpdates()
}

// SendText delivers a reply, chunking anything over the Telegram limit into
// labeled continuation messages.
func (c *Client) SendText(chatID int64, text string, markdown bool) error {
	for _, part := range splitMessage(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(chatID, part)
		if markdown {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		if _, err := c.bot.Send(msg); err != nil {
			// Markdown from the LLM is not always valid; retry plain
			if markdown {
				msg.ParseMode = ""
				if _, retryErr := c.bot.Send(msg); retryErr == nil {
					continue
				}
			}
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes. Chunks after
// the first carry a continuation label.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	label := func(i, n int) string { return fmt.Sprintf("(parte %d/%d)\n", i, n) }

	// Leave room for the label itself.
	chunkLen := limit - len(label(99, 99))
	total := (len(runes) + chunkLen - 1) / chunkLen

	var parts []string
	for i := 0; i < total; i++ {
		start := i * chunkLen
		end := start + chunkLen
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		if i > 0 {
			chunk = label(i+1, total) + chunk
		}
		parts = append(parts, chunk)
	}
	return parts
}

// DownloadVoice fetches the raw bytes of a voice note by its file id.
func (c *Client) DownloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	url, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voice file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download voice file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice download failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
