package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Chat posts a short status card to a chat webhook.
type Chat struct {
	Webhook string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewChat(webhook string, logger *zap.Logger) *Chat {
	if webhook == "" {
		return nil
	}
	return &Chat{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

type chatCardHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type chatCard struct {
	Header chatCardHeader `json:"header"`
}

type chatPayload struct {
	Text  string     `json:"text"`
	Cards []chatCard `json:"cards"`
}

func statusPayload(healthy bool) chatPayload {
	status := "Status: 💚💚💚"
	text := ""
	if !healthy {
		status = "Status: 💔💔💔"
		text = "*Attention <users/all> Healthcheck has failed*"
	}
	return chatPayload{
		Text: text,
		Cards: []chatCard{
			{Header: chatCardHeader{Title: "SecureDrop Monitor", Subtitle: status}},
		},
	}
}

func (c *Chat) SendStatus(ctx context.Context, healthy bool) error {
	if c == nil || c.Webhook == "" {
		return errors.New("chat disabled")
	}
	body, _ := json.Marshal(statusPayload(healthy))
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.Webhook, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The webhook's status code is logged, not interpreted.
	c.Logger.Info("chat_status_sent",
		zap.Bool("healthy", healthy),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

var _ StatusNotifier = (*Chat)(nil)
