package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectIngest is the subject chatpulse listens on for ingestion requests.
	SubjectIngest = "chatpulse.chatlog.ingest"
	// SubjectIngested announces a completed ingestion.
	SubjectIngested = "chatpulse.chatlog.ingested"
)

// IngestRequest asks the service to ingest a chat export from a local path.
// MinCount is a pointer so an explicit zero (retain every author) is
// distinguishable from an absent field, which means the configured default.
// Mode and Lang override the configured classification settings when set.
type IngestRequest struct {
	Path     string `json:"path"`
	MinCount *int   `json:"min_count,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

// IngestedEvent is published after a chat log has been parsed, enriched and
// stored.
type IngestedEvent struct {
	ChatLogID string `json:"chat_log_id"`
	Source    string `json:"source"`
	Grammar   string `json:"grammar"`
	Messages  int    `json:"messages"`
	Dropped   int    `json:"dropped"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
