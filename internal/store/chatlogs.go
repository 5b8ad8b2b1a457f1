package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chatpulse/chatpulse/internal/enrich"
)

// StoredMessage is one enriched message row as read back from the database.
// Score columns are nullable: a task that was not requested leaves its
// columns NULL.
type StoredMessage struct {
	ID           uuid.UUID `json:"id"`
	DateHour     time.Time `json:"date_hour"`
	Author       string    `json:"author"`
	Body         string    `json:"body"`
	NEG          *float64  `json:"NEG,omitempty"`
	NEU          *float64  `json:"NEU,omitempty"`
	POS          *float64  `json:"POS,omitempty"`
	MaxSentiment *string   `json:"max_sentiment,omitempty"`
	Others       *float64  `json:"others,omitempty"`
	Joy          *float64  `json:"joy,omitempty"`
	Sadness      *float64  `json:"sadness,omitempty"`
	Anger        *float64  `json:"anger,omitempty"`
	Surprise     *float64  `json:"surprise,omitempty"`
	Disgust      *float64  `json:"disgust,omitempty"`
	Fear         *float64  `json:"fear,omitempty"`
	MaxEmotion   *string   `json:"max_emotion,omitempty"`
}

// CreateChatLog records one ingested export and returns its id.
func (s *Store) CreateChatLog(ctx context.Context, source, grammar string, messageCount int) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_logs (id, source, grammar, message_count, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		id, source, grammar, messageCount,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert chat log: %w", err)
	}
	return id, nil
}

// WriteMessages persists the enriched messages of one chat log in a single
// transaction.
func (s *Store) WriteMessages(ctx context.Context, chatLogID uuid.UUID, msgs []enrich.EnrichedMessage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, m := range msgs {
		var neg, neu, pos *float64
		var maxSentiment *string
		var others, joy, sadness, anger, surprise, disgust, fear *float64
		var maxEmotion *string
		if sc := m.Scores.Sentiment; sc != nil {
			neg, neu, pos = &sc.NEG, &sc.NEU, &sc.POS
			maxSentiment = &sc.Max
		}
		if sc := m.Scores.Emotion; sc != nil {
			others, joy, sadness = &sc.Others, &sc.Joy, &sc.Sadness
			anger, surprise = &sc.Anger, &sc.Surprise
			disgust, fear = &sc.Disgust, &sc.Fear
			maxEmotion = &sc.Max
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO chat_messages (
				id, chat_log_id, seq, date_hour, author, body,
				neg, neu, pos, max_sentiment,
				others, joy, sadness, anger, surprise, disgust, fear, max_emotion
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			uuid.New(), chatLogID, i, m.Timestamp, m.Author, m.Body,
			neg, neu, pos, maxSentiment,
			others, joy, sadness, anger, surprise, disgust, fear, maxEmotion,
		)
		if err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListMessages returns a chat log's messages in source order.
func (s *Store) ListMessages(ctx context.Context, chatLogID uuid.UUID) ([]StoredMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date_hour, author, body,
		       neg, neu, pos, max_sentiment,
		       others, joy, sadness, anger, surprise, disgust, fear, max_emotion
		FROM chat_messages
		WHERE chat_log_id = $1
		ORDER BY seq`,
		chatLogID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(
			&m.ID, &m.DateHour, &m.Author, &m.Body,
			&m.NEG, &m.NEU, &m.POS, &m.MaxSentiment,
			&m.Others, &m.Joy, &m.Sadness, &m.Anger, &m.Surprise, &m.Disgust, &m.Fear, &m.MaxEmotion,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
