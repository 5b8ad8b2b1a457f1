// Package ingest runs the full chat-log pipeline: normalize, detect and
// extract, build records, filter low-activity authors, classify, persist,
// announce.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/chatpulse/chatpulse/internal/bus"
	"github.com/chatpulse/chatpulse/internal/chatlog"
	"github.com/chatpulse/chatpulse/internal/classify"
	"github.com/chatpulse/chatpulse/internal/enrich"
)

// Recorder persists ingestion results. Nil disables persistence (CLI mode).
type Recorder interface {
	CreateChatLog(ctx context.Context, source, grammar string, messageCount int) (uuid.UUID, error)
	WriteMessages(ctx context.Context, chatLogID uuid.UUID, msgs []enrich.EnrichedMessage) error
}

// Publisher announces completed ingestions. Nil disables announcements.
type Publisher interface {
	Publish(subject string, data any) error
}

// Enricher attaches classification scores to parsed messages. Empty mode
// or lang means the enricher's configured default.
type Enricher interface {
	EnrichAll(ctx context.Context, msgs []chatlog.Message, mode classify.Mode, lang string) ([]enrich.EnrichedMessage, error)
}

// Options override the pipeline defaults for one request. A nil MinCount
// keeps the configured threshold; an explicit zero retains every author. An
// empty Mode or Lang keeps the enricher's configured values; a set Mode must
// already be validated with classify.ParseMode.
type Options struct {
	MinCount *int
	Mode     classify.Mode
	Lang     string
}

type Ingestor struct {
	store    Recorder
	bus      Publisher
	enricher Enricher
	minCount int
	logger   *slog.Logger
}

// Result summarizes one pipeline run.
type Result struct {
	ChatLogID uuid.UUID                `json:"chat_log_id,omitempty"`
	Source    string                   `json:"source"`
	Grammar   chatlog.GrammarID        `json:"-"`
	Messages  []enrich.EnrichedMessage `json:"messages"`
	Dropped   int                      `json:"dropped"`
}

func New(store Recorder, b Publisher, e Enricher, minCount int, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		store:    store,
		bus:      b,
		enricher: e,
		minCount: minCount,
		logger:   logger,
	}
}

// IngestFile reads and ingests a chat export from disk. A missing file is a
// file-access error, reported before any parsing happens.
func (ing *Ingestor) IngestFile(ctx context.Context, path string, opts Options) (*Result, error) {
	raw, err := chatlog.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ing.IngestText(ctx, filepath.Base(path), raw, opts)
}

// IngestText runs the pipeline over raw export text. Text matching no
// grammar yields an empty result with no error.
func (ing *Ingestor) IngestText(ctx context.Context, source, raw string, opts Options) (*Result, error) {
	minCount := ing.minCount
	if opts.MinCount != nil {
		minCount = *opts.MinCount
	}

	text := chatlog.Normalize(raw)
	grammarID, rawMatches := chatlog.Extract(text)
	if grammarID == chatlog.GrammarUnknown {
		ing.logger.Info("no grammar matched", "source", source)
		return &Result{Source: source, Grammar: grammarID}, nil
	}

	msgs, err := chatlog.BuildRecords(grammarID, rawMatches)
	if err != nil {
		return nil, fmt.Errorf("build records: %w", err)
	}

	kept := chatlog.FilterByActivity(msgs, minCount)
	dropped := len(msgs) - len(kept)

	ing.logger.Info("chat log parsed",
		"source", source,
		"grammar", grammarID.String(),
		"records", len(msgs),
		"dropped", dropped,
	)

	enriched, err := ing.enricher.EnrichAll(ctx, kept, opts.Mode, opts.Lang)
	if err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}

	result := &Result{
		Source:   source,
		Grammar:  grammarID,
		Messages: enriched,
		Dropped:  dropped,
	}

	if ing.store != nil {
		id, err := ing.store.CreateChatLog(ctx, source, grammarID.String(), len(enriched))
		if err != nil {
			return nil, fmt.Errorf("create chat log: %w", err)
		}
		if err := ing.store.WriteMessages(ctx, id, enriched); err != nil {
			return nil, fmt.Errorf("write messages: %w", err)
		}
		result.ChatLogID = id
	}

	if ing.bus != nil {
		evt := bus.IngestedEvent{
			ChatLogID: result.ChatLogID.String(),
			Source:    source,
			Grammar:   grammarID.String(),
			Messages:  len(enriched),
			Dropped:   dropped,
		}
		if err := ing.bus.Publish(bus.SubjectIngested, evt); err != nil {
			ing.logger.Warn("failed to publish ingested event", "error", err)
		}
	}

	return result, nil
}

// HandleIngestRequest is the NATS handler for bus.SubjectIngest.
func (ing *Ingestor) HandleIngestRequest(subject string, data []byte) {
	var req bus.IngestRequest
	if err := json.Unmarshal(data, &req); err != nil {
		ing.logger.Error("failed to parse ingest request", "error", err)
		return
	}
	if req.Path == "" {
		ing.logger.Error("ingest request without path")
		return
	}

	opts := Options{MinCount: req.MinCount, Lang: req.Lang}
	if req.Mode != "" {
		mode, err := classify.ParseMode(req.Mode)
		if err != nil {
			ing.logger.Error("rejected ingest request", "path", req.Path, "error", err)
			return
		}
		opts.Mode = mode
	}

	if _, err := ing.IngestFile(context.Background(), req.Path, opts); err != nil {
		ing.logger.Error("ingest request failed", "path", req.Path, "error", err)
	}
}
