// Package enrich runs the classification stage of the pipeline: one backend
// call per message per requested task, bounded-parallel, output in input
// order.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/chatpulse/chatpulse/internal/chatlog"
	"github.com/chatpulse/chatpulse/internal/classify"
)

// Predictor is the classification backend boundary.
type Predictor interface {
	Predict(ctx context.Context, text string, task classify.Task, lang string) (classify.Prediction, error)
}

// EnrichedMessage pairs a parsed message with its classification scores.
type EnrichedMessage struct {
	chatlog.Message
	Scores classify.Scores `json:"scores"`
}

type Enricher struct {
	predictor Predictor
	mode      classify.Mode
	lang      string
	workers   int
	logger    *slog.Logger
}

func New(p Predictor, mode classify.Mode, lang string, workers int, logger *slog.Logger) *Enricher {
	if workers < 1 {
		workers = 4
	}
	return &Enricher{predictor: p, mode: mode, lang: lang, workers: workers, logger: logger}
}

// EnrichAll classifies every message under every task the mode requires.
// An empty mode or lang falls back to the configured default; a set mode
// must be valid (callers validate with classify.ParseMode, an unknown value
// fails the batch here). The first backend failure cancels the remaining
// work and fails the batch, matching the all-or-nothing contract of record
// building.
func (e *Enricher) EnrichAll(ctx context.Context, msgs []chatlog.Message, mode classify.Mode, lang string) ([]EnrichedMessage, error) {
	if mode == "" {
		mode = e.mode
	}
	if lang == "" {
		lang = e.lang
	}
	tasks := mode.Tasks()
	if len(tasks) == 0 {
		return nil, fmt.Errorf("invalid classification mode %q", mode)
	}

	e.logger.Info("enriching messages", "count", len(msgs), "mode", string(mode), "lang", lang, "workers", e.workers)

	out := make([]EnrichedMessage, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range msgs {
		i := i
		g.Go(func() error {
			out[i].Message = msgs[i]
			for _, task := range tasks {
				p, err := e.predictor.Predict(gctx, msgs[i].Body, task, lang)
				if err != nil {
					return fmt.Errorf("classify message %d (%s): %w", i, task, err)
				}
				if err := out[i].Scores.Apply(p); err != nil {
					return fmt.Errorf("message %d: %w", i, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("enrichment complete", "count", len(out))
	return out, nil
}
