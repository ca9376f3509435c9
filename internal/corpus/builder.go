package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/firebase/genkit/go/ai"

	"github.com/aftervisit/aftervisit/internal/record"
	"github.com/aftervisit/aftervisit/internal/render"
)

// Sink receives the chunks the Builder produces. *Store is the production
// implementation; tests substitute an in-memory one.
type Sink interface {
	Upsert(ctx context.Context, chunk Chunk) error
}

// Builder turns form and session records into embedded chunks.
//
// Each record is rendered to text, and records that render to nothing are
// dropped without touching the sink. Processing is at-least-once: a record
// that fails to embed or persist is logged and skipped, and a later update
// of the same record supersedes any earlier version through the sink's
// upsert semantics.
type Builder struct {
	embedder ai.Embedder
	sink     Sink
	logger   *slog.Logger

	// workers bounds concurrent embedding calls across both streams.
	workers  chan struct{}
	inFlight sync.WaitGroup
}

// DefaultWorkers is the embedding concurrency used when NewBuilder
// receives a non-positive worker count.
const DefaultWorkers = 4

// NewBuilder creates a Builder. logger may be nil.
func NewBuilder(embedder ai.Embedder, sink Sink, workers int, logger *slog.Logger) *Builder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		embedder: embedder,
		sink:     sink,
		logger:   logger,
		workers:  make(chan struct{}, workers),
	}
}

// Run consumes both streams until they end or ctx is cancelled. It returns
// the first subscription error, which is nil for a normal end of stream.
func (b *Builder) Run(ctx context.Context, forms record.Stream[record.FormRecord], sessions record.Stream[record.SessionRecord]) error {
	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- forms.Subscribe(ctx, b.handleForm)
	}()
	go func() {
		defer wg.Done()
		errs <- sessions.Subscribe(ctx, b.handleSession)
	}()

	wg.Wait()
	b.inFlight.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) handleForm(ctx context.Context, rec record.FormRecord) error {
	text := render.Form(rec.Questions, rec.Answers)
	if text == "" {
		b.logger.Debug("skipping empty form", "form_id", rec.ID)
		return nil
	}

	return b.dispatch(ctx, Chunk{
		PatientID:  rec.PatientID,
		SourceType: SourceTypeForm,
		SourceRef:  rec.ID,
		Text:       text,
	})
}

func (b *Builder) handleSession(ctx context.Context, rec record.SessionRecord) error {
	if !render.HasContent(rec.Summary, rec.Medications) {
		b.logger.Debug("skipping empty session", "session_id", rec.ID)
		return nil
	}

	return b.dispatch(ctx, Chunk{
		PatientID:  rec.PatientID,
		SourceType: SourceTypeSession,
		SourceRef:  rec.ID,
		Text:       render.SessionForCorpus(rec.Summary, rec.Medications),
	})
}

// dispatch hands a chunk to the worker pool. It blocks while the pool is
// full, which applies backpressure to the stream, and spawns the actual
// work so slow embedding calls do not stall unrelated records. Worker slots
// are acquired in stream order.
func (b *Builder) dispatch(ctx context.Context, chunk Chunk) error {
	select {
	case b.workers <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.inFlight.Add(1)
	go func() {
		defer b.inFlight.Done()
		defer func() { <-b.workers }()

		if err := b.process(ctx, chunk); err != nil {
			b.logger.Error("failed to index chunk", "key", chunk.Key(), "error", err)
		}
	}()
	return nil
}

// process embeds and persists one chunk.
func (b *Builder) process(ctx context.Context, chunk Chunk) error {
	embedding, err := b.embed(ctx, chunk.Text)
	if err != nil {
		return fmt.Errorf("embedding chunk %s: %w", chunk.Key(), err)
	}
	chunk.Embedding = embedding

	if err := b.sink.Upsert(ctx, chunk); err != nil {
		return fmt.Errorf("persisting chunk %s: %w", chunk.Key(), err)
	}

	b.logger.Debug("indexed chunk", "key", chunk.Key(), "dimensions", len(embedding))
	return nil
}

func (b *Builder) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := b.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no embeddings")
	}
	return resp.Embeddings[0].Embedding, nil
}
