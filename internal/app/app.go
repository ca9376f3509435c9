// Package app provides application initialization and dependency injection.
//
// App is the core container that wires the database, Genkit, the session
// resolver, the answer service and the corpus indexing pipeline. Setup
// builds everything in dependency order; Close releases it in reverse.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aftervisit/aftervisit/internal/answer"
	"github.com/aftervisit/aftervisit/internal/clinic"
	"github.com/aftervisit/aftervisit/internal/config"
	"github.com/aftervisit/aftervisit/internal/corpus"
	"github.com/aftervisit/aftervisit/internal/record"
	"github.com/aftervisit/aftervisit/internal/sqlc"
)

// App is the core application container.
type App struct {
	// Configuration
	Config *config.Config

	// Core services
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool
	Queries  *sqlc.Queries

	// Domain services
	Clinic *clinic.Store
	Answer *answer.Service
	Corpus *corpus.Store

	// Indexing pipeline
	Builder *corpus.Builder
	Poller  *record.Poller

	logger *slog.Logger

	// Lifecycle management
	otelCleanup func()
	dbCleanup   func()
}

// RunIndexer tails the record tables and keeps the corpus current. It
// blocks until ctx is canceled; run it in its own goroutine alongside the
// HTTP server. since bounds the initial backfill: zero reindexes
// everything.
func (a *App) RunIndexer(ctx context.Context, since time.Time) error {
	forms := a.Poller.Forms(since)
	sessions := a.Poller.Sessions(since)
	return a.Builder.Run(ctx, forms, sessions)
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger.Info("shutting down application")

	if a.dbCleanup != nil {
		a.dbCleanup()
		a.logger.Info("database pool closed")
	}

	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
