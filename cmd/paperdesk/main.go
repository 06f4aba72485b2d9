// Command paperdesk is the research paper assistant CLI and server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	configfile "github.com/quill-labs/paperdesk/internal/adapters/driven/config/file"
	embeddingollama "github.com/quill-labs/paperdesk/internal/adapters/driven/embedding/ollama"
	"github.com/quill-labs/paperdesk/internal/adapters/driven/extract/plaintext"
	llmollama "github.com/quill-labs/paperdesk/internal/adapters/driven/llm/ollama"
	"github.com/quill-labs/paperdesk/internal/adapters/driven/papers/arxiv"
	"github.com/quill-labs/paperdesk/internal/adapters/driven/rerank/lexical"
	"github.com/quill-labs/paperdesk/internal/adapters/driven/storage/sqlite"
	"github.com/quill-labs/paperdesk/internal/adapters/driving/cli"
	"github.com/quill-labs/paperdesk/internal/agents"
	"github.com/quill-labs/paperdesk/internal/chunker"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/services"
	"github.com/quill-labs/paperdesk/internal/logger"
	"github.com/quill-labs/paperdesk/internal/workerpool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reload configuration when the file changes on disk.
	watchStop := make(chan struct{})
	defer close(watchStop)
	go func() {
		if err := cfg.Watch(watchStop, nil); err != nil {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()

	embedder := embeddingollama.NewEmbeddingService(embeddingollama.Config{
		BaseURL:    cfg.GetString("embedding.base_url"),
		Model:      cfg.GetString("embedding.model"),
		Dimensions: cfg.GetInt("embedding.dimensions"),
	})
	defer embedder.Close()

	llm := llmollama.NewLLMService(llmollama.Config{
		BaseURL: cfg.GetString("llm.base_url"),
		Model:   cfg.GetString("llm.model"),
	})
	defer llm.Close()

	store, err := sqlite.NewStore(cfg.GetString("storage.dir"), embedder)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	pool := workerpool.New(cfg.GetInt("workers.count"), cfg.GetInt("workers.queue"))
	defer pool.Close()

	var chunkOpts []chunker.Option
	if size := cfg.GetInt("chunking.size"); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := cfg.GetInt("chunking.overlap"); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}
	splitter := chunker.New(chunkOpts...)

	registry := services.NewRegistryService(store, registryOptions(cfg)...)
	ingest := services.NewIngestService(registry, plaintext.New(), splitter)
	analysis := agents.NewPipeline(llm)
	qna := services.NewQnAService(registry, lexical.New(), analysis, pool,
		qnaOptions(cfg)...)
	summary := services.NewSummaryService(registry, analysis, pool,
		summaryOptions(cfg)...)
	papers := services.NewPaperService(registry, paperSources(cfg), analysis,
		paperOptions(cfg)...)

	return cli.Execute(ctx, cli.Deps{
		Registry: registry,
		Ingest:   ingest,
		QnA:      qna,
		Summary:  summary,
		Papers:   papers,
		Config:   cfg,
	})
}

// registryOptions maps config keys onto registry options.
func registryOptions(cfg driven.ConfigStore) []services.RegistryOption {
	var opts []services.RegistryOption
	if n := cfg.GetInt("storage.batch_size"); n > 0 {
		opts = append(opts, services.WithBatchSize(n))
	}
	if s := cfg.GetInt("cache.ttl_seconds"); s > 0 {
		opts = append(opts, services.WithCacheTTL(time.Duration(s)*time.Second))
	}
	return opts
}

// paperOptions maps config keys onto paper search options.
func paperOptions(cfg driven.ConfigStore) []services.PaperOption {
	var opts []services.PaperOption
	if n := cfg.GetInt("paper_sources.max_results"); n > 0 {
		opts = append(opts, services.WithSearchLimit(n))
	}
	return opts
}

// qnaOptions maps config keys onto QnA service options.
func qnaOptions(cfg driven.ConfigStore) []services.QnAOption {
	var opts []services.QnAOption
	if n := cfg.GetInt("retrieval.candidates"); n > 0 {
		opts = append(opts, services.WithCandidates(n))
	}
	if k := cfg.GetInt("retrieval.top_k"); k > 0 {
		opts = append(opts, services.WithTopK(k))
	}
	if s := cfg.GetInt("retrieval.answer_timeout_seconds"); s > 0 {
		opts = append(opts, services.WithAnswerTimeout(time.Duration(s)*time.Second))
	}
	return opts
}

// summaryOptions maps config keys onto summary service options.
func summaryOptions(cfg driven.ConfigStore) []services.SummaryOption {
	var opts []services.SummaryOption
	if s := cfg.GetInt("summary.timeout_seconds"); s > 0 {
		opts = append(opts, services.WithSummaryTimeout(time.Duration(s)*time.Second))
	}
	return opts
}

// paperSources builds the configured external sources. arXiv is the
// default when nothing is configured.
func paperSources(cfg driven.ConfigStore) []driven.PaperSource {
	enabled := cfg.GetStringSlice("paper_sources.enabled")
	if len(enabled) == 0 {
		enabled = []string{"arxiv"}
	}

	var sources []driven.PaperSource
	for _, name := range enabled {
		switch name {
		case "arxiv":
			sources = append(sources, arxiv.New(arxiv.Config{
				BaseURL: cfg.GetString("paper_sources.arxiv.base_url"),
			}))
		default:
			logger.Warn("unknown paper source %q ignored", name)
		}
	}
	return sources
}
