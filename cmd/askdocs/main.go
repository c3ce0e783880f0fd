// Copyright 2025 Luminai Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/luminai/askdocs"
	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/blob"
	"github.com/luminai/askdocs/blob/fsstore"
	"github.com/luminai/askdocs/blob/minio"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/query"
	"github.com/luminai/askdocs/reindex"
)

func main() {
	app := &cli.App{
		Name:  "askdocs",
		Usage: "Document ingestion and retrieval-augmented question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Upload documents and process them into the index",
				Action:    ingestCommand,
				ArgsUsage: "FILE [FILE...]",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "category",
						Usage: "Optional category tag for the documents",
					},
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "How long to wait for processing to finish",
						Value: 10 * time.Minute,
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Show the processing status of an upload",
				Action: statusCommand,
				Flags: append(serviceFlags(),
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Upload record ID",
						Required: true,
					},
				),
			},
			{
				Name:   "list",
				Usage:  "List uploads, most recent first",
				Action: listCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of uploads to show (0 = all)",
						Value: 20,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question over the ingested documents",
				Action:    askCommand,
				ArgsUsage: "QUESTION",
				Flags: append(serviceFlags(),
					&cli.Uint64Flag{
						Name:    "session",
						Aliases: []string{"s"},
						Usage:   "Continue an existing chat session",
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored chunk with the configured embedding model",
				Action: reindexCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serviceFlags are shared by every command that assembles a Service.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "blob-dir",
			Usage: "Directory for locally stored uploads (ignored when --s3-endpoint is set)",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "S3-compatible endpoint for uploads (enables object storage)",
		},
		&cli.StringFlag{
			Name:    "s3-bucket",
			Usage:   "Bucket holding uploaded documents",
			Value:   "askdocs-uploads",
			EnvVars: []string{"ASKDOCS_S3_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "s3-access-key",
			Usage:   "Access key for the S3 endpoint",
			EnvVars: []string{"ASKDOCS_S3_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "s3-secret-key",
			Usage:   "Secret key for the S3 endpoint",
			EnvVars: []string{"ASKDOCS_S3_SECRET_KEY"},
		},
		&cli.BoolFlag{
			Name:  "s3-ssl",
			Usage: "Use TLS for the S3 endpoint",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible API base URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI host",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat completion model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:    "subject",
			Usage:   "Caller identifier for quota and session ownership",
			Value:   "local",
			EnvVars: []string{"ASKDOCS_SUBJECT"},
		},
		&cli.StringFlag{
			Name:  "role",
			Usage: "Caller role (admin bypasses quota)",
		},
		&cli.StringFlag{
			Name:  "plan",
			Usage: "Caller plan type (freebie, premium)",
			Value: query.PlanFreebie,
		},
		&cli.IntFlag{
			Name:  "extra-prompts",
			Usage: "Purchased top-up prompts",
		},
	}
}

// buildService assembles a Service from command flags.
func buildService(c *cli.Context) (*askdocs.Service, error) {
	blobs, err := buildBlobStore(c)
	if err != nil {
		return nil, err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithToken(c.String("ai-token")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return askdocs.NewService(c.String("db"), blobs, askdocs.WithAIConfig(aiConfig))
}

// buildBlobStore picks object storage when an endpoint is configured,
// otherwise a local directory next to the database.
func buildBlobStore(c *cli.Context) (blob.Store, error) {
	if endpoint := c.String("s3-endpoint"); endpoint != "" {
		return minio.NewStore(context.Background(), &minio.Config{
			Endpoint:  endpoint,
			AccessKey: c.String("s3-access-key"),
			SecretKey: c.String("s3-secret-key"),
			Bucket:    c.String("s3-bucket"),
			UseSSL:    c.Bool("s3-ssl"),
		})
	}

	dir := c.String("blob-dir")
	if dir == "" {
		dir = filepath.Join(c.String("db"), "blobs")
	}
	return fsstore.NewStore(dir)
}

// buildIdentity reads the caller identity from command flags.
func buildIdentity(c *cli.Context) core.Identity {
	return core.Identity{
		Subject:      c.String("subject"),
		Role:         c.String("role"),
		PlanType:     c.String("plan"),
		ExtraPrompts: c.Int("extra-prompts"),
	}
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	ctx := context.Background()
	identity := buildIdentity(c)

	for _, path := range c.Args().Slice() {
		if err := ingestOne(ctx, service, identity, path, c.String("category"), c.Duration("wait")); err != nil {
			return err
		}
	}
	return nil
}

func ingestOne(ctx context.Context, service *askdocs.Service, identity core.Identity, path, category string, wait time.Duration) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	record, err := service.IngestFile(ctx, identity, filepath.Base(path), f, info.Size(), category)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}
	fmt.Printf("accepted %s as upload %d\n", path, record.Id)

	deadline := time.Now().Add(wait)
	for {
		stored, err := service.Status(ctx, record.Id)
		if err != nil {
			return err
		}
		if stored.Status.Terminal() {
			printUpload(stored)
			return nil
		}
		if time.Now().After(deadline) {
			fmt.Printf("upload %d still %s; check later with: askdocs status --id %d\n",
				record.Id, stored.Status, record.Id)
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func statusCommand(c *cli.Context) error {
	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	record, err := service.Status(context.Background(), core.ID(c.Uint64("id")))
	if err != nil {
		return err
	}
	printUpload(record)
	return nil
}

func listCommand(c *cli.Context) error {
	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	records, err := service.Uploads(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}
	for _, record := range records {
		printUpload(record)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	answer, sid, err := service.Ask(context.Background(), buildIdentity(c), question, core.ID(c.Uint64("session")))
	if err != nil {
		return err
	}

	fmt.Println(answer)
	fmt.Fprintf(os.Stderr, "\n(session %d; continue with --session %d)\n", sid, sid)
	return nil
}

func reindexCommand(c *cli.Context) error {
	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := service.NewReindexer(config, os.Stderr).Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func printUpload(record *core.UploadRecord) {
	line := fmt.Sprintf("%d\t%s\t%s", record.Id, record.Status, record.OriginalName)
	switch record.Status {
	case core.StatusCompleted:
		line += fmt.Sprintf("\t%d chunks", record.ChunksProcessed)
	case core.StatusFailed:
		line += "\t" + record.Error
	}
	fmt.Println(line)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
