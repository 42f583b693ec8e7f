package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	httpadapter "newsroom/internal/adapters/http"
	"newsroom/internal/adapters/llm"
	amqpmailbox "newsroom/internal/adapters/mailbox/amqp"
	memmailbox "newsroom/internal/adapters/mailbox/memory"
	filestore "newsroom/internal/adapters/storage/file"
	firestorestore "newsroom/internal/adapters/storage/firestore"
	memstore "newsroom/internal/adapters/storage/memory"
	sqlitestore "newsroom/internal/adapters/storage/sqlite"
	"newsroom/internal/app/newsroom"
	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/observability"
)

func main() {
	root := &cobra.Command{
		Use:   "newsroom",
		Short: "newsroom: a three-agent article pipeline",
		Long:  "newsroom coordinates a Researcher, a Writer and an Editor through a shared mailbox to turn a topic into a finished article.",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var showLog bool

	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Generate one article, or start an interactive topic loop",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := config.Load()

			gen, err := buildGenerator(ctx, cfg)
			if err != nil {
				return err
			}
			archive, err := buildArchive(ctx, cfg)
			if err != nil {
				return err
			}
			roster, err := buildRoster(cfg)
			if err != nil {
				return err
			}

			runOne := func(topic string) error {
				mb, err := buildMailbox(ctx, cfg)
				if err != nil {
					return err
				}

				pipe, err := newsroom.New(roster, mb, gen, archive)
				if err != nil {
					return err
				}

				text, err := pipe.Run(ctx, topic)
				if err != nil {
					return err
				}

				fmt.Println(text)
				if showLog {
					fmt.Println()
					if err := mb.ExportLog(os.Stdout); err != nil {
						return err
					}
					fmt.Println()
				}
				return nil
			}

			if len(args) == 1 {
				return runOne(args[0])
			}
			if cfg.AutoRun {
				log.Printf("[AUTO] topic: %s", cfg.Topic)
				return runOne(cfg.Topic)
			}

			return interactiveLoop(cfg, runOne)
		},
	}

	cmd.Flags().BoolVar(&showLog, "show-log", false, "print the mailbox audit log after the run")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the article pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := config.Load()

			gen, err := buildGenerator(ctx, cfg)
			if err != nil {
				return err
			}
			archive, err := buildArchive(ctx, cfg)
			if err != nil {
				return err
			}
			roster, err := buildRoster(cfg)
			if err != nil {
				return err
			}

			factory := func() (*newsroom.Pipeline, error) {
				mb, err := buildMailbox(ctx, cfg)
				if err != nil {
					return nil, err
				}
				return newsroom.New(roster, mb, gen, archive)
			}

			handler := httpadapter.NewServer(factory, archive)

			addr := ":" + cfg.Port
			log.Println("newsroom API listening on", addr)
			return http.ListenAndServe(addr, handler)
		},
	}
}

func interactiveLoop(cfg *config.Config, runOne func(topic string) error) error {
	fmt.Println("Which technology topic would you like to explore?")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  - Artificial Intelligence in Medicine")
	fmt.Println("  - Blockchain and its Applications")
	fmt.Println("  - Quantum Computing")
	fmt.Println("  - Modern Cybersecurity")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Topic: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil // EOF ends the session
		}

		topic := strings.TrimSpace(line)
		if topic == "" {
			topic = cfg.Topic
		}

		if err := runOne(topic); err != nil {
			log.Printf("run failed: %v", err)
		}

		fmt.Print("\nGenerate another article? (y/n): ")
		answer, err := reader.ReadString('\n')
		if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			fmt.Println("Bye!")
			return nil
		}
		fmt.Println()
	}
}

// ─────────────────────────────────────────────
// Wiring
// ─────────────────────────────────────────────

func buildGenerator(ctx context.Context, cfg *config.Config) (domain.Generator, error) {
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK generator")
		return llm.NewMockGenerator(), nil
	}

	clientCfg := llm.ClientConfig{Model: cfg.ModelName}
	if cfg.Mode == config.ModeGCP {
		log.Printf("[LLM] Using Vertex AI (project=%s)", cfg.GCPProjectID)
		clientCfg.ProjectID = cfg.GCPProjectID
		clientCfg.Location = cfg.GCPLocation
	} else {
		log.Println("[LLM] Using Gemini API key")
		clientCfg.APIKey = cfg.APIKey
	}

	gen, err := llm.NewGeminiClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	return gen, nil
}

func buildArchive(ctx context.Context, cfg *config.Config) (domain.ArchiveStore, error) {
	switch cfg.ArchiveBackend {
	case "memory":
		log.Println("[ARCHIVE] Using in-memory archive")
		return memstore.NewArchiveStore(), nil

	case "sqlite":
		log.Printf("[ARCHIVE] Using SQLite archive (%s)", cfg.SQLitePath)
		return sqlitestore.NewStore(cfg.SQLitePath)

	case "firestore":
		if cfg.GCPProjectID == "" {
			return nil, fmt.Errorf("NEWSROOM_GCP_PROJECT is required for the Firestore archive")
		}
		log.Printf("[ARCHIVE] Using Firestore archive (project=%s)", cfg.GCPProjectID)
		return firestorestore.NewStore(ctx, cfg.GCPProjectID)

	default:
		log.Printf("[ARCHIVE] Using file archive (%s)", cfg.DataDir)
		return filestore.NewArchiveStore(cfg.DataDir)
	}
}

func buildMailbox(ctx context.Context, cfg *config.Config) (domain.Mailbox, error) {
	switch cfg.MailboxBackend {
	case "amqp":
		log.Println("[MAILBOX] Using AMQP mailbox")
		return amqpmailbox.Dial(ctx, amqpmailbox.DialOptions{URL: cfg.AMQPURL}, observability.Logger())

	default:
		return memmailbox.New(), nil
	}
}

func buildRoster(cfg *config.Config) (newsroom.Roster, error) {
	if cfg.PipelineFile == "" {
		return newsroom.DefaultRoster(), nil
	}

	log.Printf("[PIPELINE] Loading roster from %s", cfg.PipelineFile)
	return newsroom.LoadRoster(cfg.PipelineFile)
}
