package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/catena/internal/config"
	"github.com/agenthands/catena/internal/core"
	"github.com/agenthands/catena/internal/llm"
	"github.com/agenthands/catena/internal/store"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "catena",
		Short: "Causal memory engine: record events and reconstruct causal narratives",
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config/config.toml", "path to TOML config")

	rootCmd.AddCommand(addCmd(), queryCmd(), replCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup builds the engine from config; the returned close func releases the
// store.
func setup(ctx context.Context) (*core.Engine, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}
	sugar := logger.Sugar()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open event store: %w", err)
	}

	llmClient, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		st.Close(ctx)
		return nil, nil, fmt.Errorf("initialize llm client: %w", err)
	}
	if embedder == nil {
		st.Close(ctx)
		return nil, nil, fmt.Errorf("provider %q has no embedding support", cfg.LLM.Provider)
	}

	engine, err := core.New(st, llmClient, embedder, core.FromEngineConfig(cfg.Engine), sugar, core.NewCollector())
	if err != nil {
		st.Close(ctx)
		return nil, nil, err
	}

	closeFn := func() {
		st.Close(ctx)
		logger.Sync()
	}
	return engine, closeFn, nil
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Record a new event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, closeFn, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := engine.AddEvent(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Event %d recorded.\n", id)
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [text]",
		Short: "Query memory and print the causal narrative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, closeFn, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			narrative, err := engine.Query(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(narrative)
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive add/query loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, closeFn, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Println("catena interactive mode. Commands: add <text>, query <text>, help, exit")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				parts := strings.SplitN(line, " ", 2)
				switch strings.ToLower(parts[0]) {
				case "exit", "quit":
					return nil
				case "help":
					fmt.Println("Commands: add <text>, query <text>, help, exit")
				case "add":
					if len(parts) < 2 {
						fmt.Println("Usage: add <text>")
						continue
					}
					id, err := engine.AddEvent(ctx, parts[1])
					if err != nil {
						fmt.Printf("Error: %v\n", err)
						continue
					}
					fmt.Printf("Event %d recorded.\n", id)
				case "query":
					if len(parts) < 2 {
						fmt.Println("Usage: query <text>")
						continue
					}
					narrative, err := engine.Query(ctx, parts[1])
					if err != nil {
						fmt.Printf("Error: %v\n", err)
						continue
					}
					fmt.Println(narrative)
				default:
					fmt.Println("Invalid command. Type 'help' for available commands.")
				}
			}
		},
	}
}
