package main

import (
	"fmt"
	"os"

	"github.com/lshigami/reansql/config"
	"github.com/lshigami/reansql/internal/database"
	"github.com/lshigami/reansql/internal/document"
	"github.com/lshigami/reansql/internal/logger"
	"github.com/lshigami/reansql/internal/metrics"
	"github.com/lshigami/reansql/internal/segment"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "reansql",
		Short:         "SQL practice backend",
		Long:          "ReanSQL turns SQL exercise documents into practice questions with generated answers and bullet explanations.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.NewConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Init(cfg.Log.Level, cfg.Log.Pretty)
			metrics.Init()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			return database.AutoMigrate(db)
		},
	}

	segmentCmd := &cobra.Command{
		Use:   "segment <file>",
		Short: "Print the numbered questions found in a PDF or text document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSegments(cmd, args[0])
		},
	}

	root.AddCommand(serveCmd, migrateCmd, segmentCmd)
	return root
}

func printSegments(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text, err := document.NewExtractor().ExtractText(path, "", data)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	questions := segment.Split(text)
	if len(questions) == 0 {
		return fmt.Errorf("no questions found in %s", path)
	}
	out := cmd.OutOrStdout()
	for i, q := range questions {
		fmt.Fprintf(out, "--- question %d ---\n%s\n", i+1, q)
	}
	return nil
}
