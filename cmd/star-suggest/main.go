package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kevinmichaelchen/star-suggest/internal/config"
	"github.com/kevinmichaelchen/star-suggest/internal/logging"
	"github.com/kevinmichaelchen/star-suggest/internal/pipeline"
	"github.com/kevinmichaelchen/star-suggest/internal/surrealdb"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "star-suggest",
		Short: "Suggest GitHub repositories from the topics of your stars",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		},
		SilenceUsage: true,
	}

	root.AddCommand(suggestCmd(), topicsCmd(), historyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func suggestCmd() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "suggest [username]",
		Short: "Write repository suggestions for a user to an HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			res, err := pipeline.Run(context.Background(), cfg, args[0], opts)
			if err != nil {
				return err
			}

			fmt.Printf("%d suggestions for %s\n\n", len(res.Suggestions), res.User.Login)
			for i, r := range res.Suggestions {
				fmt.Printf("%d. %s  ★ %d\n", i+1, r.FullName, r.Stars)
				fmt.Printf("   %s\n", r.DescriptionText())
			}
			fmt.Printf("\nWritten to file://%s\n", res.Output)
			if res.RunID != "" {
				fmt.Printf("Stored as run %s\n", res.RunID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Deep, "deep", false, "Also use stars of accounts the user follows")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", pipeline.DefaultOutput, "HTML output path")
	cmd.Flags().BoolVar(&opts.Store, "store", false, "Record the suggestions in SurrealDB")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the results page in a browser")
	return cmd
}

func topicsCmd() *cobra.Command {
	var deep bool
	var n int

	cmd := &cobra.Command{
		Use:   "topics [username]",
		Short: "Show the top terms inferred from a user's stars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := config.Load()

			sess, profile, err := pipeline.NewSession(ctx, cfg, args[0], deep)
			if err != nil {
				return err
			}
			terms, err := sess.TopTerms(ctx, n)
			if err != nil {
				return err
			}

			fmt.Printf("Interest terms for %s (%d descriptions):\n", profile.User().Login, len(profile.Descriptions()))
			fmt.Println(strings.Join(terms, " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&deep, "deep", false, "Also use stars of accounts the user follows")
	cmd.Flags().IntVarP(&n, "n", "n", 5, "Number of terms")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [username]",
		Short: "List the most recent stored suggestions for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := config.Load()
			if !cfg.StoreEnabled() {
				return fmt.Errorf("history needs SURREAL_URL")
			}

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			stored, err := db.LatestSuggestions(ctx, args[0])
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				fmt.Println("No stored suggestions")
				return nil
			}

			fmt.Printf("Run %s (%s):\n\n", stored[0].RunID, stored[0].SuggestedAt.Format("2006-01-02 15:04"))
			for _, s := range stored {
				fmt.Printf("%d. %s  ★ %d\n", s.Rank, s.FullName, s.Stars)
				if s.Description != nil {
					fmt.Printf("   %s\n", *s.Description)
				}
			}
			return nil
		},
	}
}
