package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/fleeting/internal/analyzer"
	"github.com/pbaille/fleeting/internal/config"
	"github.com/pbaille/fleeting/internal/domain"
	"github.com/pbaille/fleeting/internal/fetcher"
	"github.com/pbaille/fleeting/internal/ledger"
	"github.com/pbaille/fleeting/internal/materializer"
	"github.com/pbaille/fleeting/internal/pipeline"
	"github.com/pbaille/fleeting/internal/rules"
	"github.com/pbaille/fleeting/internal/search"
	"github.com/pbaille/fleeting/internal/store"
	"github.com/pbaille/fleeting/internal/watcher"
)

var cfg *config.Config

func main() {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:   "fleeting",
		Short: "Fleeting thought capture and triage pipeline",
	}

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(materializeCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(reindexCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getClassifier() (*rules.Classifier, error) {
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	return rules.NewClassifier(tables), nil
}

func addCmd() *cobra.Command {
	var noFetch bool

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Capture a new thought",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")

			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			thought := &domain.Thought{
				Content:     content,
				ContentType: domain.ContentText,
				Source:      domain.SourceManual,
				Status:      domain.StatusInbox,
			}

			if fetcher.IsURL(content) {
				url := strings.TrimSpace(content)
				thought.ContentType = domain.ContentLink
				thought.URL = &url

				if !noFetch {
					fmt.Print("Fetching URL metadata... ")
					meta, err := fetcher.Fetch(url)
					if err != nil {
						fmt.Printf("failed: %v\n", err)
					} else {
						fmt.Println("done")
						if meta.Title != "" {
							thought.URLTitle = &meta.Title
						}
						if meta.Description != "" {
							thought.URLDescription = &meta.Description
						}
					}
				}
			}

			stored, err := s.AddThought(thought)
			if err != nil {
				return err
			}

			fmt.Printf("Added thought: %.8s\n", stored.ID)
			fmt.Printf("Content: %s\n", truncate(stored.Content, 80))
			if stored.URLTitle != nil {
				fmt.Printf("Title: %s\n", *stored.URLTitle)
			}

			// Keep the search index current; a broken index can always
			// be rebuilt with the reindex command.
			if idx, err := search.Open(cfg.IndexPath); err == nil {
				if err := idx.IndexThought(stored); err != nil {
					fmt.Printf("(indexing failed: %v)\n", err)
				}
				idx.Close()
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "skip URL metadata fetch for links")
	return cmd
}

func listCmd() *cobra.Command {
	var limit int
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent thoughts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var thoughts []domain.Thought
			if status != "" {
				thoughts, err = s.ByStatus(domain.Status(status))
			} else {
				thoughts, err = s.ListThoughts(limit, 0)
			}
			if err != nil {
				return err
			}

			if len(thoughts) == 0 {
				fmt.Println("No thoughts yet. Use 'fleeting add' to capture one.")
				return nil
			}

			for _, t := range thoughts {
				fmt.Printf("%.8s  %-10s  %s\n", t.ID, t.Status, truncate(t.Content, 60))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of thoughts to show")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show thought details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			thought, err := findByPrefix(s, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:       %s\n", thought.ID)
			fmt.Printf("Status:   %s\n", thought.Status)
			fmt.Printf("Source:   %s (%s)\n", thought.Source, thought.ContentType)
			fmt.Printf("Captured: %s\n", thought.CapturedAt.Format("2006-01-02 15:04:05"))
			if thought.Priority != nil {
				fmt.Printf("Priority: %s\n", *thought.Priority)
			}
			if thought.Destination != nil {
				fmt.Printf("Dest:     %s\n", *thought.Destination)
			}
			if len(thought.Tags) > 0 {
				fmt.Printf("Tags:     %s\n", strings.Join(thought.Tags, ", "))
			}
			if thought.URL != nil {
				fmt.Printf("URL:      %s\n", *thought.URL)
			}
			if thought.RoutedTo != nil {
				fmt.Printf("Routed:   %s\n", *thought.RoutedTo)
			}
			fmt.Printf("Content:\n%s\n", thought.Content)
			if thought.AIAnalysis != nil {
				fmt.Printf("\nAnalysis: %s\n", *thought.AIAnalysis)
			}

			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Ingest files from the watched inbox folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			clf, err := getClassifier()
			if err != nil {
				return err
			}

			fmt.Println("🔍 Fleeting Thoughts Folder Watcher")
			fmt.Println("====================================")
			fmt.Printf("📂 Watching: %s\n\n", cfg.InboxDir)

			runner := watcher.New(s, clf, ledger.NewWriter(cfg.LedgerPath), cfg.InboxDir)
			summary, err := runner.Run()
			if err != nil {
				return err
			}

			fmt.Println("\n====================================")
			fmt.Printf("📊 Summary: %d processed, %d failed\n", summary.Processed, summary.Failed)
			return nil
		},
	}
}

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Categorize unprocessed inbox thoughts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			clf, err := getClassifier()
			if err != nil {
				return err
			}

			fmt.Println("🧠 Fleeting Thoughts Inbox Processor")
			fmt.Println("====================================")

			processor := pipeline.NewProcessor(s, clf, ledger.NewWriter(cfg.LedgerPath))
			summary, err := processor.Run()
			if err != nil {
				return err
			}

			if summary.Total == 0 {
				fmt.Println("✅ No unprocessed items in inbox. All caught up!")
				return nil
			}

			fmt.Println("\n====================================")
			fmt.Println("📊 Processing Summary")
			fmt.Println("====================================")
			fmt.Printf("Total: %d\n", summary.Total)
			fmt.Printf("Actionable: %d\n", summary.Actionable)
			if summary.Skipped > 0 {
				fmt.Printf("Skipped: %d\n", summary.Skipped)
			}
			if summary.Failed > 0 {
				fmt.Printf("Failed: %d\n", summary.Failed)
			}

			fmt.Println("\nBy Destination:")
			for _, d := range []domain.Destination{domain.DestThings, domain.DestReminders, domain.DestCalendar, domain.DestNotes, domain.DestReference, domain.DestArchive} {
				if n := summary.ByDestination[d]; n > 0 {
					fmt.Printf("  %s: %d\n", d, n)
				}
			}
			fmt.Println("\nBy Priority:")
			for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow, domain.PrioritySomeday} {
				if n := summary.ByPriority[p]; n > 0 {
					fmt.Printf("  %s: %d\n", p, n)
				}
			}

			fmt.Println("\n✅ Inbox processing complete!")
			return nil
		},
	}
}

func materializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "materialize",
		Short: "Turn processing-stage thoughts into project folders with specs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Println("=== Fleeting Thoughts Project Materializer ===")

			runner := materializer.New(s, analyzer.Select(), ledger.NewWriter(cfg.LedgerPath), cfg.IdeasDir, cfg.DigestPath)
			summary, err := runner.Run()
			if err != nil {
				return err
			}

			fmt.Println("\n=== Processing Complete ===")
			fmt.Printf("Processed: %d, failed: %d, skipped: %d\n", summary.Processed, summary.Failed, summary.Skipped)
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search captured thoughts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := search.Open(cfg.IndexPath)
			if err != nil {
				return err
			}
			defer idx.Close()

			results, err := idx.Search(args[0], limit)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No matching thoughts found.")
				return nil
			}

			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, r := range results {
				line := ""
				if t, err := s.GetThought(r.ID); err == nil {
					line = truncate(t.Content, 60)
				}
				fmt.Printf("%.8s  %.2f  %s\n", r.ID, r.Score, line)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer s.Close()

			thoughts, err := s.AllThoughts()
			if err != nil {
				return err
			}

			idx, err := search.Open(cfg.IndexPath)
			if err != nil {
				return err
			}
			defer idx.Close()

			if err := idx.Rebuild(thoughts); err != nil {
				return err
			}

			fmt.Printf("Indexed %d thought(s)\n", len(thoughts))
			return nil
		},
	}
}

func findByPrefix(s store.Store, prefix string) (*domain.Thought, error) {
	if t, err := s.GetThought(prefix); err == nil {
		return t, nil
	}

	thoughts, err := s.ListThoughts(100, 0)
	if err != nil {
		return nil, err
	}
	for i := range thoughts {
		if strings.HasPrefix(thoughts[i].ID, prefix) {
			return &thoughts[i], nil
		}
	}
	return nil, fmt.Errorf("thought not found: %s", prefix)
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
