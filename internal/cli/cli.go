package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/app"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// OutputFormat selects how results are printed
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

type globalFlags struct {
	memory  bool
	format  string
	verbose bool
	userID  string
}

// builder creates the application graph; tests swap it for one with fakes
type builder func(ctx context.Context, flags *globalFlags) (*app.App, error)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultBuilder, os.Stdin)
}

func newRootCmd(build builder, stdin io.Reader) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "leadctl",
		Short: "Turn ticketing links into enriched organizer leads",
		Long: `leadctl ingests Sympla and Eventbrite event links, stores each listing as a
pending lead and searches the organizer's website and contacts.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&flags.memory, "memory", false, "Keep everything in memory instead of DynamoDB")
	cmd.PersistentFlags().StringVar(&flags.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.userID, "user", os.Getenv("LEADCTL_USER_ID"), "Owning user id")

	cmd.AddCommand(
		newIngestCmd(flags, build, stdin),
		newEnrichCmd(flags, build),
		newDispatchCmd(flags, build),
	)
	return cmd
}

func defaultBuilder(ctx context.Context, flags *globalFlags) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, format := cfg.Log.Level, "console"
	if flags.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, format)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return app.New(ctx, cfg, logger, app.Options{Memory: flags.memory})
}

func newIngestCmd(flags *globalFlags, build builder, stdin io.Reader) *cobra.Command {
	var (
		file   string
		enrich bool
	)

	cmd := &cobra.Command{
		Use:   "ingest [links...]",
		Short: "Extract events from links and store them as leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			links := append([]string{}, args...)
			if file != "" {
				fromFile, err := readLinks(file, stdin)
				if err != nil {
					return err
				}
				links = append(links, fromFile...)
			}
			if len(links) == 0 {
				return fmt.Errorf("no links given")
			}

			a, err := build(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Ingestion.Ingest(cmd.Context(), services.IngestRequest{Links: links, UserID: flags.userID})
			if err != nil {
				return err
			}

			var enriched []services.EnrichResponse
			if enrich {
				reqs := make([]services.EnrichRequest, 0, len(resp.Results))
				for _, r := range resp.Results {
					reqs = append(reqs, services.EnrichRequest{LeadID: r.LeadID, CompanyName: r.Organizer})
				}
				enriched = a.Enrichment.EnrichBatch(cmd.Context(), flags.userID, reqs)
			}

			if OutputFormat(flags.format) == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"ingest":     resp,
					"enrichment": enriched,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d of %d links\n", resp.Processed, len(links))
			for _, r := range resp.Results {
				fmt.Fprintf(out, "  + %s | %s | %s | %s\n", r.Title, r.Date, r.Location, r.Organizer)
			}
			for _, e := range resp.Errors {
				fmt.Fprintf(out, "  ! %s\n", e)
			}
			for _, e := range enriched {
				printEnrichment(out, e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read newline-separated links from a file ('-' for stdin)")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Enrich the created leads right away")
	return cmd
}

func newEnrichCmd(flags *globalFlags, build builder) *cobra.Command {
	var leadID, company string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Search website and contacts for one lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Enrichment.EnrichLead(cmd.Context(), flags.userID, services.EnrichRequest{
				LeadID:      leadID,
				CompanyName: company,
			})
			if err != nil {
				return err
			}

			if OutputFormat(flags.format) == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printEnrichment(cmd.OutOrStdout(), *resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&leadID, "lead", "", "Lead id (required)")
	cmd.Flags().StringVar(&company, "company", "", "Company name used for domain discovery")
	_ = cmd.MarkFlagRequired("lead")
	return cmd
}

func newDispatchCmd(flags *globalFlags, build builder) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Start enrichment for the user's pending leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Dispatcher.DispatchPending(cmd.Context(), flags.userID, limit)
			if err != nil {
				return err
			}

			if OutputFormat(flags.format) == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dispatched %d of %d pending leads\n", summary.Dispatched, summary.Pending)
			for _, e := range summary.Errors {
				fmt.Fprintf(out, "  ! %s\n", e)
			}
			a.Logger.Debug("dispatch finished", zap.Strings("lead_ids", summary.LeadIDs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of leads to dispatch")
	return cmd
}

func printEnrichment(out io.Writer, e services.EnrichResponse) {
	fmt.Fprintf(out, "Lead %s: %s", e.LeadID, e.Status)
	if e.SearchDomain != "" {
		fmt.Fprintf(out, " (%s)", e.SearchDomain)
	}
	fmt.Fprintf(out, ", %d contacts, %d new\n", len(e.Contacts), e.ContactsCreated)
	for _, c := range e.Contacts {
		fmt.Fprintf(out, "  - %s <%s> %s [%d]\n", c.Name, c.Email, c.Position, c.Confidence)
	}
	if e.Error != "" {
		fmt.Fprintf(out, "  ! %s\n", e.Error)
	}
}

// readLinks reads one link per line, skipping blanks
func readLinks(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening links file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var links []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			links = append(links, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading links: %w", err)
	}
	return links, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
