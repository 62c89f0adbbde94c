// Command datasheetctl authorizes Google access and queries the datasheet folder from a shell.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prathamesh1010/Paras-Wires/config"
	"github.com/prathamesh1010/Paras-Wires/internal/infrastructure/google"
	"github.com/prathamesh1010/Paras-Wires/internal/infrastructure/workbook"
	"github.com/prathamesh1010/Paras-Wires/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	tokens  *google.TokenProvider
	service *usecase.DatasheetService
	logger  *zap.Logger
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "datasheetctl",
		Short:        "Manage Google access and search wire datasheets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log Google API calls")

	root.AddCommand(
		newAuthCmd(a),
		newSearchCmd(a),
		newSheetsCmd(a),
		newTestConnectionCmd(a),
		newFieldsCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = zap.NewNop()
	if a.verbose {
		if a.logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	a.tokens, err = google.NewTokenProvider(cfg.Google.CredentialsFile, cfg.Google.TokenFile, cfg.Google.RefreshSkew, a.logger)
	if err != nil {
		return err
	}

	client := google.NewClient(google.ClientConfig{
		DriveBaseURL:      cfg.Google.DriveBaseURL,
		SheetsBaseURL:     cfg.Google.SheetsBaseURL,
		DocsBaseURL:       cfg.Google.DocsBaseURL,
		Timeout:           cfg.Google.Timeout,
		RequestsPerSecond: cfg.RateLimit.GooglePerSecond,
		Burst:             cfg.RateLimit.GoogleBurst,
	}, a.logger)
	client.SetDebug(a.verbose)

	a.service = usecase.NewDatasheetService(a.tokens, client, workbook.NewExcelParser(), usecase.DatasheetServiceConfig{
		FolderID:     cfg.Google.FolderID,
		Ranker:       usecase.RankerConfigFrom(cfg.Matching),
		PreviewChars: cfg.Search.PreviewChars,
	}, a.logger)
	return nil
}

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only Drive, Sheets and Docs access and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Open this URL in a browser and grant access:")
			fmt.Fprintln(out)
			fmt.Fprintln(out, a.tokens.AuthCodeURL("datasheetctl"))
			fmt.Fprintln(out)
			fmt.Fprint(out, "Paste the authorization code or the full redirect URL: ")

			code, err := readAuthCode(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if _, err := a.tokens.Exchange(cmd.Context(), code); err != nil {
				return err
			}
			fmt.Fprintf(out, "Token saved to %s\n", a.cfg.Google.TokenFile)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <wire name>",
		Short: "Rank the datasheet folder against a wire name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := a.service.SearchDatasheets(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No datasheets found")
				return nil
			}
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tNAME\tKEYWORDS\tMODIFIED")
			for _, m := range matches {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.Score, m.File.Name, strings.Join(m.MatchedKeywords, ","), m.File.ModifiedTime)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func newSheetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <spreadsheet id>",
		Short: "List the tabs of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheets, err := a.service.ListSpreadsheetSheets(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range sheets {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", s.SheetID, s.Title)
			}
			return nil
		},
	}
}

func newTestConnectionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Check the stored token and folder access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := a.service.TestConnection(cmd.Context())
			if err != nil {
				return fmt.Errorf("google drive connection failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected, %d files matched the test query\n", count)
			return nil
		},
	}
}

// newFieldsCmd prints the datasheet labels that fill each report field.
// It needs neither configuration nor credentials.
func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Show which datasheet row labels fill each report field",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REPORT FIELD\tLABELS")
			for _, m := range usecase.FieldMappings() {
				fmt.Fprintf(w, "%s\t%s\n", m.ReportField, strings.Join(m.Labels, ", "))
			}
			return w.Flush()
		},
	}
}

// readAuthCode reads one line and returns the authorization code it holds.
// Both a bare code and a redirect URL carrying a code parameter are accepted.
func readAuthCode(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return parseAuthCode(line)
}

func parseAuthCode(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("no authorization code given")
	}

	if strings.Contains(input, "://") {
		u, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("invalid redirect URL: %w", err)
		}
		if msg := u.Query().Get("error"); msg != "" {
			return "", fmt.Errorf("authorization denied: %s", msg)
		}
		code := u.Query().Get("code")
		if code == "" {
			return "", errors.New("redirect URL has no code parameter")
		}
		return code, nil
	}
	return input, nil
}
