package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/git-fetcher/internal/config"
	"github.com/kurihiro0119/git-fetcher/internal/controller"
	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/fetcher"
	"github.com/kurihiro0119/git-fetcher/internal/logging"
	"github.com/kurihiro0119/git-fetcher/internal/parser"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
	"github.com/kurihiro0119/git-fetcher/internal/storage/postgres"
	"github.com/kurihiro0119/git-fetcher/internal/storage/sqlite"
)

type cliOptions struct {
	cfgFile    string
	outputJSON bool
	list       bool
	refresh    bool
	verbose    bool
	outputDir  string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "git-fetcher [owner]",
		Short: "Fetch and cache the repositories of an account owner",
		Long: `A CLI tool that fetches the repository list of an account owner from the
hosting API and caches it in a local database.

Without flags the owner's repositories are fetched once and stored. Use --list
to print the cached rows and --refresh to discard and refetch them.`,
		Args:          ownerArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.cfgFile, "config", "", "config file (default is .env)")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "print listed repositories as JSON")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list cached repositories instead of fetching")
	cmd.Flags().BoolVarP(&opts.refresh, "refresh", "r", false, "delete cached repositories before fetching")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "directory to write {owner}.json into")
	cmd.MarkFlagsMutuallyExclusive("list", "refresh")

	return cmd
}

// ownerArg requires exactly one non-empty owner
func ownerArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return apperrors.NewMissingArgumentError("owner")
	}
	return cobra.MaximumNArgs(1)(cmd, args)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

func loadConfig(cfgFile string) (*config.Config, error) {
	var files []string
	if cfgFile != "" {
		files = append(files, cfgFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, owner string, opts *cliOptions) error {
	cfg, err := loadConfig(opts.cfgFile)
	if err != nil {
		return err
	}

	logger := logging.WithRun(logging.New(cmd.ErrOrStderr(), cfg.LogLevel))
	if opts.verbose {
		logging.SetVerbose(logger)
	}
	logger.Debug("starting", "owner", owner, "list", opts.list, "refresh", opts.refresh, "storage", cfg.StorageType)

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	f, err := fetcher.NewGitHubFetcher(cfg.APIBaseURL, nil, logger)
	if err != nil {
		return err
	}

	ctrl := controller.NewController(store, f, parser.NewParser(logger), logger)
	result, err := ctrl.Run(cmd.Context(), controller.Options{
		Owner:     owner,
		List:      opts.list,
		Refresh:   opts.refresh,
		OutputDir: opts.outputDir,
	})
	if err != nil {
		logger.Error("run failed", "owner", owner, "code", apperrors.CodeOf(err))
		return err
	}

	return render(cmd.OutOrStdout(), result, opts.outputJSON, logger)
}

func render(w io.Writer, result *controller.Result, outputJSON bool, logger *log.Logger) error {
	switch result.Mode {
	case controller.ModeList:
		if outputJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Repositories); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "\nCached repositories: %s\n\n", result.Owner)

			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"ID", "Name", "Language", "URL"})
			for _, r := range result.Repositories {
				table.Append([]string{
					fmt.Sprintf("%d", r.ID),
					r.Name,
					r.GetLanguage(),
					r.HTMLURL,
				})
			}
			table.Render()
		}
	default:
		if result.Mode == controller.ModeRefresh {
			fmt.Fprintf(w, "Deleted %d cached repositories for %s\n", result.Deleted, result.Owner)
		}
		fmt.Fprintf(w, "Cached %d repositories for %s", result.Inserted, result.Owner)
		if result.Skipped > 0 {
			fmt.Fprintf(w, " (%d duplicates skipped)", result.Skipped)
		}
		fmt.Fprintln(w)
	}

	if result.OutputPath != "" {
		logger.Info("wrote output file", "path", result.OutputPath)
	}
	return nil
}
