// Command cmr-urls prints the unique downloadable file URLs of the granules
// matching a CMR search, one per line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robert-malhotra/cmr-granule-links/internal/cmr"
	"github.com/robert-malhotra/cmr-granule-links/internal/config"
	"github.com/robert-malhotra/cmr-granule-links/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	params       cmr.SearchParams
	baseURL      string
	pageSize     int
	timeout      time.Duration
	encodeValues bool
	logLevel     string
}

// newRootCmd creates the command. Flag defaults come from the environment
// configuration so CMR_BASE_URL and friends apply here as well.
func newRootCmd() *cobra.Command {
	defaults := config.CMRConfig{
		BaseURL:  cmr.DefaultBaseURL,
		PageSize: cmr.DefaultPageSize,
	}
	logLevel := "info"
	cfg, loadErr := config.Load()
	if loadErr == nil {
		defaults = cfg.CMR
		logLevel = cfg.Logging.Level
	}

	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cmr-urls",
		Short: "List downloadable granule file URLs from a CMR search",
		Long: `cmr-urls searches the Common Metadata Repository for granules of one
collection and prints the deduplicated data file URLs, one per line.
Only the first page of results is fetched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				return fmt.Errorf("failed to load config: %w", loadErr)
			}
			return runURLs(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.params.CollectionID, "collection-id", "", "echo collection ID (required)")
	flags.StringVar(&opts.params.Token, "token", "", "CMR token")
	flags.StringVar(&opts.params.TimeStart, "start", "", "temporal range start")
	flags.StringVar(&opts.params.TimeEnd, "end", "", "temporal range end (used only with --start)")
	flags.StringVar(&opts.params.Polygon, "polygon", "", "spatial polygon lon1,lat1,...; takes priority over --bounding-box")
	flags.StringVar(&opts.params.BoundingBox, "bounding-box", "", "spatial bounding box west,south,east,north")
	flags.StringVar(&opts.params.FilenameFilter, "filename-filter", "", "producer granule ID pattern")
	flags.StringVar(&opts.baseURL, "cmr-url", defaults.BaseURL, "CMR base URL")
	flags.IntVar(&opts.pageSize, "page-size", defaults.PageSize, "number of granules to request")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "request timeout (0 for none)")
	flags.BoolVar(&opts.encodeValues, "encode", defaults.EncodeValues, "query-escape parameter values")
	flags.StringVar(&opts.logLevel, "log-level", logLevel, "log level: debug, info, warn, error; the query URL is logged at info")
	_ = cmd.MarkFlagRequired("collection-id")

	return cmd
}

func runURLs(cmd *cobra.Command, opts *options) error {
	logger := logging.New(cmd.ErrOrStderr(), opts.logLevel, "text")

	client := cmr.NewClient(opts.baseURL, opts.pageSize, opts.timeout).
		WithEncodedValues(opts.encodeValues).
		WithLogger(logger)

	urls, err := client.GetURLs(cmd.Context(), opts.params)
	if err != nil {
		return fmt.Errorf("get granule urls: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, u := range urls {
		if _, err := fmt.Fprintln(out, u); err != nil {
			return err
		}
	}
	return nil
}
