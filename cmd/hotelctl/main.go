// Command hotelctl drives the back-office API from the shell: listing, creating, linking
// amenities and bulk seeding.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_backoffice/internal/adapters/backoffice"
	"hotel_backoffice/internal/adapters/observability"
	"hotel_backoffice/internal/shared"
)

type rootOpts struct {
	baseURL string
	rps     float64
	workers int
	retries int
	timeout time.Duration
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, err := shared.Load()
	if err != nil {
		// flags still let the user point at a server
		fmt.Fprintln(os.Stderr, "hotelctl:", err)
		cfg = shared.Config{BaseURL: "http://localhost:8080", RPS: 10, Workers: 4}
	}
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Manage hotels, rooms and amenities through the back-office API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			observability.SetGlobal(l, level)
		},
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", cfg.BaseURL, "API base URL (HOTELCTL_BASE_URL)")
	root.PersistentFlags().Float64Var(&opts.rps, "rps", cfg.RPS, "max requests per second (HOTELCTL_RPS)")
	root.PersistentFlags().IntVar(&opts.workers, "workers", cfg.Workers, "concurrent workers for bulk commands (HOTELCTL_WORKERS)")
	root.PersistentFlags().IntVar(&opts.retries, "retries", 3, "retries of an idempotent call on 429/5xx")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newHealthCmd(opts),
		newHotelsCmd(opts),
		newRoomsCmd(opts),
		newAmenitiesCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func (o *rootOpts) client() (*backoffice.Client, error) {
	log.Debug().Str("base", o.baseURL).Float64("rps", o.rps).Msg("api client")
	return backoffice.New(o.baseURL, o.rps,
		backoffice.WithRetries(o.retries),
		backoffice.WithHTTPClient(&http.Client{Timeout: o.timeout}),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseIDs reads "1,2,3". An empty string yields an empty, non-nil slice.
func parseIDs(s string) ([]int64, error) {
	out := []int64{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", f)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newHealthCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show API and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := o.client()
			if err != nil {
				return err
			}
			rep, err := cl.Health(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		},
	}
}
