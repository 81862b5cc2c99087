package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/propsheet/internal/metrics"
	"github.com/dshills/propsheet/internal/notify"
	"github.com/dshills/propsheet/internal/profile"
	"github.com/dshills/propsheet/internal/property"
	"github.com/dshills/propsheet/internal/session"
)

func listCmd(opts *options) *cobra.Command {
	var (
		search string
		sets   []string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties by page and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			for _, assignment := range sets {
				if err := applySet(pctx, assignment); err != nil {
					return err
				}
			}
			pctx.UpdateSearchState(search)
			return printSections(cmd.OutOrStdout(), pctx.Sections(!all))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show properties matching TEXT")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a value before listing (ID=VALUE, repeatable)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden properties")
	return cmd
}

func searchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search TEXT",
		Short: "List the properties visible for a search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			n := pctx.UpdateSearchState(args[0])
			return printMatches(cmd.OutOrStdout(), pctx.VisibleProperties(), n)
		},
	}
}

func varyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vary ID DIMENSION",
		Short: "Toggle whether a property varies by a dimension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			p, err := pctx.Lookup(args[0])
			if err != nil {
				return err
			}
			dc, err := dimensionCommand(pctx, args[1])
			if err != nil {
				return err
			}
			caption := dc.Caption(p)
			if err := dc.Execute(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Identity(), caption)
			return printValues(cmd.OutOrStdout(), p)
		},
	}
}

func singleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "single ID",
		Short: "Use a single value across all configurations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			p, err := pctx.Lookup(args[0])
			if err != nil {
				return err
			}
			cmds := pctx.ConfigurationCommands()
			if len(cmds) == 0 {
				return fmt.Errorf("%s: %w", p.Identity(), property.ErrNotSupported)
			}
			single := cmds[len(cmds)-1]
			if err := single.Execute(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Identity(), single.Caption(p))
			return printValues(cmd.OutOrStdout(), p)
		},
	}
}

func commandsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "commands ID",
		Short: "List the configuration commands for a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			p, err := pctx.Lookup(args[0])
			if err != nil {
				return err
			}
			return printCommands(cmd.OutOrStdout(), p, pctx.ConfigurationCommands())
		},
	}
}

func profilesCmd(opts *options) *cobra.Command {
	var duplicate string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List launch profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger()
			f, err := opts.source(logger).File()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			store, err := profile.FromCatalog(f, property.WithLogger(logger))
			if err != nil {
				return err
			}
			if duplicate != "" {
				list := store.List()
				if len(list) == 0 {
					return fmt.Errorf("no profile to duplicate: %w", profile.ErrProfileNotFound)
				}
				if _, err := store.Duplicate(list[0].ID, duplicate); err != nil {
					return err
				}
			}
			return printProfiles(cmd.OutOrStdout(), store.List())
		},
	}

	cmd.Flags().StringVar(&duplicate, "duplicate", "", "Duplicate the first profile under NAME")
	return cmd
}

func watchCmd(opts *options) *cobra.Command {
	var (
		metricsAddr string
		debounce    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Load the catalog and reload it when the file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, metricsAddr, debounce)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on ADDR (e.g. :9090)")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Delay after the last file change before reloading")
	return cmd
}

func runWatch(ctx context.Context, opts *options, metricsAddr string, debounce time.Duration) error {
	logger := opts.logger()
	m := metrics.New(metrics.WithRuntimeCollectors())

	s := session.New(opts.source(logger),
		session.WithLogger(logger),
		session.WithRecorder(m),
		session.WithDebounce(debounce))
	defer s.Close()

	// Instrument each context as it is swapped in.
	var (
		mu     sync.Mutex
		detach func()
	)
	sub := s.Changes().SubscribeField(session.FieldContext, func(c notify.Change) {
		next, ok := c.NewValue.(*property.Context)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if detach != nil {
			detach()
		}
		detach = m.Instrument(next)
		logger.Info("catalog loaded",
			slog.Int("properties", next.Len()),
			slog.Uint64("generation", s.Generation()))
	})
	defer sub.Unsubscribe()

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", slog.String("addr", metricsAddr))
	}

	if err := <-s.Start(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if s.WatchPath() == "" {
		// Embedded catalog: nothing to watch, serve until interrupted.
		<-ctx.Done()
		return nil
	}
	return s.Watch(ctx)
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}

// dimensionCommand finds the command toggling the named dimension.
func dimensionCommand(pctx *property.Context, name string) (*property.DimensionCommand, error) {
	for _, c := range pctx.ConfigurationCommands() {
		if dc, ok := c.(*property.DimensionCommand); ok && strings.EqualFold(dc.Dimension().Name, name) {
			return dc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a configurable dimension", property.ErrUnknownDimension, name)
}

// applySet parses ID=VALUE and sets every value of the property.
func applySet(pctx *property.Context, assignment string) error {
	i := strings.LastIndex(assignment, "=")
	if i <= 0 {
		return fmt.Errorf("invalid --set %q: want ID=VALUE", assignment)
	}
	ref, raw := strings.TrimSpace(assignment[:i]), assignment[i+1:]

	p, err := pctx.Lookup(ref)
	if err != nil {
		return err
	}
	values := p.Values()
	if len(values) == 0 {
		return fmt.Errorf("%s: %w", p.Identity(), property.ErrNoValues)
	}
	v, err := property.ValueOf(values[0].EvaluatedValue().Kind(), raw)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Identity(), err)
	}
	for _, pv := range values {
		pv.SetEvaluatedValue(v)
	}
	return nil
}
