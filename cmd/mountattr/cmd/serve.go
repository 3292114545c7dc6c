package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/config"
	"github.com/spf13/cobra"
)

type tableStatus struct {
	ID       string    `json:"id"`
	Hostname string    `json:"hostname"`
	Source   string    `json:"source"`
	Entries  int       `json:"entries"`
	LoadedAt time.Time `json:"loaded_at"`
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose resolver metrics and reload the mount table periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts.cfg.Metrics.Enabled = true

			var rt *runtime
			var loadedAt atomic.Int64
			status := func() any {
				t := rt.holder.Current()
				return tableStatus{
					ID:       t.ID.String(),
					Hostname: t.Hostname,
					Source:   t.Source,
					Entries:  t.Len(),
					LoadedAt: time.Unix(0, loadedAt.Load()),
				}
			}

			m := config.InitializeMetrics(opts.cfg, status)

			var err error
			rt, err = opts.load(ctx, m.ResolverMetrics)
			if err != nil {
				return err
			}
			loadedAt.Store(time.Now().UnixNano())

			errCh := make(chan error, 1)
			go func() { errCh <- m.Server.Start(ctx) }()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return <-errCh
				case err := <-errCh:
					return err
				case <-ticker.C:
					t, err := rt.holder.Reload(ctx, rt.loader)
					if err != nil {
						logger.Warn("Mount table reload failed, keeping previous table: %v", err)
						continue
					}
					loadedAt.Store(time.Now().UnixNano())
					logger.Debug("Reloaded mount table %s (%d entries)", t.ID, t.Len())
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "mount table reload interval")
	return cmd
}
