package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/internal/ratelimiter"
	"github.com/marmos91/mountattr/pkg/resolver"
	"github.com/saracen/walker"
	"github.com/spf13/cobra"
)

func newWalkCmd(opts *rootOptions) *cobra.Command {
	var remoteOnly bool
	var perSecond uint

	cmd := &cobra.Command{
		Use:   "walk DIR",
		Short: "Classify every file below DIR",
		Long: `Walk DIR concurrently and print the locality and origin URI of every
entry. Symbolic links are not followed and are skipped, since resolution
works on path names only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd.Context(), nil)
			if err != nil {
				return err
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			limiter := ratelimiter.New(perSecond, perSecond)

			walkFn := func(pathname string, fi os.FileInfo) error {
				if fi.Mode()&os.ModeSymlink != 0 {
					return nil
				}
				if err := limiter.Wait(cmd.Context()); err != nil {
					return err
				}

				loc, e, err := rt.resolver.Classify(pathname)
				if err != nil {
					logger.Warn("Cannot classify %s: %v", pathname, err)
					return nil
				}
				if remoteOnly && loc != resolver.Remote {
					return nil
				}

				uri := "-"
				if o, err := rt.resolver.BuildOrigin(pathname); err == nil {
					uri = o.String()
				}

				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", pathname, loc, e.FSType, uri)
				return nil
			}

			errorFn := walker.WithErrorCallback(func(pathname string, err error) error {
				logger.Warn("Cannot read %s: %v", pathname, err)
				return nil
			})

			return walker.WalkWithContext(cmd.Context(), root, walkFn, errorFn)
		},
	}

	cmd.Flags().BoolVar(&remoteOnly, "remote-only", false, "only print entries on remote filesystems")
	cmd.Flags().UintVar(&perSecond, "rate", 0, "maximum paths classified per second (0 = unlimited)")
	return cmd
}
