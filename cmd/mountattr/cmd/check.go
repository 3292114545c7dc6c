package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/marmos91/mountattr/pkg/resolver"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var expect string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check PATH...",
		Short: "Assert the locality of paths",
		Long: `Classify each path and compare it against --expect. Prints PASS or FAIL
per path and exits non-zero if any path fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want resolver.Locality
			switch expect {
			case "local":
				want = resolver.Local
			case "remote":
				want = resolver.Remote
			default:
				return fmt.Errorf("--expect must be local or remote, got %q", expect)
			}

			rt, err := opts.load(cmd.Context(), nil)
			if err != nil {
				return err
			}

			pass := color.New(color.FgGreen, color.Bold)
			fail := color.New(color.FgRed, color.Bold)
			if noColor {
				pass.DisableColor()
				fail.DisableColor()
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, p := range args {
				loc, e, err := rt.resolver.Classify(p)
				switch {
				case err != nil:
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", fail.Sprint("FAIL"), p, err)
				case loc != want:
					failed++
					fmt.Fprintf(out, "%s %s: %s (%s at %s)\n", fail.Sprint("FAIL"), p, loc, e.FSType, e.DirMaster)
				default:
					fmt.Fprintf(out, "%s %s: %s (%s at %s)\n", pass.Sprint("PASS"), p, loc, e.FSType, e.DirMaster)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d paths failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "remote", "expected locality (local, remote)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
