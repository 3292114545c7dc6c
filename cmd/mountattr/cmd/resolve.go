package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func newEntryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entry PATH...",
		Short: "Print the mount entry serving each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd.Context(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range args {
				e, err := rt.resolver.ResolveMountEntry(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s %s %s %s %d %d\n",
					p, e.FSName, e.DirMaster, e.FSType, e.Options, e.DumpFrequency, e.FsckPass)
			}
			return nil
		},
	}
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify PATH...",
		Short: "Report whether each path is on a local or remote filesystem",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd.Context(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range args {
				loc, e, err := rt.resolver.Classify(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", p, loc, e.FSType, e.RealMountPointDir())
			}
			return nil
		},
	}
}

func newURICmd(opts *rootOptions) *cobra.Command {
	var asXDR bool

	cmd := &cobra.Command{
		Use:   "uri PATH...",
		Short: "Print the origin URI of each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd.Context(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range args {
				o, err := rt.resolver.BuildOrigin(p)
				if err != nil {
					return err
				}
				if !asXDR {
					fmt.Fprintln(out, o.String())
					continue
				}
				data, err := o.MarshalXDR()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, hex.EncodeToString(data))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asXDR, "xdr", false, "print the hex-encoded XDR origin descriptor instead of the URI")
	return cmd
}
