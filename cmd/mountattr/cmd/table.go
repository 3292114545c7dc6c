package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/marmos91/mountattr/pkg/fstype"
	"github.com/marmos91/mountattr/pkg/mounttable"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// tableRow is the serialized form of an entry in table listings.
type tableRow struct {
	FSName      string `json:"fsname" yaml:"fsname"`
	Dir         string `json:"dir" yaml:"dir"`
	Type        string `json:"type" yaml:"type"`
	Options     string `json:"options" yaml:"options"`
	Freq        int    `json:"freq" yaml:"freq"`
	Pass        int    `json:"pass" yaml:"pass"`
	Remote      bool   `json:"remote" yaml:"remote"`
	Speed       int    `json:"speed" yaml:"speed"`
	Scalability int    `json:"scalability" yaml:"scalability"`
}

type tableDoc struct {
	ID       string     `json:"id" yaml:"id"`
	Hostname string     `json:"hostname" yaml:"hostname"`
	Source   string     `json:"source" yaml:"source"`
	Entries  []tableRow `json:"entries" yaml:"entries"`
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the loaded mount table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), rt.holder.Current(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format (text, yaml, json)")
	return cmd
}

func writeTable(w io.Writer, t *mounttable.Table, format string) error {
	doc := tableDoc{ID: t.ID.String(), Hostname: t.Hostname, Source: t.Source}
	for _, e := range t.Entries() {
		typ := e.Type()
		doc.Entries = append(doc.Entries, tableRow{
			FSName:      e.FSName,
			Dir:         e.DirMaster,
			Type:        e.FSType,
			Options:     e.Options,
			Freq:        e.DumpFrequency,
			Pass:        e.FsckPass,
			Remote:      fstype.IsRemote(typ),
			Speed:       fstype.Speed(typ),
			Scalability: fstype.Scalability(typ),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "DIR\tTYPE\tFSNAME\tREMOTE\tOPTIONS\n")
		for _, r := range doc.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", r.Dir, r.Type, r.FSName, r.Remote, r.Options)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
