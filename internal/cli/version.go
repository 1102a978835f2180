package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"surebet-scanner/internal/market"
	"surebet-scanner/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "List sport profiles and whether they are enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getApp().Config
		enabled := make(map[string]bool)
		for _, s := range cfg.EnabledSports() {
			enabled[s] = true
		}

		names := cfg.EnabledSports()
		for _, s := range market.Sports() {
			if !enabled[s] {
				names = append(names, s)
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Sport\tEnabled\tLabels\tGroups\tPages")
		for _, name := range names {
			p, err := cfg.Profile(name)
			if err != nil {
				return err
			}
			labels := make([]string, 0, len(p.Slots))
			for _, s := range p.Slots {
				labels = append(labels, string(s.Label))
			}
			groups := make([]string, 0, len(p.Groups))
			for _, g := range p.Groups {
				groups = append(groups, g.Name)
			}
			pages, err := cfg.PagesFor(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%v\t%s\t%s\t%d\n", name, enabled[name], strings.Join(labels, " "), strings.Join(groups, ", "), len(pages))
		}
		return w.Flush()
	},
}
