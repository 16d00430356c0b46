package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/intlphone/catalog"
	"github.com/vortex-fintech/intlphone/phonemask"
)

func countriesCmd(a *app) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "countries [query]",
		Short: "List countries whose name, dial code or code contains query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, cleanup, err := a.loadCatalog(cmd.Context(), catalog.Options{})
			if err != nil {
				return err
			}
			defer cleanup()

			dir, err := cat.Directory()
			if err != nil {
				return err
			}

			if lang == "" {
				lang = a.cfg.Input.Lang
			}
			query := strings.Join(args, " ")

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "CODE\tDIAL\tNAME\tMASK\n")
			for _, c := range dir.Filter(query, lang) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.DialCode, c.DisplayName(lang), phonemask.Hint(c.Mask))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "display-name language (default from config)")
	return cmd
}
