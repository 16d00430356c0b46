package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/intlphone/catalog"
	"github.com/vortex-fintech/intlphone/errors"
	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/phoneinput"
)

type formatOutput struct {
	Input     string `json:"input"`
	Formatted string `json:"formatted"`
	Unmasked  string `json:"unmasked"`
	Complete  bool   `json:"complete"`
	Mode      string `json:"mode"`
	Country   string `json:"country"`
	DialCode  string `json:"dialCode"`
}

func formatCmd(a *app) *cobra.Command {
	var (
		country string
		mask    string
		lang    string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "format <input>...",
		Short: "Feed each argument as the next field value and print the results",
		Long: "Each argument is treated as the full text of the phone field after one edit,\n" +
			"so \"5\" \"55\" \"555\" types digit by digit while a single long argument is a paste.",
		Args: cobra.MinimumNArgs(1),
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

			opts := phoneinput.Options{
				DefaultCountry: a.cfg.Input.DefaultCountry,
				Mask:           a.cfg.Input.Mask,
				Lang:           a.cfg.Input.Lang,
				Logger:         a.log,
			}
			if mask != "" {
				opts.Mask = mask
			}
			if lang != "" {
				opts.Lang = lang
			}
			if country != "" {
				code, ok := geo.NormalizeISO2(country)
				if !ok {
					return errors.InvalidArgument().WithMessage("country must be a two-letter code").WithDetail("country", country)
				}
				if _, found := dir.Lookup(code); !found {
					return errors.UnknownCountry(code)
				}
				opts.DefaultCountry = code
			}

			ctrl := phoneinput.New(dir, opts)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				for _, raw := range args {
					if err := enc.Encode(toOutput(raw, ctrl.OnRawInput(raw))); err != nil {
						return err
					}
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "INPUT\tFORMATTED\tUNMASKED\tCOMPLETE\tMODE\n")
			for _, raw := range args {
				o := toOutput(raw, ctrl.OnRawInput(raw))
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", o.Input, o.Formatted, o.Unmasked, o.Complete, o.Mode)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "ISO alpha-2 country (default from config)")
	cmd.Flags().StringVar(&mask, "mask", "", "override mask, '9' marks a digit slot")
	cmd.Flags().StringVar(&lang, "lang", "", "display-name language")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per input")
	return cmd
}

func toOutput(raw string, r phoneinput.Result) formatOutput {
	return formatOutput{
		Input:     raw,
		Formatted: r.FormattedText,
		Unmasked:  r.UnmaskedDigits,
		Complete:  r.IsComplete,
		Mode:      string(r.Mode),
		Country:   r.SelectedCountry.Code,
		DialCode:  r.DialCode,
	}
}
