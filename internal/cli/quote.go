package cli

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Simplici0/fabricalc/internal/display"
	"github.com/Simplici0/fabricalc/internal/form"
	"github.com/Simplici0/fabricalc/internal/pricing"
)

// quoteFlags maps flag names to calculator form fields.
var quoteFlags = []struct {
	flag, field, usage string
}{
	{"material", form.FieldMaterial, "Material name (see config show)"},
	{"weight", form.FieldWeightGrams, "Weight in grams"},
	{"hours", form.FieldPrintHours, "Print time, hours"},
	{"minutes", form.FieldPrintMinutes, "Print time, minutes"},
	{"shipping", form.FieldShipping, "Shipping: Personal, Local or Nacional"},
	{"profit", form.FieldProfitPercent, "Profit margin in percent"},
	{"post", form.FieldPostMinutes, "Post-processing time in minutes"},
}

func (a *app) newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the price of a print job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, notice, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			if notice != "" {
				printWarning(cmd.ErrOrStderr(), notice)
			}

			model := svc.Current()
			values := url.Values{}
			for _, q := range quoteFlags {
				v, _ := cmd.Flags().GetString(q.flag)
				values.Set(q.field, v)
			}
			if values.Get(form.FieldMaterial) == "" {
				if names := model.MaterialNames(); len(names) > 0 {
					values.Set(form.FieldMaterial, names[0])
				}
			}

			job, err := form.ParsePrintJob(values)
			if err != nil {
				return err
			}
			breakdown, err := pricing.Compute(job, model)
			if err != nil {
				return err
			}

			printBreakdown(cmd.OutOrStdout(), job.MaterialName, breakdown)
			return nil
		},
	}

	defaults := form.PrintJobDefaults()
	for _, q := range quoteFlags {
		cmd.Flags().String(q.flag, defaults.Get(q.field), q.usage)
	}
	return cmd
}

func printBreakdown(w io.Writer, material string, b pricing.Breakdown) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "Material: %s\n", material)
	for _, line := range display.Lines(b) {
		if line.Total {
			bold.Fprintf(w, "%-20s %s\n", line.Label+":", line.Amount)
			continue
		}
		fmt.Fprintf(w, "%-20s %s\n", line.Label+":", line.Amount)
	}
	fmt.Fprintf(w, "(exacto: total %s, final %s)\n",
		strconv.FormatFloat(b.TotalCost, 'f', 2, 64),
		strconv.FormatFloat(b.FinalPrice, 'f', 2, 64))
}
