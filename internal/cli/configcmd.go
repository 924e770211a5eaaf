package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Simplici0/fabricalc/internal/costmodel"
	"github.com/Simplici0/fabricalc/internal/display"
	"github.com/Simplici0/fabricalc/internal/form"
)

const materialPrefix = "material:"

// settableFields are the scalar fields accepted by `config set`.
var settableFields = []string{
	form.FieldElectricityRate,
	form.FieldPowerDrawKw,
	form.FieldPrinterPrice,
	form.FieldPrinterLifetimeHours,
	form.FieldLocalShippingFee,
	form.FieldNationalShippingFee,
	form.FieldLaborRate,
	form.FieldWastePercent,
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the cost model",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current cost model",
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

			fmt.Fprintf(cmd.OutOrStdout(), "Guardado en %s\n", svc.Location())
			printModel(cmd.OutOrStdout(), svc.Current())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change one setting, or a material price with material:<name>",
		Long: "Change one setting and save the cost model.\n\nFields: " + strings.Join(settableFields, ", ") +
			"\nMaterial prices: material:<name>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			values := form.EncodeCostModel(svc.Current())
			if err := setField(values, args[0], args[1]); err != nil {
				return err
			}
			model, err := form.ParseCostModel(values)
			if err != nil {
				return err
			}
			if _, err := svc.Save(model); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuración guardada correctamente")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-material <name> <price>",
		Short: "Add a material or overwrite its price per kilogram",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if _, err := svc.AddMaterial(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Material '%s' agregado\n", strings.TrimSpace(args[0]))
			return nil
		},
	})

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in cost model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(a.in, cmd.OutOrStdout(), "¿Estás seguro de que quieres reiniciar todos los valores a los predeterminados? [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelado")
				return nil
			}

			svc, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if _, err := svc.ResetToDefaults(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Valores reiniciados correctamente")
			return nil
		},
	}
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.AddCommand(resetCmd)

	return cmd
}

func setField(values map[string][]string, field, raw string) error {
	if strings.HasPrefix(field, materialPrefix) {
		name := strings.TrimSpace(strings.TrimPrefix(field, materialPrefix))
		names := values[form.FieldMaterialName]
		for i, n := range names {
			if n == name {
				values[form.FieldMaterialPrice][i] = raw
				return nil
			}
		}
		return &costmodel.LookupError{Material: name}
	}

	for _, f := range settableFields {
		if f == field {
			values[field] = []string{raw}
			return nil
		}
	}
	return &costmodel.ValidationError{Field: field, Reason: "no es un campo configurable"}
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

func printModel(w io.Writer, m costmodel.CostModel) {
	heading := color.New(color.Bold)

	heading.Fprintln(w, "Materiales (COP/kg)")
	names := m.MaterialNames()
	for _, name := range names {
		fmt.Fprintf(w, "  %-24s %s\n", name, display.Money(m.Materials[name]))
	}

	heading.Fprintln(w, "Configuración General")
	rows := []struct {
		field string
		value float64
	}{
		{form.FieldElectricityRate, m.ElectricityRate},
		{form.FieldPowerDrawKw, m.PowerDrawKw},
		{form.FieldPrinterPrice, m.PrinterPrice},
		{form.FieldPrinterLifetimeHours, m.PrinterLifetimeHours},
		{form.FieldLocalShippingFee, m.LocalShippingFee},
		{form.FieldNationalShippingFee, m.NationalShippingFee},
		{form.FieldLaborRate, m.LaborRate},
		{form.FieldWastePercent, m.WastePercent},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-24s %v\n", r.field, r.value)
	}
}
