package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/pkg/rut"
)

// errInvalidRUT makes `rut validate` exit non-zero for scripts.
var errInvalidRUT = errors.New("invalid RUT")

func newRUTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rut",
		Short: "Chilean RUT helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <rut>",
		Short: "Check the verification digit of a RUT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatted, err := rut.Format(args[0])
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid\n", args[0])
				return errInvalidRUT
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%s)\n", args[0], formatted)
			return nil
		},
	})
	return cmd
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote helpers",
	}

	totals := &cobra.Command{
		Use:   "totals",
		Short: "Compute subtotal, tax and total for line items",
		Example: `  funerarias quote totals --item "Ataúd:1:450000" --item "Traslado:2:80000:10"
  funerarias quote totals --tax 0 --item "Urna:1:90000"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, _ := cmd.Flags().GetFloat64("tax")
			raw, _ := cmd.Flags().GetStringArray("item")

			items := make([]lineitem.Item, 0, len(raw))
			for _, r := range raw {
				it, err := parseItem(r)
				if err != nil {
					return err
				}
				items = append(items, it)
			}
			if err := lineitem.ValidateForSave(items); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, it := range items {
				fmt.Fprintf(out, "%2d. %-30s %3d x %12s -%s = %s\n", i+1, it.Name, it.Quantity,
					lineitem.FormatCLP(it.UnitPrice), lineitem.FormatPercent(it.DiscountPercent), lineitem.FormatCLP(it.Subtotal))
			}
			t := lineitem.Compute(items, tax)
			fmt.Fprintf(out, "Subtotal: %s\n", lineitem.FormatCLP(t.Subtotal))
			fmt.Fprintf(out, "IVA (%s): %s\n", lineitem.FormatPercent(tax), lineitem.FormatCLP(t.Tax))
			fmt.Fprintf(out, "Total: %s\n", lineitem.FormatCLP(t.Total))
			return nil
		},
	}
	totals.Flags().Float64("tax", 19, "Tax rate in percent")
	totals.Flags().StringArray("item", nil, "Line item as name:quantity:unit_price[:discount_percent]")

	cmd.AddCommand(totals)
	return cmd
}

// parseItem reads name:quantity:unit_price[:discount_percent].
func parseItem(raw string) (lineitem.Item, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return lineitem.Item{}, fmt.Errorf("item %q: want name:quantity:unit_price[:discount_percent]", raw)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lineitem.Item{}, fmt.Errorf("item %q: quantity: %w", raw, err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return lineitem.Item{}, fmt.Errorf("item %q: unit price: %w", raw, err)
	}
	var discount float64
	if len(parts) == 4 {
		if discount, err = strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err != nil {
			return lineitem.Item{}, fmt.Errorf("item %q: discount: %w", raw, err)
		}
	}
	return lineitem.New(lineitem.TypeProduct, "", strings.TrimSpace(parts[0]), qty, price, discount), nil
}
