package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/style"
)

// densityCommand prints the scale factors and spacing for every item count.
func (c *CLI) densityCommand() *cobra.Command {
	var (
		strategy string
		preset   string
		spacing  bool
	)

	cmd := &cobra.Command{
		Use:   "density",
		Short: "Print scale factors for every class count",
		Long: `Print the scale factors the layout applies for each number of classes.

Density runs from 0 for zero or one class to 1 at the strategy's maximum. Each
factor shrinks linearly with density down to its legibility floor. With
--spacing the table shows the resulting pixel spacing for a preset instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := render.StrategyFor(strategy)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown strategy %q (valid: %v)", strategy, render.StrategyNames())
			}
			p := style.Preset(preset)
			if !validPreset(p) {
				return errors.New(errors.ErrCodeInvalidInput, "unknown spacing preset %q", preset)
			}
			if spacing {
				printTable(spacingHeaders, spacingRows(s, p), denseRow)
			} else {
				printTable(factorHeaders, factorRows(s), denseRow)
			}
			printDetail("strategy %s · max %d classes · rows above %d are striped", s.Name(), s.MaxItems(), density.DenseThreshold)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", render.StrategyCurrent, "layout strategy: current, legacy")
	cmd.Flags().StringVar(&preset, "preset", string(style.PresetComfortable), "spacing preset: compact, comfortable, spacious")
	cmd.Flags().BoolVar(&spacing, "spacing", false, "show pixel spacing instead of scale factors")

	return cmd
}

// denseRow highlights counts past the striping threshold. Row n is n classes.
func denseRow(row int) bool {
	return row > density.DenseThreshold
}

func validPreset(p style.Preset) bool {
	switch p {
	case style.PresetCompact, style.PresetComfortable, style.PresetSpacious:
		return true
	}
	return false
}

var factorHeaders = []string{"Classes", "Density", "Primary", "Secondary", "Time", "Hero", "Line", "Gap", "Padding", "Share"}

func factorRows(s render.LayoutStrategy) [][]string {
	rows := make([][]string, 0, s.MaxItems()+1)
	for n := 0; n <= s.MaxItems(); n++ {
		f := density.ForCount(n, s.MaxItems())
		rows = append(rows, []string{
			strconv.Itoa(n),
			fmtFactor(f.Density),
			fmtFactor(f.Primary),
			fmtFactor(f.Secondary),
			fmtFactor(f.Time),
			fmtFactor(f.Hero),
			fmtFactor(f.LineHeight),
			fmtFactor(f.Gap),
			fmtFactor(f.Padding),
			fmtFactor(s.ScheduleShare(f.Density)),
		})
	}
	return rows
}

var spacingHeaders = []string{"Classes", "Row gap", "Card pad", "Hero gap", "Footer pad", "Time pad", "Logo pad"}

func spacingRows(s render.LayoutStrategy, preset style.Preset) [][]string {
	rows := make([][]string, 0, s.MaxItems()+1)
	for n := 0; n <= s.MaxItems(); n++ {
		res := density.Evaluate(density.Params{
			Count:    n,
			MaxItems: s.MaxItems(),
			Preset:   preset,
			Template: density.NeutralSpacing(),
		})
		sp := res.Spacing
		rows = append(rows, []string{
			strconv.Itoa(n),
			fmtPixels(sp.RowGap),
			fmtPixels(sp.CardPadding),
			fmtPixels(sp.HeroGap),
			fmtPixels(sp.FooterPadding),
			fmtPixels(sp.TimePadding),
			fmtPixels(sp.LogoPadding),
		})
	}
	return rows
}

func fmtFactor(v float64) string { return fmt.Sprintf("%.3f", v) }

func fmtPixels(v float64) string { return fmt.Sprintf("%.1f", v) }
