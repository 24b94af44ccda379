package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
)

// elementsCommand lists the content elements and their typography defaults.
func (c *CLI) elementsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "elements",
		Short: "List content elements and their typography defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metas := elements.All()
			if category != "" {
				cat := elements.Category(category)
				switch cat {
				case elements.CategoryHero, elements.CategorySchedule, elements.CategoryFooter:
				default:
					return errors.New(errors.ErrCodeInvalidInput, "unknown category %q (valid: hero, schedule, footer)", category)
				}
				metas = elements.ByCategory(cat)
			}
			printTable(elementHeaders, elementRows(metas), nil)
			printDetail("schedule elements can be toggled with 'storyboard render --show/--hide'")
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list one category: hero, schedule, footer")

	return cmd
}

var elementHeaders = []string{"ID", "Label", "Category", "Role", "Size", "Min", "Weight", "Line", "Color"}

func elementRows(metas []elements.Meta) [][]string {
	rows := make([][]string, len(metas))
	for i, m := range metas {
		d := elements.DefaultStyle(m.ID)
		rows[i] = []string{
			string(m.ID),
			m.Label,
			string(m.Category),
			string(m.Role),
			fmtPixels(*d.FontSize),
			fmtPixels(m.MinFontSize),
			strconv.Itoa(*d.FontWeight),
			fmt.Sprintf("%.2f", *d.LineHeight),
			*d.Color,
		}
	}
	return rows
}
