package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/templates"
)

// templatesCommand creates the template browsing command.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "List, inspect and pick templates",
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesShowCommand())
	cmd.AddCommand(c.templatesPickCommand())

	return cmd
}

func (c *CLI) templatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			printTable(templateHeaders, templateRows(reg.List(), reg.Fallback()), nil)
			return nil
		},
	}
}

func (c *CLI) templatesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template's style and visible elements",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			reg, err := c.newRegistry()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return reg.IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			if !reg.Has(args[0]) {
				return errors.New(errors.ErrCodeTemplateNotFound, "unknown template %q (see 'storyboard templates list')", args[0])
			}
			d, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			showTemplate(d, reg.Fallback())
			return nil
		},
	}
}

func (c *CLI) templatesPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Pick a template interactively and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			id, err := pickTemplate(reg, reg.Fallback())
			if err != nil {
				return err
			}
			if id == "" {
				printInfo("No template selected")
				return nil
			}
			printSuccess("Selected %s", StyleValue.Render(id))
			printNextStep("Render with it", "storyboard render schedule.yaml -t "+id)
			return nil
		},
	}
}

var templateHeaders = []string{"ID", "Name", "Strategy", "Max", "Status", "Description"}

func templateRows(defs []templates.Definition, fallback string) [][]string {
	rows := make([][]string, len(defs))
	for i, d := range defs {
		s, _ := render.StrategyFor(d.Strategy)
		rows[i] = []string{d.ID, d.Name, s.Name(), strconv.Itoa(s.MaxItems()), templateStatus(d, fallback), d.Description}
	}
	return rows
}

// showTemplate prints the materialized template.
func showTemplate(d templates.Definition, fallback string) {
	inst := d.Instantiate()
	st := inst.Style.WithDefaults()

	fmt.Fprintln(out, StyleTitle.Render(d.Name))
	if d.Description != "" {
		fmt.Fprintln(out, StyleDim.Render(d.Description))
	}
	fmt.Fprintln(out)
	printKeyValue("id", d.ID)
	printKeyValue("status", templateStatus(d, fallback))
	printKeyValue("strategy", inst.Strategy.Name())
	printKeyValue("max classes", strconv.Itoa(inst.Strategy.MaxItems()))
	printKeyValue("layout", string(st.Layout))
	printKeyValue("spacing", string(st.Spacing))
	printKeyValue("radius", string(st.Radius))
	printKeyValue("divider", string(st.Divider))
	printKeyValue("font", fmt.Sprintf("%s, body %dpx, heading %d", st.FontFamily, st.BodySize, st.HeadingWeight))
	printKeyValue("colors", strings.Join([]string{st.AccentColor, st.BackgroundColor, st.TextPrimary, st.TextSecondary, st.CardColor}, " "))
	printKeyValue("logo", fmt.Sprintf("%s, %dpx", st.LogoPosition, st.LogoSize))
	printKeyValue("elements", strings.Join(inst.Visible.Strings(), ", "))

	var overridden []string
	for _, id := range elements.IDs() {
		if es, ok := inst.ElementStyles[id]; ok && !es.Without(elements.DefaultStyle(id)).IsZero() {
			overridden = append(overridden, string(id))
		}
	}
	if len(overridden) > 0 {
		printKeyValue("overrides", strings.Join(overridden, ", "))
	}
}

func strategyDeprecated(name string) bool {
	s, ok := render.StrategyFor(name)
	return ok && s.Deprecated()
}
