package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search/request"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
)

type searchFlags struct {
	category string
	limit    int
	format   string
}

func newSearchCmd(gf *globalFlags) *cobra.Command {
	sf := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search <tab> [query...]",
		Short: "Filter one content tab and print the matches",
		Long: "Runs the text and category filters over one collection (agents, tasks, data, templates)\n" +
			"and prints the matching items. The query words are joined with spaces.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, gf, sf, args)
		},
	}
	cmd.Flags().StringVar(&sf.category, "category", "", "Category label to filter by (default: all)")
	cmd.Flags().IntVarP(&sf.limit, "limit", "l", 0, "Maximum number of items (default: the tab's max results)")
	cmd.Flags().StringVarP(&sf.format, "format", "f", formatText, "Output format: text or json")
	return cmd
}

func runSearch(cmd *cobra.Command, gf *globalFlags, sf *searchFlags, args []string) error {
	if err := validateFormat(sf.format); err != nil {
		return err
	}
	tab, err := content.ParseType(args[0])
	if err != nil {
		return err
	}
	req, err := request.New(strings.Join(args[1:], " "), sf.category, sf.limit)
	if err != nil {
		return err
	}

	cfg, err := gf.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := gf.cliLogger()
	if err != nil {
		return err
	}

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.providers.Get(tab)
	if err != nil {
		return err
	}
	if err := p.Load(cmd.Context()); err != nil {
		return err
	}

	pt, err := a.hub.ProcessTab(cmd.Context(), tab, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sf.format == formatJSON {
		return printTabJSON(out, pt)
	}
	printTabText(out, pt)
	return nil
}

type searchOutput struct {
	Tab        string           `json:"tab"`
	Query      string           `json:"query"`
	Category   string           `json:"category"`
	Items      []map[string]any `json:"items"`
	Categories []string         `json:"availableCategories"`
	Total      int              `json:"total"`
	Matched    int              `json:"matched"`
	Truncated  bool             `json:"truncated"`
}

func printTabJSON(w io.Writer, pt hubuc.ProcessedTab) error {
	items := make([]map[string]any, len(pt.Items))
	for i, it := range pt.Items {
		items[i] = it.Raw()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchOutput{
		Tab:        string(pt.ID),
		Query:      pt.Query,
		Category:   pt.Selected,
		Items:      items,
		Categories: pt.Categories,
		Total:      pt.Stats.Total,
		Matched:    pt.Stats.Matched,
		Truncated:  pt.Truncated,
	})
}

func printTabText(w io.Writer, pt hubuc.ProcessedTab) {
	for _, it := range pt.Items {
		cats := strings.Join(it.Strings(content.FieldCategories), ", ")
		if cats == "" {
			writeLine(w, "%s\t%s", it.ID(), it.Name())
			continue
		}
		writeLine(w, "%s\t%s\t[%s]", it.ID(), it.Name(), cats)
	}
	summary := fmt.Sprintf("%d of %d %s", pt.Stats.Matched, pt.Stats.Total, strings.ToLower(pt.Label))
	if pt.Truncated {
		summary += fmt.Sprintf(" (showing %d)", len(pt.Items))
	}
	writeLine(w, "%s, %d categories", summary, pt.Stats.Categories)
}
