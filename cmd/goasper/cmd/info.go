package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	goasper "github.com/kinimod0/gOASper"
	"github.com/kinimod0/gOASper/layout"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#5F5FD7")).
	Padding(0, 1)

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#666666"))

var infoCmd = &cobra.Command{
	Use:   "info <input.gds>",
	Short: "Show per-cell geometry statistics",
	Long: `Parse a GDSII file and print a table of per-cell statistics: bounding
box, polygon count and the layers the cell draws on. Referenced cells are
not flattened in.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	lib, err := goasper.LoadGDS(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	summary := goasper.Summarize(lib)

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	title := summary.Name
	if title == "" {
		title = args[0]
	}
	fmt.Println(headerStyle.Render(title))
	fmt.Printf("Cells: %d   Database unit: %g m\n\n", len(summary.Cells), lib.DBUnitInMeters)

	nameW := len("CELL")
	for _, c := range summary.Cells {
		if len(c.Name) > nameW {
			nameW = len(c.Name)
		}
	}
	fmt.Printf("%-*s  %8s  %-22s %s\n", nameW, "CELL", "POLYGONS", "BBOX", "LAYERS")
	for _, c := range summary.Cells {
		line := fmt.Sprintf("%-*s  %8d  %-22s %s",
			nameW, c.Name, c.TotalPolygons, formatBBox(c.BBox), formatLayers(c))
		if len(line) > width {
			line = line[:width]
		}
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Println(dimStyle.Render("bounding boxes cover the cell's own geometry only"))
	return nil
}

func formatBBox(b layout.BBox) string {
	if !b.Valid() {
		return "(empty)"
	}
	return fmt.Sprintf("(%d,%d)..(%d,%d)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

func formatLayers(c layout.CellSummary) string {
	keys := make([]layout.LayerKey, 0, len(c.LayerPolygons))
	for k := range c.LayerPolygons {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Layer != keys[j].Layer {
			return keys[i].Layer < keys[j].Layer
		}
		return keys[i].Datatype < keys[j].Datatype
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d/%d", k.Layer, k.Datatype)
	}
	return strings.Join(parts, " ")
}
