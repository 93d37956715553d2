package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/mmap"

	goasper "github.com/kinimod0/gOASper"
	"github.com/kinimod0/gOASper/gds"
	"github.com/kinimod0/gOASper/layout"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.gds> <output.oas>",
	Short: "Convert a GDSII file to OASIS",
	Long: `Read a GDSII stream file, validate its cell references and write the
equivalent OASIS file. The output is written atomically: a failed
conversion leaves no partial file behind.

Examples:
  goasper convert chip.gds chip.oas
  goasper convert -v chip.gds chip.oas`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	lib, skipped, err := loadWithSkips(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	if len(skipped) > 0 {
		var tags []string
		for name, count := range skipped {
			tags = append(tags, fmt.Sprintf("%s x%d", name, count))
		}
		sort.Strings(tags)
		fmt.Printf("Skipped unknown records: %s\n", strings.Join(tags, ", "))
	}

	if err := goasper.SaveOASIS(output, lib); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	if verbose {
		fmt.Printf("Converted %d cells from %s to %s\n", len(lib.Cells), input, output)
	}
	return nil
}

// loadWithSkips parses a GDSII file and reports the skipped record tags
// alongside the model.
func loadWithSkips(path string) (*layout.Library, map[string]int, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	dec := gds.NewDecoder(sectionReader(r))
	lib, err := dec.Decode()
	if err != nil {
		return nil, nil, err
	}
	return lib, dec.SkippedRecords(), nil
}

func sectionReader(r *mmap.ReaderAt) io.Reader {
	return io.NewSectionReader(r, 0, int64(r.Len()))
}
