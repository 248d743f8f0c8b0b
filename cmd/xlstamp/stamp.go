package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajack/xlstamp"
)

var (
	stampOut         string
	stampImagesDir   string
	stampSize        float64
	stampLockAspect  bool
	stampScanColumns int
	stampCondition   string
)

var stampCmd = &cobra.Command{
	Use:   "stamp <workbook.xlsx> <cell> [image]",
	Short: "Place an image at a cell and annotate the surrounding rows",
	Long: `Place an image into a worksheet at the given cell, export it as
<identifier>.jpg into an images directory beside the workbook, and write the
identifier and filename into the cells left and right of the target. The pair
is repeated down every following row that has data in its leading columns.

The image is read from the file argument, or from stdin when the argument is
"-" or omitted. An empty image payload is a no-op: the workbook is left
untouched and nothing is written to disk.

Examples:
  xlstamp stamp parts.xlsx "Sheet1!C5" photo.png
  xlstamp stamp parts.xlsx C5 - < photo.png
  xlstamp stamp parts.xlsx C5 photo.png --size 80 --lock-aspect
  xlstamp stamp parts.xlsx C5 photo.png -o stamped.xlsx`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runStamp,
}

func init() {
	stampCmd.Flags().StringVarP(&stampOut, "out", "o", "", "Write the result to this path instead of in place")
	stampCmd.Flags().StringVar(&stampImagesDir, "images-dir", "images", "Name of the export directory beside the workbook")
	stampCmd.Flags().Float64Var(&stampSize, "size", 60, "Square footprint of the placed picture in pixels")
	stampCmd.Flags().BoolVar(&stampLockAspect, "lock-aspect", false, "Lock the picture's aspect ratio (fit within the footprint)")
	stampCmd.Flags().IntVar(&stampScanColumns, "scan-columns", 6, "Leading columns checked when propagating down rows")
	stampCmd.Flags().StringVar(&stampCondition, "condition", "", "Custom expr propagation condition over {cells, row}")
	rootCmd.AddCommand(stampCmd)
}

func runStamp(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	workbook := args[0]
	target, err := xlstamp.ParseCellRef(args[1])
	if err != nil {
		return err
	}

	payload, err := readPayload(args)
	if err != nil {
		return err
	}

	opts := []xlstamp.Option{
		xlstamp.WithImagesDir(stampImagesDir),
		xlstamp.WithImageSize(stampSize),
		xlstamp.WithLockAspectRatio(stampLockAspect),
		xlstamp.WithScanColumns(stampScanColumns),
	}
	if stampCondition != "" {
		opts = append(opts, xlstamp.WithPropagateCondition(stampCondition))
	}

	s, err := xlstamp.Open(workbook, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Stamp(target, payload)
	if err != nil {
		return err
	}
	if result.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "empty image payload, nothing to do")
		return nil
	}

	if stampOut != "" {
		err = s.SaveAs(stampOut)
	} else {
		err = s.Save()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "stamped %s\n", result.Target)
	fmt.Fprintf(cmd.OutOrStdout(), "  identifier: %s\n", result.Identifier)
	fmt.Fprintf(cmd.OutOrStdout(), "  image:      %s\n", result.ImagePath)
	fmt.Fprintf(cmd.OutOrStdout(), "  rows:       %d\n", result.RowsAnnotated)
	return nil
}

// readPayload reads the image bytes from the third argument, or from stdin
// when it is "-" or missing.
func readPayload(args []string) ([]byte, error) {
	if len(args) < 3 || args[2] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read image from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[2])
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}
