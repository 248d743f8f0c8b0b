package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javajack/xlstamp"
)

var (
	extractImagesDir string
	extractManifest  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <workbook.xlsx>",
	Short: "Export every embedded picture to the images directory",
	Long: `Walk every sheet of the workbook and write each embedded picture to
the images directory beside the workbook, one uniquely named file per picture.
With --manifest, also write a workbook listing sheet, anchor cell, row and
filename for every extracted picture.

Examples:
  xlstamp extract parts.xlsx
  xlstamp extract parts.xlsx --manifest extracted.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractImagesDir, "images-dir", "images", "Name of the export directory beside the workbook")
	extractCmd.Flags().StringVar(&extractManifest, "manifest", "", "Write an xlsx manifest of extracted pictures to this path")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	s, err := xlstamp.Open(args[0], xlstamp.WithImagesDir(extractImagesDir))
	if err != nil {
		return err
	}
	defer s.Close()

	images, err := s.Extract()
	if err != nil {
		return err
	}

	for _, img := range images {
		fmt.Fprintf(cmd.OutOrStdout(), "%s!%s (row %d) -> %s\n", img.Sheet, img.Cell, img.Row, img.Filename)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "extracted %d picture(s) to %s\n", len(images), s.ImagesDir())

	if extractManifest != "" {
		if err := s.WriteManifest(extractManifest, images); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "manifest written to %s\n", extractManifest)
	}
	return nil
}
