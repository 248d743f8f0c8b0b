package xlstamp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExtractedImage describes one embedded picture written to the images
// directory by Extract.
type ExtractedImage struct {
	Sheet    string // sheet holding the picture
	Cell     string // anchor cell, e.g. "B4"
	Row      int    // 1-based anchor row
	Filename string // written file name, "<id>.<ext>"
	Path     string // full path of the written file
}

// Extract walks every sheet of the workbook, writes each embedded picture to
// the images directory under a fresh identifier, and reports where each one
// was anchored. Sheets are visited in workbook order, pictures sorted by row
// then column, so output order is deterministic.
func (s *Stamper) Extract() ([]ExtractedImage, error) {
	if s.closed {
		return nil, ErrClosed
	}

	dir := s.ImagesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory %q: %w", dir, err)
	}

	var extracted []ExtractedImage
	for _, sheet := range s.file.GetSheetList() {
		cells, err := s.file.GetPictureCells(sheet)
		if err != nil {
			return extracted, fmt.Errorf("list picture cells in sheet %q: %w", sheet, err)
		}

		refs := make([]CellRef, 0, len(cells))
		for _, cell := range cells {
			ref, err := ParseCellRef(cell)
			if err != nil {
				return extracted, fmt.Errorf("picture cell in sheet %q: %w", sheet, err)
			}
			ref.Sheet = sheet
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(i, j int) bool {
			if refs[i].Row != refs[j].Row {
				return refs[i].Row < refs[j].Row
			}
			return refs[i].Col < refs[j].Col
		})

		for _, ref := range refs {
			pics, err := s.file.GetPictures(sheet, ref.CellName())
			if err != nil {
				return extracted, fmt.Errorf("read pictures at %s: %w", ref, err)
			}
			for _, pic := range pics {
				img, err := s.writeExtracted(dir, sheet, ref, pic)
				if err != nil {
					return extracted, err
				}
				extracted = append(extracted, img)
			}
		}
	}
	return extracted, nil
}

func (s *Stamper) writeExtracted(dir, sheet string, ref CellRef, pic excelize.Picture) (ExtractedImage, error) {
	ext := sniffFormat(pic.File)
	if ext == "" {
		ext = strings.TrimPrefix(pic.Extension, ".")
	}
	if ext == "" {
		ext = "jpg"
	}

	id := normalizeIdentifier(s.opts.newID())
	filename := id + "." + ext
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, pic.File, 0o644); err != nil {
		return ExtractedImage{}, fmt.Errorf("write extracted image %q: %w", path, err)
	}

	return ExtractedImage{
		Sheet:    sheet,
		Cell:     ref.CellName(),
		Row:      ref.Row + 1,
		Filename: filename,
		Path:     path,
	}, nil
}

// WriteManifest writes a workbook listing the extracted images, one row per
// picture under a header row.
func (s *Stamper) WriteManifest(path string, images []ExtractedImage) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []any{"sheet", "cell", "row", "filename", "path"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	for i, img := range images {
		cell := "A" + fmt.Sprint(i+2)
		row := []any{img.Sheet, img.Cell, img.Row, img.Filename, img.Path}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write manifest row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save manifest %q: %w", path, err)
	}
	return nil
}
