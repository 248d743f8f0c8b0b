package xlstamp

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// maxRows is the xlsx row limit; the propagation loop never walks past it.
const maxRows = 1048576

// Stamper places an image into a worksheet at a target cell, exports it to a
// JPEG file beside the workbook, and annotates neighboring cells with the
// generated identifier and filename.
//
// A Stamper is not safe for concurrent use; the workflow is single-user and
// synchronous by design.
type Stamper struct {
	file   *excelize.File
	path   string
	opts   *Options
	pred   *rowPredicate
	closed bool
}

// Result describes one completed (or skipped) stamp.
type Result struct {
	Identifier    string  // generated identifier, no braces
	Filename      string  // "<identifier>.jpg"
	ImagePath     string  // full path of the exported file
	Target        CellRef // resolved target cell (sheet filled in)
	RowsAnnotated int     // rows that received the identifier/filename pair
	Skipped       bool    // true when the payload was empty (silent no-op)
}

// Open opens an existing workbook and wraps it in a Stamper.
func Open(path string, opts ...Option) (*Stamper, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return NewStamper(f, path, opts...), nil
}

// NewStamper wraps an excelize file. path anchors the images directory (it is
// created beside the workbook) and is where Save writes a file that has never
// been saved before.
func NewStamper(f *excelize.File, path string, opts ...Option) *Stamper {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Stamper{
		file: f,
		path: path,
		opts: o,
		pred: newRowPredicate(o.condition),
	}
}

// File exposes the underlying excelize file.
func (s *Stamper) File() *excelize.File {
	return s.file
}

// ImagesDir returns the directory images are exported to. It is not created
// until the first successful Stamp or Extract.
func (s *Stamper) ImagesDir() string {
	return filepath.Join(filepath.Dir(s.path), s.opts.imagesDir)
}

// Stamp runs the workflow for one image payload at the given target cell.
//
// An empty payload is the silent no-op path: no file is written, no cell is
// touched, and the returned Result has Skipped set. Everything else that goes
// wrong is surfaced as an error, and validation failures happen before any
// side effect.
func (s *Stamper) Stamp(target CellRef, payload []byte) (*Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if len(payload) == 0 {
		return &Result{Skipped: true}, nil
	}

	sheet, err := s.resolveSheet(target.Sheet)
	if err != nil {
		return nil, err
	}
	target.Sheet = sheet

	if target.Row < 0 || target.Col < 0 || target.Col > MaxCol {
		return nil, fmt.Errorf("target %s out of worksheet bounds", target)
	}
	if !target.HasLeft() {
		return nil, fmt.Errorf("target %s: %w", target, ErrNoLeftNeighbor)
	}
	if !target.HasRight() {
		return nil, fmt.Errorf("target %s: %w", target, ErrNoRightNeighbor)
	}

	img, _, err := decodeImage(payload)
	if err != nil {
		return nil, err
	}

	dir := s.ImagesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory %q: %w", dir, err)
	}

	id := normalizeIdentifier(s.opts.newID())
	if id == "" {
		return nil, fmt.Errorf("identifier generator returned an empty identifier")
	}
	filename := id + ".jpg"
	fullPath := filepath.Join(dir, filename)

	// The file must exist on disk before any cell refers to it.
	encoded, err := encodeJPEG(img, s.opts.jpegQuality)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(fullPath, encoded, 0o644); err != nil {
		return nil, fmt.Errorf("write image file %q: %w", fullPath, err)
	}

	if err := s.placePicture(target, encoded, img.Bounds().Dx(), img.Bounds().Dy()); err != nil {
		return nil, err
	}

	rows, err := s.annotate(target, id, filename)
	if err != nil {
		return nil, err
	}

	return &Result{
		Identifier:    id,
		Filename:      filename,
		ImagePath:     fullPath,
		Target:        target,
		RowsAnnotated: rows,
	}, nil
}

// placePicture inserts the picture anchored at the target cell's top-left,
// scaled to the configured square footprint.
func (s *Stamper) placePicture(target CellRef, jpg []byte, width, height int) error {
	scaleX := s.opts.imageSize / float64(width)
	scaleY := s.opts.imageSize / float64(height)
	if s.opts.lockAspectRatio {
		// Uniform scale: fit within the footprint instead of distorting.
		if scaleY < scaleX {
			scaleX = scaleY
		} else {
			scaleY = scaleX
		}
	}
	err := s.file.AddPictureFromBytes(target.Sheet, target.CellName(), &excelize.Picture{
		Extension: ".jpg",
		File:      jpg,
		Format: &excelize.GraphicOptions{
			ScaleX:          scaleX,
			ScaleY:          scaleY,
			LockAspectRatio: s.opts.lockAspectRatio,
			Positioning:     "oneCell",
		},
	})
	if err != nil {
		return fmt.Errorf("place picture at %s: %w", target, err)
	}
	return nil
}

// annotate writes the identifier/filename pair on the target row, then keeps
// writing it on following rows while the propagation condition holds. Returns
// the number of rows written.
func (s *Stamper) annotate(target CellRef, id, filename string) (int, error) {
	if err := s.writePair(target, id, filename); err != nil {
		return 0, err
	}
	count := 1

	grid, err := s.file.GetRows(target.Sheet)
	if err != nil {
		return count, fmt.Errorf("read rows from sheet %q: %w", target.Sheet, err)
	}

	for row := target.Row + 1; row < maxRows; row++ {
		ok, err := s.pred.Eval(scanCells(grid, row, s.opts.scanColumns), row+1)
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		if err := s.writePair(NewCellRef(target.Sheet, row, target.Col), id, filename); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// writePair writes the identifier left of ref and the filename right of ref.
func (s *Stamper) writePair(ref CellRef, id, filename string) error {
	left := ref.Left()
	if err := s.file.SetCellValue(ref.Sheet, left.CellName(), id); err != nil {
		return fmt.Errorf("write identifier at %s: %w", left, err)
	}
	right := ref.Right()
	if err := s.file.SetCellValue(ref.Sheet, right.CellName(), filename); err != nil {
		return fmt.Errorf("write filename at %s: %w", right, err)
	}
	return nil
}

// scanCells returns the first n cell values of a 0-based row, padded with ""
// so the condition always sees n entries. Rows past the used range are empty.
func scanCells(grid [][]string, row, n int) []string {
	cells := make([]string, n)
	if row >= len(grid) {
		return cells
	}
	copy(cells, grid[row])
	return cells
}

// resolveSheet maps an empty sheet name to the active sheet and verifies the
// sheet exists.
func (s *Stamper) resolveSheet(name string) (string, error) {
	if name == "" {
		name = s.file.GetSheetName(s.file.GetActiveSheetIndex())
		if name == "" {
			return "", fmt.Errorf("workbook has no active sheet")
		}
		return name, nil
	}
	idx, err := s.file.GetSheetIndex(name)
	if err != nil {
		return "", fmt.Errorf("resolve sheet %q: %w", name, err)
	}
	if idx < 0 {
		return "", fmt.Errorf("sheet %q does not exist", name)
	}
	return name, nil
}

// Save writes the workbook back to disk: in place when it was opened from a
// path, otherwise to the path the Stamper was created with.
func (s *Stamper) Save() error {
	if s.closed {
		return ErrClosed
	}
	if s.file.Path != "" {
		return s.file.Save()
	}
	if s.path == "" {
		return fmt.Errorf("no workbook path to save to")
	}
	return s.file.SaveAs(s.path)
}

// SaveAs writes the workbook to the given path.
func (s *Stamper) SaveAs(path string) error {
	if s.closed {
		return ErrClosed
	}
	return s.file.SaveAs(path)
}

// Close releases the underlying workbook. The Stamper is unusable afterwards.
func (s *Stamper) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
