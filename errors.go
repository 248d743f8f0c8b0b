package xlstamp

import "errors"

// ErrNoLeftNeighbor indicates the target cell is in column A, so there is no
// column for the identifier annotation.
var ErrNoLeftNeighbor = errors.New("target cell has no left-neighbor column")

// ErrNoRightNeighbor indicates the target cell is in the last worksheet
// column, so there is no column for the filename annotation.
var ErrNoRightNeighbor = errors.New("target cell has no right-neighbor column")

// ErrClosed indicates the stamper's workbook has already been closed.
var ErrClosed = errors.New("stamper is closed")
