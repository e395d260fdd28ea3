// Package frame provides a fixed-size character grid used as a rendering layer.
//
// Cells are stored row-major in a single slice: cells[row*columns + col].
// Every access is bounds-checked on that linear index; out-of-range access
// returns ErrOutOfBounds instead of touching memory outside the grid.
package frame

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
)

// Blank is the empty cell; Merge treats it as transparent
const Blank = ' '

var (
	// ErrAllocation is returned when a frame cannot be created for the requested size
	ErrAllocation = errors.New("frame: cannot allocate buffer")

	// ErrOutOfBounds is returned when a cell index falls outside [0,size)
	ErrOutOfBounds = errors.New("frame: cell out of bounds")

	// ErrSizeMismatch is returned by Copy and Merge for frames of different size
	ErrSizeMismatch = errors.New("frame: size mismatch")
)

// Frame is a fixed-size grid of runes
type Frame struct {
	cells   []rune
	columns int
	rows    int
	size    int
}

// New creates a cleared frame of the given dimensions
func New(columns, rows int) (*Frame, error) {
	if columns <= 0 || rows <= 0 {
		return nil, errors.Wrapf(ErrAllocation, "invalid dimensions %dx%d", columns, rows)
	}
	size := columns * rows
	if size > constant.MaxCells || size/columns != rows {
		return nil, errors.Wrapf(ErrAllocation, "%dx%d exceeds %d cells", columns, rows, constant.MaxCells)
	}

	f := &Frame{
		cells:   make([]rune, size),
		columns: columns,
		rows:    rows,
		size:    size,
	}
	f.Fill(Blank)
	return f, nil
}

// Columns returns the frame width
func (f *Frame) Columns() int {
	return f.columns
}

// Rows returns the frame height
func (f *Frame) Rows() int {
	return f.rows
}

// Size returns the number of cells
func (f *Frame) Size() int {
	return f.size
}

// index resolves (col,row) to a linear position
// Only the linear position is checked, so a column past the right edge lands on the next row
func (f *Frame) index(col, row int) (int, error) {
	pos := row*f.columns + col
	if pos < 0 || pos >= f.size {
		return 0, errors.Wrapf(ErrOutOfBounds, "(%d,%d) in %dx%d", col, row, f.columns, f.rows)
	}
	return pos, nil
}

// Put writes a glyph at (col,row)
func (f *Frame) Put(col, row int, glyph rune) error {
	pos, err := f.index(col, row)
	if err != nil {
		return err
	}
	f.cells[pos] = glyph
	return nil
}

// Get returns the glyph at (col,row)
func (f *Frame) Get(col, row int) (rune, error) {
	pos, err := f.index(col, row)
	if err != nil {
		return 0, err
	}
	return f.cells[pos], nil
}

// At returns the glyph at a linear position, or Blank when out of range
func (f *Frame) At(pos int) rune {
	if pos < 0 || pos >= f.size {
		return Blank
	}
	return f.cells[pos]
}

// SetAt writes a glyph at a linear position, ignoring out-of-range positions
func (f *Frame) SetAt(pos int, glyph rune) {
	if pos < 0 || pos >= f.size {
		return
	}
	f.cells[pos] = glyph
}

// IsBlank reports whether (col,row) is inside the frame and empty
func (f *Frame) IsBlank(col, row int) bool {
	g, err := f.Get(col, row)
	return err == nil && g == Blank
}

// Fill sets every cell to glyph
func (f *Frame) Fill(glyph rune) {
	for i := range f.cells {
		f.cells[i] = glyph
	}
}

// WriteText copies text starting at (col,row), wrapping onto following rows
// and stopping at the end of the buffer. Returns the number of runes written.
func (f *Frame) WriteText(col, row int, text string) (int, error) {
	pos, err := f.index(col, row)
	if err != nil {
		return 0, err
	}
	runes := []rune(text)
	n := min(len(runes), f.size-pos)
	copy(f.cells[pos:pos+n], runes[:n])
	return n, nil
}

// WriteShape stamps a multi-line block with its top-left corner at (col,row)
// Each line is clipped to the frame width; lines past the last row are dropped
func (f *Frame) WriteShape(col, row int, shape []string) error {
	pos, err := f.index(col, row)
	if err != nil {
		return err
	}
	if col < 0 || col >= f.columns {
		return errors.Wrapf(ErrOutOfBounds, "shape column %d in %d columns", col, f.columns)
	}

	width := f.columns - col
	for i := 0; i < len(shape) && row+i < f.rows; i++ {
		line := []rune(shape[i])
		n := min(len(line), width)
		copy(f.cells[pos:pos+n], line[:n])
		pos += f.columns
	}
	return nil
}

// Copy overwrites dst with src
func Copy(dst, src *Frame) error {
	if dst.size != src.size {
		return errors.Wrapf(ErrSizeMismatch, "copy %d into %d cells", src.size, dst.size)
	}
	copy(dst.cells, src.cells)
	return nil
}

// Merge overlays src onto dst, leaving dst unchanged where src is Blank
func Merge(dst, src *Frame) error {
	if dst.size != src.size {
		return errors.Wrapf(ErrSizeMismatch, "merge %d into %d cells", src.size, dst.size)
	}
	for i, g := range src.cells {
		if g != Blank {
			dst.cells[i] = g
		}
	}
	return nil
}

// Clone returns an independent copy of the frame
func (f *Frame) Clone() *Frame {
	c := &Frame{
		cells:   make([]rune, f.size),
		columns: f.columns,
		rows:    f.rows,
		size:    f.size,
	}
	copy(c.cells, f.cells)
	return c
}

// Count returns how many cells hold glyph
func (f *Frame) Count(glyph rune) int {
	n := 0
	for _, g := range f.cells {
		if g == glyph {
			n++
		}
	}
	return n
}

// Row returns a copy of one row as a string
func (f *Frame) Row(row int) string {
	if row < 0 || row >= f.rows {
		return ""
	}
	start := row * f.columns
	return string(f.cells[start : start+f.columns])
}

// String returns the grid with newline-separated rows
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(f.size + f.rows)
	for r := 0; r < f.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.Row(r))
	}
	return sb.String()
}

// flusher is satisfied by bufio.Writer and similar buffered writers
type flusher interface {
	Flush() error
}

// Render writes every cell row-major followed by a carriage return, then flushes
// The carriage return makes the next frame overwrite the same terminal rows
func (f *Frame) Render(w io.Writer) error {
	bw, buffered := w.(*bufio.Writer)
	if !buffered {
		bw = bufio.NewWriterSize(w, f.size+1)
	}
	for _, g := range f.cells {
		if _, err := bw.WriteRune(g); err != nil {
			return errors.Wrap(err, "render frame")
		}
	}
	if err := bw.WriteByte('\r'); err != nil {
		return errors.Wrap(err, "render frame")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush frame")
	}
	if fl, ok := w.(flusher); ok && !buffered {
		return fl.Flush()
	}
	return nil
}
