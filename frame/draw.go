package frame

// Line draws a straight line from (c0,r0) to (c1,r1) inclusive
// Points outside the frame are skipped
func (f *Frame) Line(c0, r0, c1, r1 int, glyph rune) {
	if abs(r1-r0) < abs(c1-c0) {
		if c0 > c1 {
			c0, r0, c1, r1 = c1, r1, c0, r0
		}
		f.lineShallow(c0, r0, c1, r1, glyph)
		return
	}
	if r0 > r1 {
		c0, r0, c1, r1 = c1, r1, c0, r0
	}
	f.lineSteep(c0, r0, c1, r1, glyph)
}

// lineShallow steps one column at a time, |dr| < |dc|, c0 <= c1
func (f *Frame) lineShallow(c0, r0, c1, r1 int, glyph rune) {
	dc, dr := c1-c0, r1-r0
	step := 1
	if dr < 0 {
		step, dr = -1, -dr
	}
	eps := 0
	row := r0
	for col := c0; col <= c1; col++ {
		f.plot(col, row, glyph)
		eps += dr
		if eps<<1 >= dc {
			row += step
			eps -= dc
		}
	}
}

// lineSteep steps one row at a time, |dc| <= |dr|, r0 <= r1
func (f *Frame) lineSteep(c0, r0, c1, r1 int, glyph rune) {
	dc, dr := c1-c0, r1-r0
	step := 1
	if dc < 0 {
		step, dc = -1, -dc
	}
	eps := 0
	col := c0
	for row := r0; row <= r1; row++ {
		f.plot(col, row, glyph)
		eps += dc
		if eps<<1 >= dr {
			col += step
			eps -= dr
		}
	}
}

// Circle draws a circle outline of the given radius centred on (c0,r0)
func (f *Frame) Circle(c0, r0, radius int, glyph rune) {
	if radius <= 0 {
		return
	}
	col, row := radius-1, 0
	dcol, drow := 1, 1
	eps := dcol - radius<<1

	for col >= row {
		f.plot(c0+col, r0+row, glyph)
		f.plot(c0+row, r0+col, glyph)
		f.plot(c0-row, r0+col, glyph)
		f.plot(c0-col, r0+row, glyph)
		f.plot(c0-col, r0-row, glyph)
		f.plot(c0-row, r0-col, glyph)
		f.plot(c0+row, r0-col, glyph)
		f.plot(c0+col, r0-row, glyph)

		if eps <= 0 {
			row++
			eps += drow
			drow += 2
		}
		if eps > 0 {
			col--
			dcol += 2
			eps += dcol - radius<<1
		}
	}
}

// plot writes only when (col,row) is a real cell, never wrapping across rows
func (f *Frame) plot(col, row int, glyph rune) {
	if col < 0 || col >= f.columns || row < 0 || row >= f.rows {
		return
	}
	f.cells[row*f.columns+col] = glyph
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
