package scenery

// Stamps are multi-line art blocks; every line of a stamp has the same width
// None of their glyphs belong to the snow palette, so scenery never melts

var smallTree = []string{
	"   /\\   ",
	"  /  \\  ",
	" /    \\ ",
	"/______\\",
	"   ||   ",
}

var tallTree = []string{
	"    /\\    ",
	"   /  \\   ",
	"  /    \\  ",
	"  /    \\  ",
	" /      \\ ",
	"/________\\",
	"    ||    ",
	"    ||    ",
}

var trees = [][]string{smallTree, smallTree, tallTree}

const (
	groundTop  = '~'
	groundFill = ':'
	moonGlyph  = 'o'
)

func stampSize(stamp []string) (width, height int) {
	if len(stamp) == 0 {
		return 0, 0
	}
	return len([]rune(stamp[0])), len(stamp)
}
