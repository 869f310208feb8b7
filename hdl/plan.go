package hdl

// Levels returns the number of reduction levels needed to cover w
// entries: the smallest L with 4^L >= w. Each level quarters the
// entry count, so L doubles as the instantiation depth of the tree.
func Levels(w int) int {
	levels := 0
	for span := 1; span < w; span *= 4 {
		levels++
	}
	return levels
}

// IndexBits returns the winner index width for w entries, the
// smallest b with 2^b >= w. The tree internally carries two bits per
// level; the top module truncates down to this width.
func IndexBits(w int) int {
	bits := 0
	for span := 1; span < w; span *= 2 {
		bits++
	}
	return bits
}

// LevelEntries returns how many entries a unit at level k consumes.
// The leaf (k = 0) consumes 4; each level above widens the span by 4.
func LevelEntries(k int) int {
	return 1 << (2 * (k + 1))
}

// LevelIndexWidth returns the index width a unit at level k emits:
// two select bits per reduction level.
func LevelIndexWidth(k int) int {
	return 2 * (k + 1)
}
