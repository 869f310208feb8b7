package hdl

// CutAt reports whether a node at level k latches its child results
// before combining them. With a bound of maxCombDepth compare levels
// between registers the cut lands at every maxCombDepth-th node level
// starting at k = 1; the leaf itself never cuts. A maxCombDepth of
// zero disables cutting entirely.
func CutAt(k, maxCombDepth int) bool {
	if maxCombDepth <= 0 || k < 1 {
		return false
	}
	return (k-1)%maxCombDepth == 0
}

// CutCount returns how many register stages CutAt places across a
// tree of the given depth.
func CutCount(levels, maxCombDepth int) int {
	count := 0
	for k := 1; k < levels; k++ {
		if CutAt(k, maxCombDepth) {
			count++
		}
	}
	return count
}
