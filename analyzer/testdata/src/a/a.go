package a

// Max branches and merges, giving its CFG a diamond shape.
func Max(x, y int) int {
	var m int
	if x > y {
		m = x
	} else {
		m = y
	}
	return m
}

// Straight has a single basic block.
func Straight(x int) int {
	return x + 1
}
