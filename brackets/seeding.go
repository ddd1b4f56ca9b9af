package brackets

// Round-1 seed pairs laid out so that seeds 1 and 2 can only meet in the
// final, 1-4 and 2-3 only in the semifinals, and so on.
var seedingTables = map[int][][2]int{
	8: {
		{1, 8}, {4, 5}, {3, 6}, {2, 7},
	},
	16: {
		{1, 16}, {8, 9}, {5, 12}, {4, 13},
		{3, 14}, {6, 11}, {7, 10}, {2, 15},
	},
	32: {
		{1, 32}, {16, 17}, {9, 24}, {8, 25},
		{5, 28}, {12, 21}, {13, 20}, {4, 29},
		{3, 30}, {14, 19}, {11, 22}, {6, 27},
		{7, 26}, {10, 23}, {15, 18}, {2, 31},
	},
}

var supportedSizes = []int{8, 16, 32, 64, 128}

// MaxArchers is the largest field a bracket can take.
const MaxArchers = 128

// BracketSize returns the smallest supported size that fits n archers.
func BracketSize(n int) (int, error) {
	if n < 2 {
		return 0, ErrNotEnoughArchers
	}
	for _, size := range supportedSizes {
		if n <= size {
			return size, nil
		}
	}
	return 0, ErrTooManyArchers
}

// SeedPairs returns the round-1 pairs for a bracket size. Sizes without a
// curated table pair seed i with size+1-i in seed order.
// TODO: replace the 64 and 128 fallback with the official World Archery charts.
func SeedPairs(size int) [][2]int {
	if table, ok := seedingTables[size]; ok {
		pairs := make([][2]int, len(table))
		copy(pairs, table)
		return pairs
	}
	pairs := make([][2]int, 0, size/2)
	for i := 1; i <= size/2; i++ {
		pairs = append(pairs, [2]int{i, size + 1 - i})
	}
	return pairs
}
