package scoring

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// partialRatio scores how well the shorter string occurs inside the longer one, on a
// 0–100 scale. Every window of the longer string with the shorter string's length is
// compared by Levenshtein distance and the best window wins, so small typos and
// inflections ("deploy" vs "deployed", "kubernets" vs "kubernetes") still score high.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	needle := string(short)
	if strings.Contains(string(long), needle) {
		return 100
	}

	best := 0
	n := len(short)
	for start := 0; start+n <= len(long); start++ {
		dist := levenshtein.ComputeDistance(needle, string(long[start:start+n]))
		if sim := n - dist; sim > best {
			best = sim
			if best == n {
				break
			}
		}
	}

	return 100 * float64(best) / float64(n)
}
