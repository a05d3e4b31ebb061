package engine

// SplitPair is one way to divide a remainder into two non-empty stacks,
// canonicalized with Left <= Right so (a,b) and (b,a) count once.
type SplitPair struct {
	Left, Right Stack
}

// CalculateSplits enumerates every distinct split of remainder into two
// non-empty stacks, in increasing order of the left part. A remainder below
// 2 has no splits; otherwise there are exactly floor(remainder/2).
func CalculateSplits(remainder Stack) []SplitPair {
	if remainder <= 1 {
		return nil
	}
	splits := make([]SplitPair, 0, remainder/2)
	for a := Stack(1); a <= remainder/2; a++ {
		splits = append(splits, SplitPair{Left: a, Right: remainder - a})
	}
	return splits
}
