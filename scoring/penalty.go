package scoring

// Adjust subtracts a team penalty from its raw total, floored at zero.
// Negative penalties are ignored.
func Adjust(raw, penalty int) int {
	if penalty < 0 {
		penalty = 0
	}
	if adjusted := raw - penalty; adjusted > 0 {
		return adjusted
	}
	return 0
}
