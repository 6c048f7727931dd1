package layout

// Resolve turns declared sizes into concrete widths for the given
// available width. Fixed columns take their declared value; flexible
// columns split what remains in proportion to their weights, or get 0
// when nothing remains.
func Resolve(sizes []Size, available float64) []float64 {
	widths := make([]float64, len(sizes))
	fixed := 0.0
	totalWeight := 0.0
	for i, s := range sizes {
		switch s.Kind {
		case Pixels:
			widths[i] = s.Value
			fixed += s.Value
		case Flex:
			totalWeight += s.Value
		}
	}
	remaining := available - fixed
	if totalWeight <= 0 || remaining <= 0 {
		return widths
	}
	for i, s := range sizes {
		if s.Kind == Flex {
			widths[i] = remaining * (s.Value / totalWeight)
		}
	}
	return widths
}

// Cells rounds resolved widths to whole terminal cells. Rounding error is
// carried forward so the total stays as close as possible to the sum of
// the inputs.
func Cells(widths []float64) []int {
	out := make([]int, len(widths))
	carry := 0.0
	for i, w := range widths {
		exact := w + carry
		n := int(exact + 0.5)
		if n < 0 {
			n = 0
		}
		carry = exact - float64(n)
		out[i] = n
	}
	return out
}
