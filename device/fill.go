package device

// FillSlice sets every entry of s to value.
func FillSlice[T any](c *Context, s []T, value T) {
	c.ParallelFor(len(s), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			s[i] = value
		}
	})
}

// CopySlice copies src into dst in parallel; lengths must match.
func CopySlice[T any](c *Context, dst, src []T) {
	c.ParallelFor(len(src), func(_, lo, hi int) {
		copy(dst[lo:hi], src[lo:hi])
	})
}
