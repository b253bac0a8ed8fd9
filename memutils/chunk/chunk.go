package chunk

// Chunk describes one contiguous range of bytes within an arena
type Chunk struct {
	Start int
	Size  int
}

// End returns the first offset past the end of the chunk
func (c Chunk) End() int {
	return c.Start + c.Size
}

// Adjacent returns true if next begins exactly where c ends
func (c Chunk) Adjacent(next Chunk) bool {
	return c.Start+c.Size == next.Start
}
