package goftr

type PrintIntOpts struct {
	MinWidth int
	NullDash bool // print a negative (null) id as "-"
}

// AppendID appends a right-justified id to the given buffer.
func AppendID(io []byte, val int64, opts PrintIntOpts) []byte {
	var digits [24]byte

	if val < 0 && opts.NullDash {
		for i := 1; i < opts.MinWidth; i++ {
			io = append(io, ' ')
		}
		return append(io, '-')
	}

	neg := val < 0
	if neg {
		val = -val
	}

	N := 0
	for {
		next := val / 10
		digits[N] = '0' + byte(val-10*next)
		val = next
		N++
		if val == 0 {
			break
		}
	}
	if neg {
		digits[N] = '-'
		N++
	}

	for i := N; i < opts.MinWidth; i++ {
		io = append(io, ' ')
	}
	for i := N - 1; i >= 0; i-- {
		io = append(io, digits[i])
	}
	return io
}

func (v VertexID) IsNull() bool {
	return v < 0
}

func (n NodeID) IsNull() bool {
	return n < 0
}

func (a ArcID) IsNull() bool {
	return a < 0
}
