package playerjs

// Operations mutate the slice in place and return it.

func spliceOp(n int) operation {
	return func(bs []byte) []byte {
		if n < 0 || n > len(bs) {
			return bs
		}
		return bs[n:]
	}
}

func swapOp(n int) operation {
	return func(bs []byte) []byte {
		if len(bs) == 0 {
			return bs
		}
		i := n % len(bs)
		bs[0], bs[i] = bs[i], bs[0]
		return bs
	}
}

func reverseOp(bs []byte) []byte {
	for l, r := 0, len(bs)-1; l < r; l, r = l+1, r-1 {
		bs[l], bs[r] = bs[r], bs[l]
	}
	return bs
}
