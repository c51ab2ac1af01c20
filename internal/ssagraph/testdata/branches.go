package branches

func nested(x int) int {
	if x == 1 {
		if x == 2 {
			return 1
		}
	}
	return 0
}

func loop(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		if s == 0 {
			s = 1
		}
	}
	return s
}
