package answer

// levenshtein computes the edit distance between two rune slices using the
// full dynamic-programming table with unit costs for insert, delete and
// substitute.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	rows := len(a) + 1
	cols := len(b) + 1
	d := make([][]int, rows)
	for i := range d {
		d[i] = make([]int, cols)
		d[i][0] = i
	}
	for j := 0; j < cols; j++ {
		d[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			d[i][j] = min
		}
	}
	return d[rows-1][cols-1]
}

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	return levenshtein([]rune(a), []rune(b))
}
