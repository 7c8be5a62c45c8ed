package answer

import (
	"math/rand"
	"strings"
)

// MultipleChoiceOptions builds the option list for a multiple-choice
// question: the correct answer plus up to count-1 distinct wrong answers
// drawn uniformly from the pool, shuffled together. Case-insensitive
// duplicates of the correct answer never appear among the distractors. With
// an empty pool the correct answer is returned alone.
func MultipleChoiceOptions(correct string, pool []string, count int, rng *rand.Rand) []string {
	if count < 2 {
		count = 2
	}

	var distractors []string
	seen := map[string]struct{}{strings.ToLower(correct): {}}
	for _, a := range pool {
		key := strings.ToLower(strings.TrimSpace(a))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		distractors = append(distractors, a)
	}

	shuffle := rand.Shuffle
	intn := rand.Intn
	if rng != nil {
		shuffle = rng.Shuffle
		intn = rng.Intn
	}

	// Uniform selection of count-1 distractors via a partial shuffle.
	if len(distractors) > count-1 {
		for i := 0; i < count-1; i++ {
			j := i + intn(len(distractors)-i)
			distractors[i], distractors[j] = distractors[j], distractors[i]
		}
		distractors = distractors[:count-1]
	}

	options := append([]string{correct}, distractors...)
	shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
