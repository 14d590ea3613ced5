package questiongen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// template produces a question text and its canonical answer.
type template func(rng *rand.Rand) (text, answer string)

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}

// formatNumber renders whole values without a decimal point.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

var aptitudeTemplates = map[string]template{
	"percentage": func(rng *rand.Rand) (string, string) {
		x := pick(rng, []int{10, 15, 20, 25, 30, 40, 50, 60, 75})
		y := pick(rng, []int{50, 100, 150, 200, 500, 1000})
		return fmt.Sprintf("What is %d%% of %d?", x, y), formatNumber(float64(x*y) / 100)
	},
	"speed": func(rng *rand.Rand) (string, string) {
		speed := pick(rng, []int{30, 40, 50, 60, 80, 100})
		hours := pick(rng, []int{2, 3, 4, 5})
		return fmt.Sprintf("A car travels at %d mph for %d hours. How many miles does it cover?", speed, hours),
			strconv.Itoa(speed * hours)
	},
	"work": func(rng *rand.Rand) (string, string) {
		machines := pick(rng, []int{5, 10, 20})
		minutes := pick(rng, []int{5, 10, 20})
		widgets := pick(rng, []int{5, 10, 20})
		return fmt.Sprintf("If %d machines take %d minutes to make %d widgets, how long would it take 100 machines to make 100 widgets?",
			machines, minutes, widgets), strconv.Itoa(minutes)
	},
	"profit_loss": func(rng *rand.Rand) (string, string) {
		cost := pick(rng, []int{100, 200, 500})
		pct := pick(rng, []int{10, 20, 25, 50})
		sell := float64(cost) + float64(cost*pct)/100
		return fmt.Sprintf("An item costs $%d. If it is sold at a %d%% profit, what is the selling price?", cost, pct),
			formatNumber(sell)
	},
	"average": func(rng *rand.Rand) (string, string) {
		count := pick(rng, []int{3, 4, 5})
		nums := make([]int, count)
		for {
			sum := 0
			for i := range nums {
				nums[i] = pick(rng, []int{10, 20, 30, 40, 50}) * (1 + rng.IntN(3))
				sum += nums[i]
			}
			if sum%count == 0 {
				return fmt.Sprintf("What is the average of %s?", joinInts(nums)), strconv.Itoa(sum / count)
			}
		}
	},
}

var logicalTemplates = map[string]template{
	"sequence": func(rng *rand.Rand) (string, string) {
		start := 1 + rng.IntN(10)
		diff := 2 + rng.IntN(4)
		seq := make([]int, 5)
		for i := range seq {
			seq[i] = start + i*diff
		}
		return fmt.Sprintf("Find the next number in the sequence: %s, ...?", joinInts(seq[:4])), strconv.Itoa(seq[4])
	},
	"coding": func(rng *rand.Rand) (string, string) {
		word := pick(rng, []string{"CAT", "DOG", "PEN", "MAP"})
		return fmt.Sprintf("If %s is coded as %s, how is BAT coded?", word, shiftWord(word, 1)), shiftWord("BAT", 1)
	},
	"direction": func(rng *rand.Rand) (string, string) {
		t := pick(rng, [][3]int{{3, 4, 5}, {6, 8, 10}, {5, 12, 13}})
		return fmt.Sprintf("A person walks %d km North, then %d km East. What is the shortest distance from the starting point?", t[0], t[1]),
			strconv.Itoa(t[2])
	},
	"blood_relation": func(*rand.Rand) (string, string) {
		return "A man points to a photograph and says, 'Brothers and sisters I have none, but that man's father is my father's son.' Who is in the photograph?", "Son"
	},
}

// analogy is returned when no template kind is configured.
func analogy(*rand.Rand) (string, string) {
	return "Leaf is to Tree as Page is to...?", "Book"
}

// shiftWord applies a Caesar shift to an upper-case word.
func shiftWord(word string, by int) string {
	out := []rune(word)
	for i, c := range out {
		out[i] = c + rune(by)
	}
	return string(out)
}
