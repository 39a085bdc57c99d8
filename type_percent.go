package cryptotax

import "fmt"

// Percent represents a relative return, in percent points.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// percentOf returns the gain relative to the cost basis. A zero cost basis
// yields 0, not an infinity.
func percentOf(gain, cost Money) Percent {
	if cost.IsZero() {
		return 0
	}
	return Percent(gain.value.Div(cost.value).InexactFloat64() * 100)
}
