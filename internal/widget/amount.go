package widget

import (
	"strconv"
	"strings"
)

// AmountLimits bound the quantity stepper of a product or cart line.
type AmountLimits struct {
	Min     int
	Max     int
	Default int
}

// DefaultAmountLimits are the stepper bounds used when none are configured.
var DefaultAmountLimits = AmountLimits{Min: 1, Max: 9, Default: 1}

// Parse converts raw stepper input to a quantity. Input that is not an
// integer within [Min, Max] is rejected and the caller keeps its old value.
func (l AmountLimits) Parse(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, l.Allows(v)
}

// Allows reports whether v is within the limits.
func (l AmountLimits) Allows(v int) bool {
	return v >= l.Min && v <= l.Max
}

// Normalized fills missing bounds from DefaultAmountLimits. Min never drops
// below one because a line item needs at least one unit.
func (l AmountLimits) Normalized() AmountLimits {
	if l.Min < 1 {
		l.Min = DefaultAmountLimits.Min
	}
	if l.Max < l.Min {
		l.Max = max(DefaultAmountLimits.Max, l.Min)
	}
	if !l.Allows(l.Default) {
		l.Default = l.Min
	}
	return l
}
