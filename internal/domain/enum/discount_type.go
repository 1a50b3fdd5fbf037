package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiscountType selects how a cart-level discount amount is interpreted
type DiscountType int

const (
	DiscountTypeFlat    DiscountType = 0
	DiscountTypePercent DiscountType = 1
)

func (t DiscountType) String() string {
	names := [...]string{"flat", "percent"}
	if int(t) < 0 || int(t) >= len(names) {
		return "flat"
	}
	return names[t]
}

// ParseDiscountType maps "flat" / "percent" (any case) to a DiscountType
func ParseDiscountType(s string) (DiscountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "amount", "":
		return DiscountTypeFlat, nil
	case "percent", "percentage", "%":
		return DiscountTypePercent, nil
	}
	return DiscountTypeFlat, fmt.Errorf("unknown discount type %q", s)
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i != int(DiscountTypeFlat) && i != int(DiscountTypePercent) {
			return fmt.Errorf("unknown discount type %d", i)
		}
		*t = DiscountType(i)
		return nil
	}
	parsed, err := ParseDiscountType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
