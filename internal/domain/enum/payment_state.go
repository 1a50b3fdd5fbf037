package enum

import "encoding/json"

// PaymentState describes how tendered payments relate to the grand total
type PaymentState int

const (
	PaymentStateEmpty    PaymentState = 0
	PaymentStatePartial  PaymentState = 1
	PaymentStateBalanced PaymentState = 2
	PaymentStateOverpaid PaymentState = 3
)

func (s PaymentState) String() string {
	names := [...]string{"empty", "partial", "balanced", "overpaid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "empty"
	}
	return names[s]
}

func (s PaymentState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
