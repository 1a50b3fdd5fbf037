package enum

import "strings"

// PaymentMethod is a tender type accepted at the terminal
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodFonePay      PaymentMethod = "FonePay"
	PaymentMethodNepalPay     PaymentMethod = "NepalPay"
	PaymentMethodIPS          PaymentMethod = "IPS"
	PaymentMethodDaraz        PaymentMethod = "Daraz"
	PaymentMethodPathaoParcel PaymentMethod = "Pathao Parcel"
	PaymentMethodESewa        PaymentMethod = "eSewa"
	PaymentMethodKhalti       PaymentMethod = "Khalti"
	PaymentMethodBank         PaymentMethod = "Bank"
	PaymentMethodCheque       PaymentMethod = "Cheque"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodFonePay,
	PaymentMethodNepalPay,
	PaymentMethodIPS,
	PaymentMethodDaraz,
	PaymentMethodPathaoParcel,
	PaymentMethodESewa,
	PaymentMethodKhalti,
	PaymentMethodBank,
	PaymentMethodCheque,
}

// PaymentMethods returns the tender catalog in display order
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

// ParsePaymentMethod resolves a method name case-insensitively.
// Spaces, hyphens and underscores are ignored so "credit-card" and "pathao_parcel" resolve too.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	want := foldMethod(s)
	for _, m := range paymentMethods {
		if foldMethod(string(m)) == want {
			return m, true
		}
	}
	return "", false
}

// IsCash reports whether the method needs no reference code
func (m PaymentMethod) IsCash() bool {
	return m == PaymentMethodCash
}

func (m PaymentMethod) String() string {
	return string(m)
}

func foldMethod(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
