package checkout

import (
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultTolerance absorbs sub-cent differences when comparing paid and due
var DefaultTolerance = decimal.RequireFromString("0.01")

// PaymentEntry is one declared tender
type PaymentEntry struct {
	Method        enum.PaymentMethod `json:"method"`
	Amount        decimal.Decimal    `json:"amount"`
	ReferenceCode string             `json:"reference_code"`
}

// PaymentStatus is a read-only view of the reconciler
type PaymentStatus struct {
	GrandTotal decimal.Decimal   `json:"grand_total"`
	Entries    []PaymentEntry    `json:"entries"`
	TotalPaid  decimal.Decimal   `json:"total_paid"`
	Remaining  decimal.Decimal   `json:"remaining"`
	ChangeDue  decimal.Decimal   `json:"change_due"`
	State      enum.PaymentState `json:"state"`
	CanConfirm bool              `json:"can_confirm"`
	Remarks    string            `json:"remarks"`
}

// PaymentReconciler tracks tendered payments against a grand total.
// At most one entry exists per method and entries keep selection order.
type PaymentReconciler struct {
	grandTotal decimal.Decimal
	tolerance  decimal.Decimal
	entries    []PaymentEntry
	remarks    string
}

// NewPaymentReconciler creates a reconciler. A non-positive tolerance falls back to DefaultTolerance.
func NewPaymentReconciler(tolerance decimal.Decimal) *PaymentReconciler {
	if !tolerance.IsPositive() {
		tolerance = DefaultTolerance
	}
	return &PaymentReconciler{tolerance: tolerance}
}

// SetGrandTotal sets the amount due, rounded to two places
func (r *PaymentReconciler) SetGrandTotal(total decimal.Decimal) {
	r.grandTotal = RoundMoney(total)
}

// GrandTotal returns the amount due
func (r *PaymentReconciler) GrandTotal() decimal.Decimal {
	return r.grandTotal
}

// ToggleMethod selects or deselects a tender. A newly selected method is
// seeded with the current remaining balance (never below zero). Deselecting
// leaves the other entries untouched. Returns whether the method is now selected.
func (r *PaymentReconciler) ToggleMethod(method enum.PaymentMethod) (bool, error) {
	method, ok := enum.ParsePaymentMethod(string(method))
	if !ok {
		return false, ErrUnknownMethod
	}
	if i := r.index(method); i >= 0 {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		return false, nil
	}
	seed := RoundMoney(decimal.Max(r.Remaining(), decimal.Zero))
	r.entries = append(r.entries, PaymentEntry{Method: method, Amount: seed})
	return true, nil
}

// SetAmount overwrites the amount of a selected method. Negative amounts are
// rejected with no change.
func (r *PaymentReconciler) SetAmount(method enum.PaymentMethod, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	i := r.index(method)
	if i < 0 {
		return ErrMethodNotSelected
	}
	r.entries[i].Amount = amount
	return nil
}

// SetReference stores the reference code of a selected method
func (r *PaymentReconciler) SetReference(method enum.PaymentMethod, code string) error {
	i := r.index(method)
	if i < 0 {
		return ErrMethodNotSelected
	}
	r.entries[i].ReferenceCode = strings.TrimSpace(code)
	return nil
}

// SetRemarks stores free-text remarks for the order
func (r *PaymentReconciler) SetRemarks(remarks string) {
	r.remarks = remarks
}

// Remarks returns the stored remarks
func (r *PaymentReconciler) Remarks() string {
	return r.remarks
}

// Entries returns a copy of the selected tenders in selection order
func (r *PaymentReconciler) Entries() []PaymentEntry {
	out := make([]PaymentEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// TotalPaid is Σ entry amounts
func (r *PaymentReconciler) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Remaining is grandTotal − totalPaid; negative means change is due
func (r *PaymentReconciler) Remaining() decimal.Decimal {
	return r.grandTotal.Sub(r.TotalPaid())
}

// ChangeDue is the amount to return to the customer, zero unless overpaid
func (r *PaymentReconciler) ChangeDue() decimal.Decimal {
	remaining := r.Remaining()
	if remaining.LessThan(r.tolerance.Neg()) {
		return remaining.Neg()
	}
	return decimal.Zero
}

// State derives the reconciliation state from the current entries
func (r *PaymentReconciler) State() enum.PaymentState {
	if !r.hasPositive() {
		return enum.PaymentStateEmpty
	}
	remaining := r.Remaining()
	switch {
	case remaining.GreaterThan(r.tolerance):
		return enum.PaymentStatePartial
	case remaining.LessThan(r.tolerance.Neg()):
		return enum.PaymentStateOverpaid
	default:
		return enum.PaymentStateBalanced
	}
}

// CanConfirm is true when the balance is covered within tolerance and at
// least one entry carries a positive amount.
func (r *PaymentReconciler) CanConfirm() bool {
	return r.Remaining().LessThanOrEqual(r.tolerance) && r.hasPositive()
}

// Confirm returns the finalized tenders with positive amounts, rounded to
// two places. It performs no I/O and never mutates the reconciler.
func (r *PaymentReconciler) Confirm() ([]entity.PaymentDetail, error) {
	if r.Remaining().GreaterThan(r.tolerance) {
		return nil, ErrBalanceRemaining
	}
	details := make([]entity.PaymentDetail, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.Amount.IsPositive() {
			continue
		}
		details = append(details, entity.PaymentDetail{
			Method:        e.Method,
			Amount:        RoundMoney(e.Amount),
			ReferenceCode: e.ReferenceCode,
		})
	}
	if len(details) == 0 {
		return nil, ErrNoPayment
	}
	return details, nil
}

// Status snapshots the reconciler. A remaining balance inside the tolerance
// shows as 0 so it agrees with State and ChangeDue.
func (r *PaymentReconciler) Status() PaymentStatus {
	remaining := r.Remaining()
	if remaining.Abs().LessThanOrEqual(r.tolerance) {
		remaining = decimal.Zero
	}
	return PaymentStatus{
		GrandTotal: r.grandTotal,
		Entries:    r.Entries(),
		TotalPaid:  RoundMoney(r.TotalPaid()),
		Remaining:  RoundMoney(remaining),
		ChangeDue:  RoundMoney(r.ChangeDue()),
		State:      r.State(),
		CanConfirm: r.CanConfirm(),
		Remarks:    r.remarks,
	}
}

// Reset clears entries and remarks. The grand total is kept.
func (r *PaymentReconciler) Reset() {
	r.entries = nil
	r.remarks = ""
}

func (r *PaymentReconciler) hasPositive() bool {
	for _, e := range r.entries {
		if e.Amount.IsPositive() {
			return true
		}
	}
	return false
}

func (r *PaymentReconciler) index(method enum.PaymentMethod) int {
	if m, ok := enum.ParsePaymentMethod(string(method)); ok {
		method = m
	}
	for i := range r.entries {
		if r.entries[i].Method == method {
			return i
		}
	}
	return -1
}
