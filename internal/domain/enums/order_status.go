package enums

import "strings"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusFailed         OrderStatus = "failed"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPendingPayment: "لم يتم الدفع",
	OrderStatusPaid:           "تم الدفع",
	OrderStatusFailed:         "فشل الدفع",
}

// Label is the Arabic text shown to staff and customers.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// ParseOrderStatus accepts either the code or the Arabic label.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	raw = strings.TrimSpace(raw)
	if s := OrderStatus(strings.ToLower(raw)); s.Valid() {
		return s, true
	}
	for status, label := range orderStatusLabels {
		if label == raw {
			return status, true
		}
	}
	return "", false
}
