package invoicing

import "github.com/warp/payables-engine/payment"

// ToPaymentData is the invoice arm of the payee translation: amount as-is,
// recipient is the supplier category's display name. Adding a new payee
// variant means adding a new arm in its own package, never touching this one.
func ToPaymentData(inv Invoice) payment.Data {
	return payment.Data{
		Amount:    inv.Amount,
		Recipient: inv.Category.DisplayName(),
	}
}
