package payroll

import "github.com/warp/payables-engine/payment"

// ToPaymentData is the employee arm of the payee translation: base salary
// as the amount, the bank account identifier as the recipient.
func ToPaymentData(emp Employee) payment.Data {
	return payment.Data{
		Amount:    emp.BaseSalary,
		Recipient: emp.BankAccount,
	}
}
