package models

import (
	"time"
)

// Payment methods seen in Indian banking transaction feeds.
const (
	PaymentMethodUPI         = "UPI"
	PaymentMethodCard        = "Card"
	PaymentMethodNetBanking  = "Net_Banking"
	PaymentMethodIMPS        = "IMPS"
	PaymentMethodNEFT        = "NEFT"
	PaymentMethodRTGS        = "RTGS"
	PaymentMethodCashDeposit = "Cash_Deposit"
)

// Transaction is one row of an investigation dataset. Rows are immutable
// once ingested; the analytics engine never mutates them.
type Transaction struct {
	ID               uint      `gorm:"primarykey" json:"-"`
	DatasetID        string    `gorm:"index" json:"dataset_id,omitempty"`
	TransactionID    string    `gorm:"index" json:"transaction_id"`
	CustomerID       string    `gorm:"index" json:"customer_id"`
	AccountNumber    string    `json:"account_number,omitempty"`
	MerchantName     string    `json:"merchant_name"`
	MerchantCategory string    `json:"merchant_category"`
	PaymentMethod    string    `json:"payment_method"`
	Amount           float64   `gorm:"not null" json:"amount"`
	Location         string    `json:"location"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
	CreatedAt        time.Time `json:"-"`
}
