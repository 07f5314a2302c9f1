package domain

import "time"

// Expense is money spent by a member against their allocation. Date is the
// day the expense happened; CreatedAt is when the row was recorded.
type Expense struct {
	ID          string
	MandalID    string
	CreatedBy   string
	Amount      Amount
	Category    string
	Description string
	Date        time.Time
	ReceiptURL  string
	CreatedAt   time.Time
}
