package schema

import "time"

// WithdrawalLimit represents the withdrawal_limits table
type WithdrawalLimit struct {
	Asset string `gorm:"column:asset;primaryKey;type:text"`
	// CurrentLimit is the decimal limit in ledger units
	CurrentLimit string    `gorm:"column:current_limit;type:text;not null"`
	ValidUntil   time.Time `gorm:"column:valid_until;type:timestamptz;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;autoUpdateTime;type:timestamptz"`
}

// TableName specifies the table name for the WithdrawalLimit model
func (WithdrawalLimit) TableName() string {
	return "withdrawal_limits"
}
