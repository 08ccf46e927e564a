package schema

import (
	"time"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// AddressAllocation represents the address_allocations table - the pool of primary chain deposit addresses
type AddressAllocation struct {
	// Address is the lowercase hex primary chain address
	Address string `gorm:"column:address;primaryKey;type:text"`
	// OwnerAccountID is the ledger account holding the address, null while free
	OwnerAccountID *string `gorm:"column:owner_account_id;type:text;uniqueIndex:idx_address_allocations_owner"`
	// State is either free or allocated
	State domain.AllocationState `gorm:"column:state;type:text;not null;index:idx_address_allocations_state"`
	// AllocatedAt records when the address was handed out
	AllocatedAt *time.Time `gorm:"column:allocated_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime;type:timestamptz"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime;type:timestamptz"`
}

// TableName specifies the table name for the AddressAllocation model
func (AddressAllocation) TableName() string {
	return "address_allocations"
}
