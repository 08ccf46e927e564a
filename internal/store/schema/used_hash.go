package schema

import (
	"time"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// UsedHash represents the used_hashes table - consumed trigger hashes per operation kind
type UsedHash struct {
	TriggerHash string               `gorm:"column:trigger_hash;primaryKey;type:text"`
	Kind        domain.OperationKind `gorm:"column:kind;primaryKey;type:text"`
	CreatedAt   time.Time            `gorm:"column:created_at;not null;autoCreateTime;type:timestamptz"`
}

// TableName specifies the table name for the UsedHash model
func (UsedHash) TableName() string {
	return "used_hashes"
}
