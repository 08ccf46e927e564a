package schema

import (
	"time"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// IssuedSignature represents the issued_signatures table - signatures released by this notary
type IssuedSignature struct {
	Kind        domain.OperationKind `gorm:"column:kind;primaryKey;type:text"`
	TriggerHash string               `gorm:"column:trigger_hash;primaryKey;type:text"`
	Digest      string               `gorm:"column:digest;type:text;not null"`
	Signer      string               `gorm:"column:signer;type:text;not null"`
	V           uint8                `gorm:"column:v;not null"`
	R           string               `gorm:"column:r;type:text;not null"`
	S           string               `gorm:"column:s;type:text;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;not null;autoCreateTime;type:timestamptz"`
}

// TableName specifies the table name for the IssuedSignature model
func (IssuedSignature) TableName() string {
	return "issued_signatures"
}
