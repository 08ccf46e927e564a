package schema

import (
	"time"

	"github.com/feral-file/notary-bridge/internal/domain"
)

// BridgeToken represents the bridge_tokens table - the registry of watched token contracts
type BridgeToken struct {
	// Address is the lowercase hex token contract address
	Address string `gorm:"column:address;primaryKey;type:text"`
	// AssetID is the ledger asset id, e.g. dai#ethereum
	AssetID   string        `gorm:"column:asset_id;type:text;not null;uniqueIndex:idx_bridge_tokens_asset"`
	Precision int32         `gorm:"column:decimals;not null"`
	Anchor    domain.Anchor `gorm:"column:anchor;type:text;not null"`
	CreatedAt time.Time     `gorm:"column:created_at;not null;autoCreateTime;type:timestamptz"`
	UpdatedAt time.Time     `gorm:"column:updated_at;not null;autoUpdateTime;type:timestamptz"`
}

// TableName specifies the table name for the BridgeToken model
func (BridgeToken) TableName() string {
	return "bridge_tokens"
}
