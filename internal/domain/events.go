package domain

import (
	"fmt"
	"time"
)

// Anchor tells which side originally issued a token
type Anchor string

const (
	// AnchorPrimary marks tokens issued on the primary chain
	AnchorPrimary Anchor = "primary"
	// AnchorSecondary marks tokens issued on the secondary ledger and represented on the primary chain
	AnchorSecondary Anchor = "secondary"
)

// EventType is the discriminator of a PrimaryChainEvent
type EventType string

const (
	EventTypeRegistration  EventType = "registration"
	EventTypeNativeDeposit EventType = "native_deposit"
	EventTypeTokenDeposit  EventType = "token_deposit"
)

// PrimaryChainEvent is a fact extracted from a primary chain block.
// The set of implementations is closed: Registration, NativeDeposit and TokenDeposit.
type PrimaryChainEvent interface {
	Type() EventType
	Hash() string
	isPrimaryChainEvent()
}

// Registration is emitted when a client registers its chain address in the master contract
type Registration struct {
	TxHash       string    `json:"tx_hash"`
	Time         time.Time `json:"time"`
	AccountID    string    `json:"account_id"`
	ChainAddress string    `json:"chain_address"`
}

// NativeDeposit is a transfer of the native asset to a pool address
type NativeDeposit struct {
	TxHash      string    `json:"tx_hash"`
	Time        time.Time `json:"time"`
	AccountID   string    `json:"account_id"`
	Asset       string    `json:"asset"`
	Amount      string    `json:"amount"`
	FromAddress string    `json:"from_address"`
}

// TokenDeposit is a token transfer to a pool address
type TokenDeposit struct {
	TxHash      string    `json:"tx_hash"`
	LogIndex    uint      `json:"log_index"`
	Time        time.Time `json:"time"`
	AccountID   string    `json:"account_id"`
	Asset       string    `json:"asset"`
	Amount      string    `json:"amount"`
	FromAddress string    `json:"from_address"`
	Anchor      Anchor    `json:"anchor"`
}

func (Registration) Type() EventType  { return EventTypeRegistration }
func (NativeDeposit) Type() EventType { return EventTypeNativeDeposit }
func (TokenDeposit) Type() EventType  { return EventTypeTokenDeposit }

func (e Registration) Hash() string  { return e.TxHash }
func (e NativeDeposit) Hash() string { return e.TxHash }
func (e TokenDeposit) Hash() string  { return e.TxHash }

func (Registration) isPrimaryChainEvent()  {}
func (NativeDeposit) isPrimaryChainEvent() {}
func (TokenDeposit) isPrimaryChainEvent()  {}

// EventID returns a deterministic identifier of the event.
// Every notary extracting the same block derives the same id.
func EventID(event PrimaryChainEvent) string {
	switch e := event.(type) {
	case Registration:
		return fmt.Sprintf("%s:%s:%s", e.Type(), e.TxHash, e.AccountID)
	case NativeDeposit:
		return fmt.Sprintf("%s:%s", e.Type(), e.TxHash)
	case TokenDeposit:
		return fmt.Sprintf("%s:%s:%d", e.Type(), e.TxHash, e.LogIndex)
	default:
		panic(fmt.Sprintf("unknown event %T", event))
	}
}
