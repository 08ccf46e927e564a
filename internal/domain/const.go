package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Native asset of the primary chain as known by the secondary ledger
	ETHER_ASSET_ID  = "ether#ethereum"
	ETHER_PRECISION = 18
)
