package solana

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// MintInfo is the parsed SPL token mint account state.
// Authority fields are empty when the corresponding authority is revoked.
type MintInfo struct {
	MintAuthority   string
	FreezeAuthority string
	Supply          string
	Decimals        int
	IsInitialized   bool
}

// TokenAccountBalance is one entry from getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address  string
	Amount   string
	Decimals int
	UIAmount float64
}
