package stub

import (
	"context"
	"errors"

	"solana-token-sentinel/internal/solana"
)

// ErrNotFound is returned when a transaction or account is not found.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	Transactions map[string]*solana.Transaction
	Signatures   map[string][]solana.SignatureInfo
	Mints        map[string]*solana.MintInfo
	Largest      map[string][]solana.TokenAccountBalance
	Balances     map[string]uint64

	// Errs forces an error return for a given method name.
	Errs map[string]error

	// Calls counts invocations per method, for short-circuit assertions.
	Calls map[string]int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions: make(map[string]*solana.Transaction),
		Signatures:   make(map[string][]solana.SignatureInfo),
		Mints:        make(map[string]*solana.MintInfo),
		Largest:      make(map[string][]solana.TokenAccountBalance),
		Balances:     make(map[string]uint64),
		Errs:         make(map[string]error),
		Calls:        make(map[string]int),
	}
}

// GetTransaction retrieves a transaction by signature from the stub store.
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	c.Calls["GetTransaction"]++
	if err := c.Errs["GetTransaction"]; err != nil {
		return nil, err
	}
	tx, ok := c.Transactions[signature]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

// GetSignaturesForAddress retrieves signatures for an address from the stub store.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	c.Calls["GetSignaturesForAddress"]++
	if err := c.Errs["GetSignaturesForAddress"]; err != nil {
		return nil, err
	}
	sigs, ok := c.Signatures[address]
	if !ok {
		return nil, nil
	}

	// Start after the Before cursor, matching the node's backwards
	// pagination over the newest-first list.
	if opts != nil && opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}

	// Apply limit if specified
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}

	return sigs, nil
}

// GetMintInfo retrieves parsed mint state from the stub store.
func (c *RPCClient) GetMintInfo(_ context.Context, mint string) (*solana.MintInfo, error) {
	c.Calls["GetMintInfo"]++
	if err := c.Errs["GetMintInfo"]; err != nil {
		return nil, err
	}
	return c.Mints[mint], nil
}

// GetTokenLargestAccounts retrieves the largest token accounts from the stub store.
func (c *RPCClient) GetTokenLargestAccounts(_ context.Context, mint string) ([]solana.TokenAccountBalance, error) {
	c.Calls["GetTokenLargestAccounts"]++
	if err := c.Errs["GetTokenLargestAccounts"]; err != nil {
		return nil, err
	}
	return c.Largest[mint], nil
}

// GetBalance retrieves an account balance from the stub store.
func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	c.Calls["GetBalance"]++
	if err := c.Errs["GetBalance"]; err != nil {
		return 0, err
	}
	return c.Balances[pubkey], nil
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.Transactions[tx.Signature] = tx
}

// AddSignatures adds signatures for an address to the stub store.
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.Signatures[address] = sigs
}

// Verify interface compliance at compile time.
var _ solana.RPCClient = (*RPCClient)(nil)
