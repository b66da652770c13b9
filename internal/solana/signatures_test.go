package solana

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// pagingRPC serves a fixed newest-first signature list page by page.
type pagingRPC struct {
	sigs  []SignatureInfo
	calls int
	err   error
}

func (c *pagingRPC) GetSignaturesForAddress(_ context.Context, _ string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	sigs := c.sigs
	if opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}
	if opts.Limit > 0 && opts.Limit < len(sigs) {
		sigs = sigs[:opts.Limit]
	}
	return sigs, nil
}

func (c *pagingRPC) GetTransaction(context.Context, string) (*Transaction, error) {
	return nil, nil
}
func (c *pagingRPC) GetMintInfo(context.Context, string) (*MintInfo, error) { return nil, nil }
func (c *pagingRPC) GetTokenLargestAccounts(context.Context, string) ([]TokenAccountBalance, error) {
	return nil, nil
}
func (c *pagingRPC) GetBalance(context.Context, string) (uint64, error) { return 0, nil }

func numberedSigs(n int) []SignatureInfo {
	out := make([]SignatureInfo, n)
	for i := range out {
		out[i] = SignatureInfo{Signature: fmt.Sprintf("sig%d", i), Slot: int64(n - i)}
	}
	return out
}

func TestOldestSignaturePage_SinglePage(t *testing.T) {
	rpc := &pagingRPC{sigs: numberedSigs(40)}

	page, err := OldestSignaturePage(context.Background(), rpc, "Mint")
	require.NoError(t, err)
	require.Len(t, page, 40)
	require.Equal(t, "sig39", page[len(page)-1].Signature)
	require.Equal(t, 1, rpc.calls)
}

func TestOldestSignaturePage_WalksToFinalPage(t *testing.T) {
	// Two full pages plus a short tail: three calls, tail returned.
	rpc := &pagingRPC{sigs: numberedSigs(2*SignaturePageLimit + 7)}

	page, err := OldestSignaturePage(context.Background(), rpc, "Mint")
	require.NoError(t, err)
	require.Len(t, page, 7)
	require.Equal(t, fmt.Sprintf("sig%d", 2*SignaturePageLimit+6), page[len(page)-1].Signature)
	require.Equal(t, 3, rpc.calls)
}

func TestOldestSignaturePage_ExactPageBoundary(t *testing.T) {
	// Exactly one full page: the follow-up fetch comes back empty and
	// the full page is the oldest page.
	rpc := &pagingRPC{sigs: numberedSigs(SignaturePageLimit)}

	page, err := OldestSignaturePage(context.Background(), rpc, "Mint")
	require.NoError(t, err)
	require.Len(t, page, SignaturePageLimit)
	require.Equal(t, 2, rpc.calls)
}

func TestOldestSignaturePage_ErrorPropagates(t *testing.T) {
	rpc := &pagingRPC{err: errors.New("rpc down")}

	_, err := OldestSignaturePage(context.Background(), rpc, "Mint")
	require.Error(t, err)
}
