package solana

import "context"

// SignaturePageLimit is the node-side page cap for getSignaturesForAddress.
const SignaturePageLimit = 1000

// OldestSignaturePage walks the newest-first signature pages of an
// address backwards and returns the final page. The last entry of the
// returned slice is the address's first confirmed transaction. For an
// address with fewer signatures than one page this is a single RPC
// call.
func OldestSignaturePage(ctx context.Context, rpc RPCClient, address string) ([]SignatureInfo, error) {
	page, err := rpc.GetSignaturesForAddress(ctx, address, &SignaturesOpts{Limit: SignaturePageLimit})
	if err != nil {
		return nil, err
	}
	for len(page) == SignaturePageLimit {
		next, err := rpc.GetSignaturesForAddress(ctx, address, &SignaturesOpts{
			Limit:  SignaturePageLimit,
			Before: page[len(page)-1].Signature,
		})
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			break
		}
		page = next
	}
	return page, nil
}
