package callback

import "context"

// SettlementRepository persists accepted callbacks.
type SettlementRepository interface {
	// RecordCallback stores vc keyed by AppTransID. It reports false when a
	// record for the same AppTransID already exists.
	RecordCallback(ctx context.Context, vc *VerifiedCallback) (bool, error)
}
