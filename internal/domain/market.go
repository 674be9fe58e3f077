package domain

import "ratecalc/internal/fixed"

// Market is the accounting snapshot a utilization sample can be derived from.
// It is never stored.
type Market struct {
	TotalSupplyAssets fixed.Fixed
	TotalBorrowAssets fixed.Fixed
	LastUpdate        uint64
}

// Utilization = borrowed / supplied. A market without supply or borrows has
// zero utilization.
func (m Market) Utilization() (fixed.Fixed, error) {
	if m.TotalBorrowAssets.Sign() <= 0 || m.TotalSupplyAssets.Sign() <= 0 {
		return fixed.Zero, nil
	}
	return m.TotalBorrowAssets.Div(m.TotalSupplyAssets)
}
