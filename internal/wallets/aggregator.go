// Package wallets folds the trade sequence into per-wallet lifetime profiles
// and scores them for manipulation suspicion.
package wallets

import (
	"token-forensics/internal/domain"
)

// ProfileSet maps wallet addresses to their accumulated profiles.
// Order preserves first-appearance order in the trade sequence so that
// downstream ranking can break score ties deterministically.
type ProfileSet struct {
	ByAddress map[string]*domain.WalletProfile
	Order     []string
}

// Len returns the number of distinct wallets.
func (s *ProfileSet) Len() int {
	return len(s.Order)
}

// Aggregate builds wallet profiles in a single forward pass over the sorted
// trade sequence. Trades without a wallet address are skipped. Accumulation
// is commutative, so the final profiles are permutation-invariant; only the
// Order slice depends on pass order.
func Aggregate(trades []domain.TradeRecord) *ProfileSet {
	set := &ProfileSet{ByAddress: make(map[string]*domain.WalletProfile)}

	for i := range trades {
		t := &trades[i]
		if t.Wallet == "" {
			continue
		}

		p, ok := set.ByAddress[t.Wallet]
		if !ok {
			p = &domain.WalletProfile{
				Address:   t.Wallet,
				FirstSeen: t.Timestamp,
				LastSeen:  t.Timestamp,
			}
			set.ByAddress[t.Wallet] = p
			set.Order = append(set.Order, t.Wallet)
		}

		if t.Timestamp < p.FirstSeen {
			p.FirstSeen = t.Timestamp
		}
		if t.Timestamp > p.LastSeen {
			p.LastSeen = t.Timestamp
		}

		if t.IsBuy() {
			p.BuyCount++
			p.BuyVolume += t.Amount
			p.BuyValue += t.Value
		} else {
			p.SellCount++
			p.SellVolume += t.Amount
			p.SellValue += t.Value
		}
		p.TotalTransactions++
		p.NetQuoteChange += t.NetQuoteChange
	}

	return set
}
