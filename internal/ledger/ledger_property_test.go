package ledger

import (
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

// TestLedgerAccountingProperty checks the accounting identities over random
// interleavings of payments and disbursement attempts: revenue always equals
// EntryFee per payment, the pool equals payments minus DisburseDebit per pass
// that fired, the pool never goes negative, and the eligibility list tracks
// payments since the last pass.
func TestLedgerAccountingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := New()
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))

		payments := 0
		passes := 0
		sinceLastPass := 0

		steps := rapid.IntRange(1, 300).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "pay") {
				l.RecordPayment(rapid.StringMatching(`u[0-9]{1,3}`).Draw(t, "user"))
				payments++
				sinceLastPass++
			} else {
				pre := l.RewardPool()
				d, ok := l.TryDisburse(rng)
				if ok {
					if pre < DisburseThreshold {
						t.Fatalf("disbursement fired with pool %d below threshold", pre)
					}
					if d.Total > MaxAwardTotal {
						t.Fatalf("awarded %d, cap is %d", d.Total, MaxAwardTotal)
					}
					if got := l.RewardPool(); got != pre-DisburseDebit {
						t.Fatalf("pool %d after pass, want %d", got, pre-DisburseDebit)
					}
					if got := len(l.Players()); got != 0 {
						t.Fatalf("%d eligible players after pass, want 0", got)
					}
					passes++
					sinceLastPass = 0
				} else if got := l.RewardPool(); got != pre {
					t.Fatalf("no-op pass moved pool from %d to %d", pre, got)
				}
			}

			if got := l.TotalRevenue(); got != EntryFee*payments {
				t.Fatalf("revenue %d, want %d", got, EntryFee*payments)
			}
			if got := l.RewardPool(); got != EntryFee*payments-DisburseDebit*passes {
				t.Fatalf("pool %d, want %d", got, EntryFee*payments-DisburseDebit*passes)
			}
			if got := l.RewardPool(); got < 0 {
				t.Fatalf("pool went negative: %d", got)
			}
			if got := len(l.Players()); got != sinceLastPass {
				t.Fatalf("%d eligible players, want %d", got, sinceLastPass)
			}
		}
	})
}

// TestDisbursementAwardsProperty checks that every pass samples distinct list
// entries and only awards denominations from the fixed set.
func TestDisbursementAwardsProperty(t *testing.T) {
	valid := map[int]bool{}
	for _, a := range RewardAmounts {
		valid[a] = true
	}

	rapid.Check(t, func(t *rapid.T) {
		l := New()
		n := rapid.IntRange(1, 120).Draw(t, "players")
		for i := 0; i < n; i++ {
			l.RecordPayment(rapid.StringMatching(`u[0-9]{1,2}`).Draw(t, "user"))
		}
		l.Restore(State{
			TotalRevenue: n * EntryFee,
			RewardPool:   DisburseThreshold + rapid.IntRange(0, 1000).Draw(t, "extra"),
			Players:      l.Players(),
		})

		rng := rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))
		d, ok := l.TryDisburse(rng)
		if !ok {
			t.Fatal("pass did not fire at threshold")
		}
		if len(d.Awards) > 10 {
			t.Fatalf("%d recipients, want at most 10", len(d.Awards))
		}
		if len(d.Awards) > n {
			t.Fatalf("%d recipients from %d entries", len(d.Awards), n)
		}
		sum := 0
		for _, a := range d.Awards {
			if !valid[a.Amount] {
				t.Fatalf("award %d not in %v", a.Amount, RewardAmounts)
			}
			sum += a.Amount
		}
		if sum != d.Total || sum > MaxAwardTotal {
			t.Fatalf("award sum %d, recorded total %d, cap %d", sum, d.Total, MaxAwardTotal)
		}
	})
}
