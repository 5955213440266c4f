package ledger

import "sync"

const (
	// EntryFee is the fixed charge per play, in KES.
	EntryFee = 50

	// DisburseThreshold is the pool balance that arms a disbursement pass.
	DisburseThreshold = 5000

	// DisburseDebit is debited from the pool on every pass, whether or not
	// the full amount gets awarded. The shortfall stays with the house.
	DisburseDebit = 2000

	// MaxAwardTotal caps the sum awarded in a single pass.
	MaxAwardTotal = 2000
)

// RewardAmounts are the denominations a single award is drawn from.
var RewardAmounts = [4]int{200, 400, 500, 1000}

// Rand is the random source used for recipient sampling and award draws.
// *math/rand.Rand satisfies it; tests substitute a deterministic stub.
type Rand interface {
	Intn(n int) int
}

// State is the persistable snapshot of a Ledger.
type State struct {
	TotalRevenue int      `json:"total_revenue"`
	RewardPool   int      `json:"reward_pool"`
	Players      []string `json:"players"`
}

// Award is one recipient of a disbursement pass.
type Award struct {
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
}

// Disbursement is the outcome of a single pass. Not persisted.
type Disbursement struct {
	Awards []Award
	Total  int
}

// Ledger holds aggregate revenue, the reward pool and the players eligible
// for the next disbursement. All operations are safe for concurrent use;
// TryDisburse is atomic with respect to concurrent RecordPayment calls.
type Ledger struct {
	mu           sync.Mutex
	totalRevenue int
	rewardPool   int
	players      []string
}

func New() *Ledger {
	return &Ledger{}
}

// RecordPayment credits one entry fee to revenue and the reward pool and
// marks the payer eligible for the next disbursement. Duplicate payers get
// one eligibility entry per payment.
func (l *Ledger) RecordPayment(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalRevenue += EntryFee
	l.rewardPool += EntryFee
	l.players = append(l.players, userID)
}

// TryDisburse runs one disbursement pass if the pool has reached the
// threshold. It samples 2 to 10 eligible entries without replacement, awards
// each a random denomination while the running total stays within
// MaxAwardTotal (entries that would exceed it are skipped, not retried with
// a smaller amount), then debits the pool by exactly DisburseDebit and
// clears the eligibility list. Returns false without touching anything when
// the pool is below the threshold.
func (l *Ledger) TryDisburse(rng Rand) (Disbursement, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rewardPool < DisburseThreshold {
		return Disbursement{}, false
	}

	k := 2 + rng.Intn(9) // uniform in [2,10]
	if k > len(l.players) {
		k = len(l.players)
	}

	var d Disbursement
	for _, idx := range sampleIndexes(rng, len(l.players), k) {
		reward := RewardAmounts[rng.Intn(len(RewardAmounts))]
		if d.Total+reward > MaxAwardTotal {
			continue
		}
		d.Awards = append(d.Awards, Award{UserID: l.players[idx], Amount: reward})
		d.Total += reward
	}

	l.rewardPool -= DisburseDebit
	l.players = nil
	return d, true
}

// sampleIndexes draws k distinct indexes from [0,n) in random order via a
// partial Fisher-Yates shuffle.
func sampleIndexes(rng Rand, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// Snapshot returns a copy of the durable state.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	players := make([]string, len(l.players))
	copy(players, l.players)
	return State{
		TotalRevenue: l.totalRevenue,
		RewardPool:   l.rewardPool,
		Players:      players,
	}
}

// Restore replaces the ledger state with a previously taken snapshot.
func (l *Ledger) Restore(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalRevenue = s.TotalRevenue
	l.rewardPool = s.RewardPool
	l.players = make([]string, len(s.Players))
	copy(l.players, s.Players)
}

// TotalRevenue reports the lifetime revenue.
func (l *Ledger) TotalRevenue() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalRevenue
}

// RewardPool reports the current pool balance.
func (l *Ledger) RewardPool() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rewardPool
}

// Players returns a copy of the current eligibility list.
func (l *Ledger) Players() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	players := make([]string, len(l.players))
	copy(players, l.players)
	return players
}
