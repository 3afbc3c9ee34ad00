package agent

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"savvy_dca/internal/models"
	"savvy_dca/internal/storage"
)

// allocTolerance is how far the allocation percentages may drift from 100
// before setup is rejected (floating point slack).
const allocTolerance = 0.01

// Agent is the portfolio simulation engine. It owns the full agent state and
// serializes every mutating operation behind one mutex: each operation is a
// read-modify-write-persist cycle against the same snapshot file, and two
// overlapping writers would otherwise lose updates.
type Agent struct {
	store *storage.Store

	mu    sync.Mutex
	state models.AgentState

	// now and rng are swapped out in tests for deterministic schedules and
	// reproducible jitter.
	now func() time.Time
	rng *rand.Rand
}

// SetupParams carries the inputs for SetupGoal.
type SetupParams struct {
	ID           string
	Name         string
	Creator      string
	Allocation   map[string]float64
	WeeklyAmount float64
	Duration     *int // total weeks, nil for indefinite
	StrictMode   bool
}

// New loads the persisted state from the store, or self-heals to a fresh
// empty state if the file is missing or unreadable. Load failures are logged,
// never surfaced: availability wins over reporting corruption at startup.
func New(store *storage.Store) *Agent {
	a := &Agent{
		store: store,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	st, err := store.Load()
	if err != nil || !usable(st) {
		if err != nil {
			log.Printf("WARNING: could not load agent state, starting fresh: %v", err)
		} else {
			log.Printf("WARNING: agent state file is inconsistent, starting fresh")
		}
		st = a.initialState()
		if saveErr := store.Save(st); saveErr != nil {
			log.Printf("ERROR: failed to persist initial state: %v", saveErr)
		}
	} else {
		a.normalize(&st)
		log.Printf("Loaded agent state from %s", store.Path)
	}

	a.state = st
	return a
}

// usable rejects snapshots that decode but are internally inconsistent.
func usable(st models.AgentState) bool {
	if st.HasStrategy && st.Strategy == nil {
		return false
	}
	return true
}

// normalize backfills fields a hand-edited or older state file may lack,
// mirroring how the state would have been initialized.
func (a *Agent) normalize(st *models.AgentState) {
	if st.Portfolio.Holdings == nil {
		st.Portfolio.Holdings = map[string]float64{}
	}
	if st.Portfolio.HoldingsValue == nil {
		st.Portfolio.HoldingsValue = map[string]float64{}
	}
	if st.Portfolio.HoldingsChange == nil {
		st.Portfolio.HoldingsChange = map[string]float64{}
	}
	if st.Transactions == nil {
		st.Transactions = []models.Transaction{}
	}
	nowStr := a.now().UTC().Format(time.RFC3339)
	if st.NextDCA == "" {
		st.NextDCA = nextMonday(a.now()).Format(time.RFC3339)
	}
	if st.CreatedAt == "" {
		st.CreatedAt = nowStr
	}
	if st.UpdatedAt == "" {
		st.UpdatedAt = nowStr
	}
}

func (a *Agent) initialState() models.AgentState {
	nowStr := a.now().UTC().Format(time.RFC3339)
	return models.AgentState{
		HasStrategy:    false,
		Strategy:       nil,
		Portfolio:      emptyPortfolio(),
		NextDCA:        nextMonday(a.now()).Format(time.RFC3339),
		DCAPoolBalance: 0,
		Transactions:   []models.Transaction{},
		CreatedAt:      nowStr,
		UpdatedAt:      nowStr,
	}
}

func emptyPortfolio() models.Portfolio {
	return models.Portfolio{
		Holdings:       map[string]float64{},
		HoldingsValue:  map[string]float64{},
		HoldingsChange: map[string]float64{},
	}
}

// SetupGoal replaces the entire state with a new strategy: prior strategy,
// portfolio and transaction history are discarded. The pool is funded with a
// five-week runway so the first simulations cannot fail on balance.
func (a *Agent) SetupGoal(p SetupParams) (models.Snapshot, error) {
	if p.WeeklyAmount <= 0 {
		return models.Snapshot{}, validationf("weekly amount must be positive")
	}

	total := 0.0
	for _, pct := range p.Allocation {
		total += pct
	}
	if math.Abs(total-100) > allocTolerance {
		return models.Snapshot{}, validationf("allocation percentages must sum to 100, got %g", total)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	alloc := make(map[string]float64, len(p.Allocation))
	for sym, pct := range p.Allocation {
		alloc[sym] = pct
	}

	nowStr := a.now().UTC().Format(time.RFC3339)
	next := models.AgentState{
		HasStrategy: true,
		Strategy: &models.StrategyConfig{
			ID:             p.ID,
			Name:           p.Name,
			Creator:        p.Creator,
			Allocation:     alloc,
			WeeklyAmount:   p.WeeklyAmount,
			WeeksCompleted: 0,
			TotalWeeks:     p.Duration,
			StrictMode:     p.StrictMode,
		},
		Portfolio:      emptyPortfolio(),
		NextDCA:        nextMonday(a.now()).Format(time.RFC3339),
		DCAPoolBalance: p.WeeklyAmount * 5,
		Transactions:   []models.Transaction{},
		CreatedAt:      nowStr,
		UpdatedAt:      nowStr,
	}

	if err := a.commitLocked(next); err != nil {
		return models.Snapshot{}, err
	}

	log.Printf("DCA goal setup: %s - %g GAS/week", p.Name, p.WeeklyAmount)
	return a.state.Snapshot(), nil
}

// SimulateWeek executes one week of the DCA plan against the supplied price
// map. Assets missing from the map trade at 1.0 (1:1 with GAS). Purchase
// prices get a ±5% uniform jitter, and the whole portfolio is then revalued
// with an independent, slightly optimistic jitter, standing in for a live
// market.
func (a *Agent) SimulateWeek(prices map[string]float64) (models.Snapshot, models.Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.HasStrategy || a.state.Strategy == nil {
		return models.Snapshot{}, models.Transaction{}, preconditionf("no strategy configured")
	}

	next := a.state.Clone()
	strat := next.Strategy
	weekly := strat.WeeklyAmount

	if next.DCAPoolBalance < weekly {
		return models.Snapshot{}, models.Transaction{},
			preconditionf("insufficient funds: need %g GAS, have %g GAS", weekly, next.DCAPoolBalance)
	}

	// Buy each allocation slice at a jittered execution price.
	purchased := make(map[string]float64, len(strat.Allocation))
	for sym, pct := range strat.Allocation {
		gasForCoin := weekly * (pct / 100)
		price, ok := prices[sym]
		if !ok {
			price = 1.0
		}
		adjusted := price * (1 + (a.rng.Float64()-0.5)*0.1)
		qty := gasForCoin / adjusted
		next.Portfolio.Holdings[sym] += qty
		purchased[sym] = qty
	}

	// Revalue every held asset, not just this week's buys. The second jitter
	// is drawn independently with a positive bias (+2% expected).
	for sym, qty := range next.Portfolio.Holdings {
		price, ok := prices[sym]
		if !ok {
			price = 1.0
		}
		change := (a.rng.Float64() - 0.3) * 0.1
		next.Portfolio.HoldingsValue[sym] = qty * price * (1 + change)
		next.Portfolio.HoldingsChange[sym] = change * 100
	}

	next.Portfolio.CostBasis += weekly
	recomputeMetrics(&next.Portfolio)

	strat.WeeksCompleted++
	tx := models.Transaction{
		Week:      strat.WeeksCompleted,
		Date:      a.now().UTC().Format(time.RFC3339),
		Purchased: purchased,
		GasSpent:  weekly,
		TxHash:    a.newTxHash(),
	}
	next.Transactions = append([]models.Transaction{tx}, next.Transactions...)

	next.DCAPoolBalance -= weekly
	next.NextDCA = nextMonday(a.now()).Format(time.RFC3339)

	if err := a.commitLocked(next); err != nil {
		return models.Snapshot{}, models.Transaction{}, err
	}

	log.Printf("Week %d DCA executed: %g GAS", strat.WeeksCompleted, weekly)
	return a.state.Snapshot(), tx, nil
}

// AddFunds tops up the DCA pool. Nothing else changes.
func (a *Agent) AddFunds(amount float64) (models.Snapshot, error) {
	if amount <= 0 {
		return models.Snapshot{}, validationf("amount must be positive")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.state.Clone()
	next.DCAPoolBalance += amount

	if err := a.commitLocked(next); err != nil {
		return models.Snapshot{}, err
	}

	log.Printf("Added %g GAS to DCA pool", amount)
	return a.state.Snapshot(), nil
}

// Withdraw liquidates portfolio value proportionally across every holding.
// Cost basis is left unchanged, so profit/loss afterwards reflects remaining
// unrealized gain only. The withdrawn value does not move to the pool and no
// transaction is recorded.
func (a *Agent) Withdraw(amount float64) (models.Snapshot, error) {
	if amount <= 0 {
		return models.Snapshot{}, validationf("amount must be positive")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Portfolio.TotalValue < amount {
		return models.Snapshot{}, preconditionf("insufficient portfolio value: have %g GAS, need %g GAS",
			a.state.Portfolio.TotalValue, amount)
	}

	next := a.state.Clone()
	ratio := amount / next.Portfolio.TotalValue

	for sym, held := range next.Portfolio.Holdings {
		reduced := held * (1 - ratio)
		// Implied per-unit price from the current valuation; guard a zero
		// quantity so the division cannot blow up.
		divisor := held
		if divisor <= 0 {
			divisor = 1
		}
		price := next.Portfolio.HoldingsValue[sym] / divisor
		next.Portfolio.Holdings[sym] = reduced
		next.Portfolio.HoldingsValue[sym] = reduced * price
	}
	// HoldingsChange is deliberately carried over stale.

	recomputeMetrics(&next.Portfolio)

	if err := a.commitLocked(next); err != nil {
		return models.Snapshot{}, err
	}

	log.Printf("Withdrew %g GAS from portfolio", amount)
	return a.state.Snapshot(), nil
}

// History returns the transaction log, most recent first.
func (a *Agent) History() []models.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone().Transactions
}

// Status returns the snapshot projection of the current state.
func (a *Agent) Status() models.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Snapshot()
}

// commitLocked persists the candidate state and, only on success, installs it
// as the current state. A failed write therefore leaves the engine exactly
// where it was; the error propagates to the caller. Must be called with the
// mutex held.
func (a *Agent) commitLocked(next models.AgentState) error {
	next.UpdatedAt = a.now().UTC().Format(time.RFC3339)
	if err := a.store.Save(next); err != nil {
		log.Printf("ERROR: failed to persist state: %v", err)
		return err
	}
	a.state = next
	return nil
}

// recomputeMetrics derives totalValue, profitLoss and profitLossPercent from
// the holdings valuations. Money figures are rounded to 2 decimals.
func recomputeMetrics(p *models.Portfolio) {
	total := 0.0
	for _, v := range p.HoldingsValue {
		total += v
	}
	pl := total - p.CostBasis
	plPct := 0.0
	if p.CostBasis > 0 {
		plPct = pl / p.CostBasis * 100
	}
	p.TotalValue = round2(total)
	p.ProfitLoss = round2(pl)
	p.ProfitLossPercent = round2(plPct)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// newTxHash produces a simulated transaction id: 8 random bytes, hex encoded.
// It is not cryptographically tied to the transaction content.
func (a *Agent) newTxHash() string {
	buf := make([]byte, 8)
	a.rng.Read(buf)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 2, 2+16)
	out[0], out[1] = '0', 'x'
	for _, b := range buf {
		out = append(out, hexdigits[b>>4], hexdigits[b&0x0f])
	}
	return string(out)
}

// nextMonday returns the upcoming Monday at 09:00 UTC, strictly after t: if t
// already falls on a Monday the result is the Monday seven days later.
func nextMonday(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday has Sunday=0; shift so Monday=0 .. Sunday=6.
	idx := (int(t.Weekday()) + 6) % 7
	days := (7 - idx) % 7
	if days == 0 {
		days = 7
	}
	next := t.AddDate(0, 0, days)
	return time.Date(next.Year(), next.Month(), next.Day(), 9, 0, 0, 0, time.UTC)
}
