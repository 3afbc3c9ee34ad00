package models

// StrategyConfig is the user's DCA plan. Allocation percentages are validated
// to sum to 100 (±0.01) at setup time and are not re-checked afterwards.
type StrategyConfig struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Creator        string             `json:"creator"`
	Allocation     map[string]float64 `json:"allocation"`   // symbol -> target percent
	WeeklyAmount   float64            `json:"weeklyAmount"` // GAS per week
	WeeksCompleted int                `json:"weeksCompleted"`
	TotalWeeks     *int               `json:"totalWeeks"` // nil = indefinite; stored, never enforced
	StrictMode     bool               `json:"strictMode"`
}

// Portfolio holds current positions and the metrics derived from them.
// TotalValue, ProfitLoss and ProfitLossPercent are always recomputed, never
// set independently.
type Portfolio struct {
	Holdings          map[string]float64 `json:"holdings"`       // symbol -> quantity
	HoldingsValue     map[string]float64 `json:"holdingsValue"`  // symbol -> value in GAS
	HoldingsChange    map[string]float64 `json:"holdingsChange"` // symbol -> percent change, informational
	TotalValue        float64            `json:"totalValue"`
	CostBasis         float64            `json:"costBasis"`
	ProfitLoss        float64            `json:"profitLoss"`
	ProfitLossPercent float64            `json:"profitLossPercent"`
}

// Transaction records one weekly purchase. Records are immutable and the log
// is ordered most-recent-first.
type Transaction struct {
	Week      int                `json:"week"`
	Date      string             `json:"date"` // RFC 3339 UTC
	Purchased map[string]float64 `json:"purchased"`
	GasSpent  float64            `json:"gasSpent"`
	TxHash    string             `json:"txHash"` // simulated, random hex
}

// AgentState is the aggregate root. Exactly one exists per state file; it is
// loaded wholesale and rewritten wholesale on every successful mutation.
// This struct matches the structure of the JSON state file.
type AgentState struct {
	HasStrategy    bool            `json:"hasStrategy"`
	Strategy       *StrategyConfig `json:"strategy"`
	Portfolio      Portfolio       `json:"portfolio"`
	NextDCA        string          `json:"nextDCA"` // RFC 3339 UTC
	DCAPoolBalance float64         `json:"dcaPoolBalance"`
	Transactions   []Transaction   `json:"transactions"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// Snapshot is the projection returned to API callers: everything except the
// transaction log.
type Snapshot struct {
	HasStrategy    bool            `json:"hasStrategy"`
	Strategy       *StrategyConfig `json:"strategy"`
	Portfolio      Portfolio       `json:"portfolio"`
	NextDCA        string          `json:"nextDCA"`
	DCAPoolBalance float64         `json:"dcaPoolBalance"`
}

// Clone returns a deep copy of the state. Mutating operations work on a copy
// and commit it only after the snapshot has been persisted.
func (s AgentState) Clone() AgentState {
	out := s
	if s.Strategy != nil {
		strat := *s.Strategy
		strat.Allocation = cloneMap(s.Strategy.Allocation)
		if s.Strategy.TotalWeeks != nil {
			tw := *s.Strategy.TotalWeeks
			strat.TotalWeeks = &tw
		}
		out.Strategy = &strat
	}
	out.Portfolio.Holdings = cloneMap(s.Portfolio.Holdings)
	out.Portfolio.HoldingsValue = cloneMap(s.Portfolio.HoldingsValue)
	out.Portfolio.HoldingsChange = cloneMap(s.Portfolio.HoldingsChange)
	out.Transactions = make([]Transaction, len(s.Transactions))
	for i, tx := range s.Transactions {
		tx.Purchased = cloneMap(tx.Purchased)
		out.Transactions[i] = tx
	}
	return out
}

// Snapshot builds the API projection from the state.
func (s AgentState) Snapshot() Snapshot {
	c := s.Clone()
	return Snapshot{
		HasStrategy:    c.HasStrategy,
		Strategy:       c.Strategy,
		Portfolio:      c.Portfolio,
		NextDCA:        c.NextDCA,
		DCAPoolBalance: c.DCAPoolBalance,
	}
}

func cloneMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
