package storage

import (
	"os"
	"path/filepath"
	"testing"

	"savvy_dca/internal/models"
)

func sampleState() models.AgentState {
	return models.AgentState{
		HasStrategy: true,
		Strategy: &models.StrategyConfig{
			ID:           "safestack",
			Name:         "SafeStack",
			Creator:      "CryptoSara",
			Allocation:   map[string]float64{"BTC": 50, "ETH": 50},
			WeeklyAmount: 100,
			StrictMode:   true,
		},
		Portfolio: models.Portfolio{
			Holdings:       map[string]float64{"BTC": 0.001},
			HoldingsValue:  map[string]float64{"BTC": 97},
			HoldingsChange: map[string]float64{"BTC": 1.5},
			TotalValue:     97,
			CostBasis:      100,
			ProfitLoss:     -3,
		},
		NextDCA:        "2024-01-08T09:00:00Z",
		DCAPoolBalance: 400,
		Transactions: []models.Transaction{
			{Week: 1, Date: "2024-01-01T09:00:00Z", Purchased: map[string]float64{"BTC": 0.001}, GasSpent: 100, TxHash: "0xabc"},
		},
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: "2024-01-01T09:00:00Z",
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "agent_state.json"))

	want := sampleState()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.DCAPoolBalance != want.DCAPoolBalance {
		t.Errorf("Pool balance %g, want %g", got.DCAPoolBalance, want.DCAPoolBalance)
	}
	if got.Strategy == nil || got.Strategy.Name != "SafeStack" {
		t.Error("Strategy lost in round trip")
	}
	if got.Portfolio.Holdings["BTC"] != 0.001 {
		t.Errorf("Holdings lost: %v", got.Portfolio.Holdings)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].TxHash != "0xabc" {
		t.Errorf("Transactions lost: %v", got.Transactions)
	}
	if got.Strategy.TotalWeeks != nil {
		t.Error("Expected nil totalWeeks to survive as nil")
	}
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	// data/ does not exist yet; first save must create it.
	s := New(filepath.Join(t.TempDir(), "data", "nested", "agent_state.json"))

	if err := s.Save(sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(s.Path); err != nil {
		t.Fatalf("State file missing after save: %v", err)
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "agent_state.json"))

	if err := s.Save(sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(s.Path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file left behind after atomic rename")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "agent_state.json"))

	_, err := s.Load()
	if !os.IsNotExist(err) {
		t.Errorf("Expected os.IsNotExist error, got %v", err)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	_, err := New(path).Load()
	if err == nil {
		t.Error("Expected decode error for corrupt file")
	}
}
