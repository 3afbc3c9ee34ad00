package wallet

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testAddr = "0x1234567890abcdef1234567890abcdef12345678"

func TestValidAddress(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{testAddr, true},
		{"0x" + strings.Repeat("A", 40), true},
		{"1234567890abcdef1234567890abcdef12345678", false}, // no 0x
		{"0x1234", false}, // too short
		{"0x" + strings.Repeat("g", 40), false}, // non-hex
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidAddress(tc.addr); got != tc.want {
			t.Errorf("ValidAddress(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestWeiToGas(t *testing.T) {
	one, _ := new(big.Int).SetString("1000000000000000000", 10)
	if got := WeiToGas(one).String(); got != "1" {
		t.Errorf("1e18 wei = %s GAS, want 1", got)
	}

	half, _ := new(big.Int).SetString("1500000000000000000", 10)
	if got := WeiToGas(half).String(); got != "1.5" {
		t.Errorf("1.5e18 wei = %s GAS, want 1.5", got)
	}

	// Exact decimal arithmetic, no float rounding: 1 wei.
	if got := WeiToGas(big.NewInt(1)).String(); got != "0.000000000000000001" {
		t.Errorf("1 wei = %s GAS", got)
	}
}

func TestBalance(t *testing.T) {
	// Fake Neo X JSON-RPC node.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		result := ""
		switch req.Method {
		case "eth_getBalance":
			result = "0x29a2241af62c0000" // 3e18 wei
		case "eth_blockNumber":
			result = "0x10"
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": result})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testnet")

	bal, err := c.Balance(testAddr)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if bal.BalanceGas != "3" {
		t.Errorf("BalanceGas = %s, want 3", bal.BalanceGas)
	}
	if bal.BalanceWei != "3000000000000000000" {
		t.Errorf("BalanceWei = %s", bal.BalanceWei)
	}
	if bal.BlockNumber != 16 {
		t.Errorf("BlockNumber = %d, want 16", bal.BlockNumber)
	}
	if bal.Network != "testnet" {
		t.Errorf("Network = %s", bal.Network)
	}
}

func TestBalance_InvalidAddress(t *testing.T) {
	c := NewClient("http://unused.invalid", "testnet")
	if _, err := c.Balance("not-an-address"); err == nil {
		t.Error("Expected error for invalid address")
	}
}

func TestSwap_Mocked(t *testing.T) {
	c := NewClient("http://unused.invalid", "testnet")

	res, err := c.Swap("2.5", "GAS", "NEO", testAddr)
	if err != nil {
		t.Fatalf("Swap failed: %v", err)
	}

	if !res.Mocked {
		t.Error("Swap result must be flagged as mocked")
	}
	if res.AmountIn != "2.5" || res.AmountOut != "2.5" {
		t.Errorf("Amounts not echoed: in=%s out=%s", res.AmountIn, res.AmountOut)
	}
	if res.SwapID == "" {
		t.Error("Missing swap id")
	}
	if !strings.HasPrefix(res.TxHash, "0x") || len(res.TxHash) != 34 {
		t.Errorf("Unexpected tx hash format: %q", res.TxHash)
	}
}

func TestSwap_Validation(t *testing.T) {
	c := NewClient("http://unused.invalid", "testnet")

	if _, err := c.Swap("2.5", "GAS", "NEO", "bad"); err == nil {
		t.Error("Expected error for invalid address")
	}
	if _, err := c.Swap("-1", "GAS", "NEO", testAddr); err == nil {
		t.Error("Expected error for negative amount")
	}
	if _, err := c.Swap("zero", "GAS", "NEO", testAddr); err == nil {
		t.Error("Expected error for non-numeric amount")
	}
}
