package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// gasDecimals: Neo X is EVM-compatible, native balances are in wei with 18
// decimals.
const gasDecimals = 18

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Balance is a native GAS balance lookup result.
type Balance struct {
	WalletAddress string `json:"wallet_address"`
	BalanceWei    string `json:"balance_wei"`
	BalanceGas    string `json:"balance_gas"`
	BlockNumber   uint64 `json:"block_number"`
	Network       string `json:"network"`
}

// SwapResult is the simulated outcome of a token swap. No on-chain
// transaction is executed.
type SwapResult struct {
	SwapID    string `json:"swap_id"`
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	TxHash    string `json:"tx_hash"`
	Network   string `json:"network"`
	Mocked    bool   `json:"mocked"`
}

// Client talks JSON-RPC to a Neo X node for balance reads. Swaps are a mocked
// passthrough until contract integration lands.
type Client struct {
	rpcURL  string
	network string
	http    *http.Client
}

func NewClient(rpcURL, network string) *Client {
	return &Client{
		rpcURL:  rpcURL,
		network: network,
		http:    &http.Client{},
	}
}

// ValidAddress reports whether s looks like an EVM address (0x + 40 hex).
func ValidAddress(s string) bool {
	return addressRe.MatchString(s)
}

// Balance fetches the native GAS balance for an address.
func (c *Client) Balance(address string) (*Balance, error) {
	if !ValidAddress(address) {
		return nil, fmt.Errorf("invalid wallet address format: %s", address)
	}

	weiHex, err := c.call("eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	wei, err := parseHexBig(weiHex)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", weiHex, err)
	}

	blockHex, err := c.call("eth_blockNumber")
	if err != nil {
		return nil, err
	}
	block, err := parseHexBig(blockHex)
	if err != nil {
		return nil, fmt.Errorf("parse block number %q: %w", blockHex, err)
	}

	return &Balance{
		WalletAddress: address,
		BalanceWei:    wei.String(),
		BalanceGas:    WeiToGas(wei).String(),
		BlockNumber:   block.Uint64(),
		Network:       c.network,
	}, nil
}

// Swap simulates a token swap and returns a fake receipt. Amounts are echoed
// 1:1; real routing/pricing belongs to the future contract integration.
func (c *Client) Swap(amountIn, tokenIn, tokenOut, address string) (*SwapResult, error) {
	if !ValidAddress(address) {
		return nil, fmt.Errorf("invalid wallet address format: %s", address)
	}
	amt, err := decimal.NewFromString(amountIn)
	if err != nil || amt.Sign() <= 0 {
		return nil, fmt.Errorf("invalid swap amount: %s", amountIn)
	}

	id := uuid.New()
	return &SwapResult{
		SwapID:    id.String(),
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amt.String(),
		AmountOut: amt.String(),
		TxHash:    "0x" + strings.ReplaceAll(id.String(), "-", ""),
		Network:   c.network,
		Mocked:    true,
	}, nil
}

// WeiToGas converts a wei amount to GAS (18 decimals) without float loss.
func WeiToGas(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -gasDecimals)
}

func parseHexBig(s string) (*big.Int, error) {
	s = strings.TrimPrefix(s, "0x")
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("not a hex quantity")
	}
	return n, nil
}

func (c *Client) call(method string, params ...any) (string, error) {
	if params == nil {
		params = []any{}
	}
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Post(c.rpcURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("neo rpc unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("neo rpc error %d: %s", resp.StatusCode, string(b))
	}

	var rpcResp struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return "", err
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("neo rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}
