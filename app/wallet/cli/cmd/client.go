package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guonaihong/gout"
	"github.com/shopspring/decimal"
)

// rpcRequest is the JSON-RPC envelope the node expects.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResponse carries the result or the error string back.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
}

// rpcCall posts one JSON-RPC request to the node and decodes the result
// into the provided value.
func rpcCall(method string, params []any, result any) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	var resp rpcResponse
	if err := gout.POST(url).SetJSON(req).BindJSON(&resp).Do(); err != nil {
		return err
	}

	if resp.Error != "" {
		return errors.New(resp.Error)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return err
		}
	}

	return nil
}

// baseUnitsPerCoin is the number of base units in 1 AUC.
var baseUnitsPerCoin = decimal.NewFromInt(100_000_000)

// parseAmount converts a human AUC amount like "25.5" into base units.
func parseAmount(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	units := d.Mul(baseUnitsPerCoin)
	if !units.IsInteger() {
		return 0, fmt.Errorf("amount %q is below the base unit", amount)
	}
	if units.Sign() <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	return units.IntPart(), nil
}

// formatAmount renders base units as a fixed point AUC string.
func formatAmount(units int64) string {
	return decimal.NewFromInt(units).Div(baseUnitsPerCoin).StringFixed(8)
}
