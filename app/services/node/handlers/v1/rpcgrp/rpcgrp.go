// Package rpcgrp maintains the JSON-RPC method table served to wallets
// and explorers.
package rpcgrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/EmekaIwuagwu/aurelis-blockchain/business/sys/validate"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/state"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of rpc endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State

	// One dispatch at a time; handlers touch both chain and mempool.
	mu sync.Mutex
}

// New constructs a Handlers value for the rpc routes.
func New(log *zap.SugaredLogger, st *state.State) *Handlers {
	return &Handlers{
		Log:   log,
		State: st,
	}
}

// Dispatch decodes a JSON-RPC envelope and routes it through the method
// table. Soft failures travel back as result strings the way the wallet
// expects; only transport level problems use the error field.
func (h *Handlers) Dispatch(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req request
	if err := web.Decode(r, &req); err != nil {
		return web.Respond(ctx, w, errResponse{JSONRPC: "2.0", ID: 1, Error: "Empty body"}, http.StatusOK)
	}

	if err := validate.Check(req); err != nil {
		return web.Respond(ctx, w, errResponse{JSONRPC: "2.0", ID: 1, Error: "Missing method"}, http.StatusOK)
	}

	h.mu.Lock()
	result := h.dispatch(req.Method, req.Params)
	h.mu.Unlock()

	return web.Respond(ctx, w, response{JSONRPC: "2.0", ID: 1, Result: result}, http.StatusOK)
}

// Options terminates CORS preflight requests.
func (h *Handlers) Options(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// =============================================================================

// dispatch is the method table. It runs under the dispatch mutex.
func (h *Handlers) dispatch(method string, params []any) any {
	switch method {
	case "echo":
		return "Aurelis Node is Alive"

	case "getblockcount":
		return int64(h.State.QueryHeight())

	case "getbestblockhash":
		if h.State.QueryHeight() == -1 {
			return ""
		}
		return h.State.QueryBestHash().String()

	case "getblockchaininfo":
		height := int64(h.State.QueryHeight())
		return chainInfo{
			Blocks:        height,
			BestBlockHash: h.State.QueryBestHash().String(),
			MoneySupply:   (height + 1) * 2500,
		}

	case "getmininginfo":
		return miningInfo{
			Blocks:        int64(h.State.QueryHeight()),
			Difficulty:    1.0,
			NetworkHashPS: 0,
			Chain:         "main",
		}

	case "getmempoolinfo":
		return mempoolInfo{Size: h.State.QueryMempoolLength()}

	case "getblock":
		return h.getBlock(params)

	case "gettransaction":
		return h.getTransaction(params)

	case "getaddressbalance":
		return h.getAddressBalance(params)

	case "getaddresstransactions":
		return h.getAddressTransactions(params)

	case "mint":
		return h.mint(params)

	case "transfer":
		return h.transfer(params)

	case "getproposals":
		return h.getProposals()

	case "sendrawtransaction":
		return h.sendRawTransaction(params)
	}

	return "Method not found"
}

// =============================================================================

func (h *Handlers) getBlock(params []any) any {
	if len(params) == 0 {
		return "Missing block hash/height"
	}

	switch p := params[0].(type) {
	case string:
		if len(p) != hash.Size*2 {
			return "Invalid hash format"
		}
		blockHash, err := hash.FromHex(p)
		if err != nil {
			return "Invalid hash format"
		}
		b, exists := h.State.QueryBlock(blockHash)
		if !exists {
			return "Block not found"
		}
		index, _ := h.State.QueryIndex(blockHash)
		return toBlockInfo(b, index.Height, h.State.QueryHeight())

	case float64:
		b, exists := h.State.QueryBlockByHeight(int(p))
		if !exists {
			return "Block not found"
		}
		return toBlockInfo(b, int(p), h.State.QueryHeight())
	}

	return "Invalid hash format"
}

func (h *Handlers) getTransaction(params []any) any {
	if len(params) == 0 {
		return "Missing txid"
	}

	txidStr, ok := params[0].(string)
	if !ok {
		return "Missing txid"
	}

	txid, err := hash.FromHex(txidStr)
	if err != nil {
		return "Transaction not found"
	}

	tx, blockHash, found := h.State.QueryTransaction(txid)
	if !found {
		return "Transaction not found"
	}

	return toTxInfo(tx, blockHash)
}

func (h *Handlers) getAddressBalance(params []any) any {
	// Find the address string anywhere in the params.
	var address string
	for _, p := range params {
		if s, ok := p.(string); ok {
			address = s
			break
		}
	}

	if address == "" {
		return int64(0)
	}

	return h.State.QueryBalance(address)
}

// getAddressTransactions walks the chain from the tip down collecting the
// most recent transactions touching the address, capped at 50.
func (h *Handlers) getAddressTransactions(params []any) any {
	var target string
	if len(params) > 0 {
		target, _ = params[0].(string)
	}

	txs := []addressTx{}
	height := h.State.QueryHeight()
	count := 0

	for ht := height; ht >= 0 && count < 50; ht-- {
		block, exists := h.State.QueryBlockByHeight(ht)
		if !exists {
			continue
		}

		for _, tx := range block.Txs {
			view, relevant := h.addressTxView(tx, target, ht)
			if !relevant {
				continue
			}

			txs = append(txs, view)
			count++
			if count >= 50 {
				break
			}
		}
	}

	return txs
}

// addressTxView classifies one transaction relative to the target address.
func (h *Handlers) addressTxView(tx database.Tx, target string, height int) (addressTx, bool) {
	var isSender bool
	var fromAddr string

	for _, in := range tx.TxIn {
		inSig := string(in.ScriptSig)
		if inSig == target {
			isSender = true
		}
		if fromAddr == "" {
			fromAddr = inSig
		}
	}

	var relevant bool
	var receivedSum int64

	for _, out := range tx.TxOut {
		if out.Address() == target {
			relevant = true
			receivedSum += out.Value
		}
	}
	relevant = relevant || isSender

	if !relevant {
		return addressTx{}, false
	}

	view := addressTx{
		Hash:      tx.Hash().String(),
		Timestamp: fmt.Sprintf("Block #%d", height),
	}

	if isSender {
		// Sum what left this address for someone else.
		var sentTotal int64
		var toAddr string
		for _, out := range tx.TxOut {
			if out.Address() != target {
				sentTotal += out.Value
				toAddr = out.Address()
			}
		}

		view.Type = "send"
		view.Amount = sentTotal
		view.Address = toAddr
		if view.Address == "" {
			view.Address = "Self"
		}
		return view, true
	}

	if tx.IsMint() || height == 0 {
		view.Type = "mined"
		view.Address = "Imperial Treasury"
	} else {
		view.Type = "receive"
		view.Address = fromAddr
		if view.Address == "" {
			view.Address = "Unknown"
		}
	}
	view.Amount = receivedSum

	return view, true
}

func (h *Handlers) mint(params []any) any {
	if len(params) < 2 {
		return "Error: Usage 'mint <address> <amount_satoshi>'"
	}

	address, _ := params[0].(string)
	amount, ok := params[1].(float64)
	if address == "" || !ok {
		return "Error: Usage 'mint <address> <amount_satoshi>'"
	}

	txHash, err := h.State.Mint(address, int64(amount))
	if err != nil {
		return "Error: Failed to add mint transaction to mempool"
	}

	return txHash.String()
}

func (h *Handlers) transfer(params []any) any {
	if len(params) < 3 {
		return "Error: Usage 'transfer <from> <to> <amount_satoshi>'"
	}

	from, _ := params[0].(string)
	to, _ := params[1].(string)
	amount, ok := params[2].(float64)
	if from == "" || to == "" || !ok {
		return "Error: Usage 'transfer <from> <to> <amount_satoshi>'"
	}

	txHash, err := h.State.Transfer(from, to, int64(amount))
	if err != nil {
		if errors.Is(err, state.ErrInsufficientBalance) {
			return "Error: Insufficient balance"
		}
		return "Error: Failed to add transfer to mempool"
	}

	return txHash.String()
}

func (h *Handlers) getProposals() any {
	return []proposal{
		{ID: "1", Title: "Imperial Library Endowment", Status: "Active", Votes: "14,205", End: "3 days left"},
		{ID: "2", Title: "Expand P2P Network capacity", Status: "Active", Votes: "8,421", End: "5 days left"},
	}
}

func (h *Handlers) sendRawTransaction(params []any) any {
	if len(params) == 0 {
		return "No hex provided"
	}

	txHex, ok := params[0].(string)
	if !ok {
		return "No hex provided"
	}

	txHash, err := h.State.SubmitRawTransaction(txHex)
	if err != nil {
		if errors.Is(err, state.ErrRejected) {
			return "Transaction rejected (invalid or exists)"
		}
		return "Error: " + err.Error()
	}

	return txHash.String()
}
