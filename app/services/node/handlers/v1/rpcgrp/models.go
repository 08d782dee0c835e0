package rpcgrp

import (
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/database"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/hash"
	"github.com/shopspring/decimal"
)

// baseUnitsPerCoin is the number of base units in 1 AUC.
var baseUnitsPerCoin = decimal.NewFromInt(100_000_000)

// request is the JSON-RPC envelope accepted by the dispatcher. The body
// may carry HTTP framing noise ahead of the document; web.Decode starts
// at the first opening brace.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method" validate:"required"`
	Params  []any  `json:"params"`
}

// response mirrors the wire shape the explorer and wallet expect. The id
// is pinned to 1. Result must survive zero values like height 0, so it
// never carries omitempty.
type response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Result  any    `json:"result"`
}

// errResponse is the shape for envelope level failures.
type errResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Error   string `json:"error"`
}

// =============================================================================

type chainInfo struct {
	Blocks        int64  `json:"blocks"`
	BestBlockHash string `json:"bestblockhash"`
	MoneySupply   int64  `json:"moneysupply"`
}

type miningInfo struct {
	Blocks        int64   `json:"blocks"`
	Difficulty    float64 `json:"difficulty"`
	NetworkHashPS int64   `json:"networkhashps"`
	Chain         string  `json:"chain"`
}

type mempoolInfo struct {
	Size int `json:"size"`
}

type blockInfo struct {
	Hash              string   `json:"hash"`
	Confirmations     int64    `json:"confirmations"`
	Size              int64    `json:"size"`
	Height            int64    `json:"height"`
	Version           int32    `json:"version"`
	MerkleRoot        string   `json:"merkleroot"`
	Tx                []string `json:"tx"`
	Time              int64    `json:"time"`
	Nonce             uint32   `json:"nonce"`
	Bits              uint32   `json:"bits"`
	Difficulty        float64  `json:"difficulty"`
	PreviousBlockHash string   `json:"previousblockhash"`
}

type scriptPubKey struct {
	Asm string `json:"asm"`
	Hex string `json:"hex"`
}

type txIn struct {
	Coinbase string `json:"coinbase"`
}

type txOut struct {
	Value        float64      `json:"value"`
	N            int          `json:"n"`
	ScriptPubKey scriptPubKey `json:"scriptPubKey"`
}

type txInfo struct {
	TxID      string  `json:"txid"`
	Version   int32   `json:"version"`
	BlockHash string  `json:"blockhash"`
	Vin       []txIn  `json:"vin"`
	Vout      []txOut `json:"vout"`
}

type addressTx struct {
	Hash      string `json:"hash"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Address   string `json:"address"`
}

type proposal struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Votes  string `json:"votes"`
	End    string `json:"end"`
}

// =============================================================================

// toBlockInfo converts a block into its RPC view.
func toBlockInfo(block database.Block, height int, tipHeight int) blockInfo {
	txs := make([]string, len(block.Txs))
	for i, tx := range block.Txs {
		txs[i] = tx.Hash().String()
	}

	return blockInfo{
		Hash:              block.Hash().String(),
		Confirmations:     int64(tipHeight-height) + 1,
		Size:              100,
		Height:            int64(height),
		Version:           block.Header.Version,
		MerkleRoot:        block.Header.MerkleRoot.String(),
		Tx:                txs,
		Time:              int64(block.Header.Timestamp),
		Nonce:             block.Header.Nonce,
		Bits:              block.Header.Bits,
		Difficulty:        1.0,
		PreviousBlockHash: block.Header.PrevBlock.String(),
	}
}

// toTxInfo converts a transaction into its RPC view. Output values are
// reported in AUC, not base units.
func toTxInfo(tx database.Tx, blockHash hash.Hash) txInfo {
	info := txInfo{
		TxID:      tx.Hash().String(),
		Version:   tx.Version,
		BlockHash: blockHash.String(),
	}

	for _, in := range tx.TxIn {
		info.Vin = append(info.Vin, txIn{Coinbase: string(in.ScriptSig)})
	}

	for i, out := range tx.TxOut {
		value := decimal.NewFromInt(out.Value).Div(baseUnitsPerCoin)
		info.Vout = append(info.Vout, txOut{
			Value: value.InexactFloat64(),
			N:     i,
			ScriptPubKey: scriptPubKey{
				Asm: out.Address(),
				Hex: "",
			},
		})
	}

	return info
}
