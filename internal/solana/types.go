// =============================
// File: internal/solana/types.go
// =============================
package solana

import "encoding/json"

// ParsedTransaction models the jsonParsed form of a confirmed transaction.
// The same shape arrives on both ingestion channels: as the RPC
// getParsedTransaction result and embedded in push-webhook bodies.
type ParsedTransaction struct {
	Meta        *TransactionMeta `json:"meta"`
	Transaction TransactionBody  `json:"transaction"`
}

type TransactionBody struct {
	Signatures []string `json:"signatures"`
	Message    Message  `json:"message"`
}

type Message struct {
	AccountKeys  []AccountKey  `json:"accountKeys"`
	Instructions []Instruction `json:"instructions"`
}

// AccountKey appears either as a bare base58 string or as an object with a
// "pubkey" field, depending on the RPC encoding.
type AccountKey struct {
	Pubkey string `json:"pubkey"`
}

func (k *AccountKey) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &k.Pubkey)
	}
	type alias AccountKey
	return json.Unmarshal(data, (*alias)(k))
}

// Instruction is a single (top-level or inner) instruction. Instructions
// of programs the RPC node cannot interpret carry base58 Data and an
// account list; interpreted ones carry a Parsed blob instead.
type Instruction struct {
	Program   string          `json:"program,omitempty"`
	ProgramID string          `json:"programId"`
	Accounts  []string        `json:"accounts,omitempty"`
	Data      string          `json:"data,omitempty"`
	Parsed    json.RawMessage `json:"parsed,omitempty"`
}

type TransactionMeta struct {
	Err               interface{}             `json:"err"`
	LogMessages       []string                `json:"logMessages"`
	InnerInstructions []InnerInstructionGroup `json:"innerInstructions"`
}

// InnerInstructionGroup holds the nested instructions emitted while the
// top-level instruction at Index executed.
type InnerInstructionGroup struct {
	Index        int           `json:"index"`
	Instructions []Instruction `json:"instructions"`
}

// TokenTransfer is the interpreted shape of an SPL token transfer.
type TokenTransfer struct {
	Mint        string       `json:"mint"`
	TokenAmount *TokenAmount `json:"tokenAmount"`
}

type TokenAmount struct {
	Amount         string `json:"amount"`
	Decimals       int    `json:"decimals"`
	UIAmountString string `json:"uiAmountString"`
}

type parsedEnvelope struct {
	Type string        `json:"type"`
	Info TokenTransfer `json:"info"`
}

// ParsedTransfer extracts a token transfer from the instruction's Parsed
// blob. It reports false for instructions that are not parsed, are parsed
// into a non-object shape (memo logs a plain string), or do not carry a
// mint with a decimal-scaled amount.
func (ix *Instruction) ParsedTransfer() (*TokenTransfer, bool) {
	if len(ix.Parsed) == 0 || ix.Parsed[0] != '{' {
		return nil, false
	}
	var envelope parsedEnvelope
	if err := json.Unmarshal(ix.Parsed, &envelope); err != nil {
		return nil, false
	}
	if envelope.Info.Mint == "" || envelope.Info.TokenAmount == nil {
		return nil, false
	}
	transfer := envelope.Info
	return &transfer, true
}

// InnerGroup returns the nested instructions belonging to the top-level
// instruction at the given index.
func (tx *ParsedTransaction) InnerGroup(index int) []Instruction {
	if tx.Meta == nil {
		return nil
	}
	for _, group := range tx.Meta.InnerInstructions {
		if group.Index == index {
			return group.Instructions
		}
	}
	return nil
}

// Signature returns the transaction's primary signature.
func (tx *ParsedTransaction) Signature() string {
	if len(tx.Transaction.Signatures) == 0 {
		return ""
	}
	return tx.Transaction.Signatures[0]
}

// LogMessages returns the transaction's log lines, if any.
func (tx *ParsedTransaction) LogMessages() []string {
	if tx.Meta == nil {
		return nil
	}
	return tx.Meta.LogMessages
}
