/*
Package transaction provides the transaction envelope submitted to Galaxy
RPC servers and the operations it can carry. The envelope is deliberately
thin: binary wire encoding belongs to the RPC transport and is not
reproduced here, the envelope travels as canonical JSON.
*/
package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
)

// MinBaseFee is the minimum fee accepted for any transaction.
const MinBaseFee int64 = 100

// ErrNoOperations is returned when signing or hashing an empty
// transaction.
var ErrNoOperations = errors.New("transaction has no operations")

// Signer is an opaque signing capability. Key material handling is
// entirely the implementation's business.
type Signer interface {
	// Address returns the G-prefixed strkey of the signing account.
	Address() string
	// SignTransaction authorizes the transaction for the network
	// identified by the given passphrase, appending to tx.Signatures.
	SignTransaction(networkPassphrase string, tx *Transaction) error
}

// Signature is a single authorization attached to a transaction.
type Signature struct {
	// Hint is the last four bytes of the signing key.
	Hint []byte `json:"hint"`
	// Data is the signature bytes.
	Data []byte `json:"signature"`
}

// Transaction is a single-submission envelope. It's built once by the
// orchestration layer and not mutated after signing.
type Transaction struct {
	// Source is the strkey of the account paying for the transaction.
	Source string `json:"source"`
	// Sequence is the source account sequence number this transaction
	// consumes.
	Sequence int64 `json:"sequence"`
	// Fee is the inclusion fee in stroops, raised by the resource fee
	// discovered during simulation.
	Fee int64 `json:"fee"`
	// Operations is the ordered operation list. Deploy and invoke use a
	// single operation, upgrade chains two.
	Operations []Operation `json:"operations"`
	// ResourceFee is the minimum resource fee from simulation, zero
	// until the transaction is prepared.
	ResourceFee int64 `json:"resourceFee,omitempty"`
	// Signatures collects attached authorizations.
	Signatures []Signature `json:"signatures,omitempty"`
}

// OpType discriminates Operation payloads.
type OpType string

// Supported operation types.
const (
	OpInvokeContract OpType = "invokeContract"
	OpUploadCode     OpType = "uploadCode"
	OpCreateContract OpType = "createContract"
	OpUpdateCode     OpType = "updateCode"
)

// Operation is a tagged operation payload, exactly one of the pointer
// fields matching Type is set.
type Operation struct {
	Type           OpType            `json:"type"`
	InvokeContract *InvokeContractOp `json:"invokeContract,omitempty"`
	UploadCode     *UploadCodeOp     `json:"uploadCode,omitempty"`
	CreateContract *CreateContractOp `json:"createContract,omitempty"`
	UpdateCode     *UpdateCodeOp     `json:"updateCode,omitempty"`
}

// InvokeContractOp calls a method of a deployed contract.
type InvokeContractOp struct {
	ContractID string        `json:"contractId"`
	Method     string        `json:"method"`
	Args       []scval.Value `json:"args"`
}

// UploadCodeOp installs contract code onto the ledger.
type UploadCodeOp struct {
	Wasm []byte `json:"wasm"`
}

// CreateContractOp binds an identity to previously uploaded code. Salt
// makes the derived identity deterministic for a given deployer.
type CreateContractOp struct {
	Deployer string `json:"deployer"`
	WasmHash []byte `json:"wasmHash"`
	Salt     []byte `json:"salt,omitempty"`
}

// UpdateCodeOp rebinds an existing contract identity to new code.
type UpdateCodeOp struct {
	ContractID string `json:"contractId"`
	WasmHash   []byte `json:"wasmHash"`
}

// NewInvoke returns a transaction with a single contract call operation.
func NewInvoke(source string, contractID, method string, args []scval.Value) *Transaction {
	return &Transaction{
		Source: source,
		Fee:    MinBaseFee,
		Operations: []Operation{{
			Type: OpInvokeContract,
			InvokeContract: &InvokeContractOp{
				ContractID: contractID,
				Method:     method,
				Args:       args,
			},
		}},
	}
}

// NewDeploy returns a transaction uploading code and creating a contract
// bound to it in one envelope.
func NewDeploy(source string, wasm []byte, salt []byte) *Transaction {
	hash := sha256.Sum256(wasm)
	return &Transaction{
		Source: source,
		Fee:    MinBaseFee,
		Operations: []Operation{
			{
				Type:       OpUploadCode,
				UploadCode: &UploadCodeOp{Wasm: wasm},
			},
			{
				Type: OpCreateContract,
				CreateContract: &CreateContractOp{
					Deployer: source,
					WasmHash: hash[:],
					Salt:     salt,
				},
			},
		},
	}
}

// NewUpgrade returns a transaction uploading new code and rebinding the
// given contract identity to it, chained in one envelope.
func NewUpgrade(source string, contractID string, wasm []byte) *Transaction {
	hash := sha256.Sum256(wasm)
	return &Transaction{
		Source: source,
		Fee:    MinBaseFee,
		Operations: []Operation{
			{
				Type:       OpUploadCode,
				UploadCode: &UploadCodeOp{Wasm: wasm},
			},
			{
				Type: OpUpdateCode,
				UpdateCode: &UpdateCodeOp{
					ContractID: contractID,
					WasmHash:   hash[:],
				},
			},
		},
	}
}

// Hash returns the network-bound signing hash of the transaction: the
// SHA-256 of the network passphrase hash concatenated with the canonical
// JSON of the unsigned envelope.
func (t *Transaction) Hash(networkPassphrase string) ([32]byte, error) {
	if len(t.Operations) == 0 {
		return [32]byte{}, ErrNoOperations
	}
	unsigned := *t
	unsigned.Signatures = nil
	payload, err := json.Marshal(&unsigned)
	if err != nil {
		return [32]byte{}, fmt.Errorf("marshaling envelope: %w", err)
	}
	netHash := sha256.Sum256([]byte(networkPassphrase))
	return sha256.Sum256(append(netHash[:], payload...)), nil
}

// HashHex is Hash rendered as a lowercase hex string, the form RPC
// servers use for transaction identities.
func (t *Transaction) HashHex(networkPassphrase string) (string, error) {
	h, err := t.Hash(networkPassphrase)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}

// Signed tells whether at least one signature is attached.
func (t *Transaction) Signed() bool {
	return len(t.Signatures) > 0
}
