/*
Package result contains the response DTOs returned by Galaxy RPC
servers. They mirror the server's JSON wire form; all contract-level
interpretation of these values happens in upper layers.
*/
package result

import (
	"encoding/json"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
)

// Account is the state of a ledger account.
type Account struct {
	ID       string `json:"id"`
	Sequence int64  `json:"sequence,string"`
	Balance  string `json:"balance,omitempty"`
}

// LatestLedger is the most recently closed ledger known to the server.
type LatestLedger struct {
	Sequence        uint32 `json:"sequence"`
	Hash            string `json:"id"`
	ProtocolVersion uint32 `json:"protocolVersion,omitempty"`
}

// Cost is the resource cost estimate produced by simulation.
type Cost struct {
	CPUInstructions uint64 `json:"cpuInsns,string"`
	MemoryBytes     uint64 `json:"memBytes,string"`
}

// Simulation is the outcome of a transaction dry-run. A non-empty Error
// is a terminal outcome: such a result must never be handed to the
// signing and submission steps.
type Simulation struct {
	// ReturnValue is the decoded value returned by the invoked method,
	// nil for methods returning void.
	ReturnValue *scval.Value `json:"returnValue,omitempty"`
	// Cost is the estimated resource consumption.
	Cost Cost `json:"cost"`
	// MinResourceFee is the minimum resource fee the network will accept
	// for this transaction.
	MinResourceFee int64 `json:"minResourceFee,string"`
	// RawCost is the server's full cost breakdown, kept raw for
	// diagnostics.
	RawCost json.RawMessage `json:"rawCost,omitempty"`
	// Events are the contract events this execution would emit.
	Events []Event `json:"events,omitempty"`
	// Auth holds the authorization entries required by the call.
	Auth []json.RawMessage `json:"auth,omitempty"`
	// Error is the simulation failure diagnostic, empty on success.
	Error string `json:"error,omitempty"`
	// LatestLedger is the ledger the simulation was performed against.
	LatestLedger uint32 `json:"latestLedger"`
}

// OK tells whether the simulation succeeded.
func (s *Simulation) OK() bool {
	return s.Error == ""
}

// Transaction submission statuses.
const (
	StatusPending   = "PENDING"
	StatusDuplicate = "DUPLICATE"
	StatusTryAgain  = "TRY_AGAIN_LATER"
	StatusError     = "ERROR"
	StatusSuccess   = "SUCCESS"
	StatusFailed    = "FAILED"
	StatusNotFound  = "NOT_FOUND"
)

// SendTransaction is the server's answer to a submission.
type SendTransaction struct {
	Status string `json:"status"`
	Hash   string `json:"hash"`
	// ErrorResult carries the failure diagnostic for ERROR status.
	ErrorResult string `json:"errorResult,omitempty"`
	// LatestLedger is the ledger at submission time.
	LatestLedger uint32 `json:"latestLedger"`
}

// GetTransaction is the polled state of a submitted transaction.
// Status NOT_FOUND and PENDING are non-terminal, everything else is.
type GetTransaction struct {
	Status string `json:"status"`
	// Ledger is the sequence of the ledger that applied the transaction.
	Ledger uint32 `json:"ledger,omitempty"`
	// CreatedAt is the close time (unix seconds) of that ledger.
	CreatedAt int64 `json:"createdAt,string,omitempty"`
	// ReturnValue is the decoded contract return value on success.
	ReturnValue *scval.Value `json:"returnValue,omitempty"`
	// ResultMeta is the raw result payload, kept for diagnosis of
	// failed executions.
	ResultMeta json.RawMessage `json:"resultMeta,omitempty"`
	// Events are contract events replayed from transaction metadata.
	Events []Event `json:"events,omitempty"`
}

// Terminal tells whether the returned status is final.
func (g *GetTransaction) Terminal() bool {
	return g.Status == StatusSuccess || g.Status == StatusFailed
}

// LedgerEntry is one stored contract data entry.
type LedgerEntry struct {
	Key                scval.Value `json:"key"`
	Value              scval.Value `json:"value"`
	LastModifiedLedger uint32      `json:"lastModifiedLedgerSeq"`
}

// GetLedgerEntries is the answer to a storage lookup.
type GetLedgerEntries struct {
	Entries      []LedgerEntry `json:"entries"`
	LatestLedger uint32        `json:"latestLedger"`
}

// Event is a single contract-emitted event as returned by the server.
type Event struct {
	// ID is the server-assigned event identity, unique and ascending
	// within the queried range.
	ID string `json:"id"`
	// ContractID is the strkey of the emitting contract.
	ContractID string `json:"contractId"`
	// Type is the event category (contract, system or diagnostic).
	Type string `json:"type"`
	// Topics is the ordered indexed topic list.
	Topics []scval.Value `json:"topic"`
	// Value is the event payload.
	Value scval.Value `json:"value"`
	// Ledger is the sequence of the emitting ledger.
	Ledger uint32 `json:"ledger"`
	// LedgerClosedAt is the close time of that ledger in unix seconds.
	LedgerClosedAt int64 `json:"ledgerClosedAt,string"`
	// TxHash is the hash of the emitting transaction.
	TxHash string `json:"txHash"`
	// InSuccessfulContractCall tells whether the emitting call
	// succeeded.
	InSuccessfulContractCall bool `json:"inSuccessfulContractCall"`
}

// GetEvents is the answer to an event range query, ordered by ledger and
// event ID.
type GetEvents struct {
	Events       []Event `json:"events"`
	LatestLedger uint32  `json:"latestLedger"`
}
