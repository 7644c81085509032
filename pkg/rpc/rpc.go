package rpc

import (
	"fmt"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/transaction"
)

// EventFilter narrows a getEvents query. Empty fields match everything.
type EventFilter struct {
	// EventType limits results to one event category (contract, system
	// or diagnostic).
	EventType string `json:"type,omitempty"`
	// ContractIDs limits results to events emitted by the listed
	// contracts.
	ContractIDs []string `json:"contractIds,omitempty"`
	// Topics is a topic prefix: an event matches when its leading
	// topics equal the given values.
	Topics []scval.Value `json:"topics,omitempty"`
}

// Copy creates a deep-enough copy of the EventFilter. It handles nil
// correctly.
func (f *EventFilter) Copy() *EventFilter {
	if f == nil {
		return nil
	}
	var res = new(EventFilter)
	res.EventType = f.EventType
	if f.ContractIDs != nil {
		res.ContractIDs = append([]string(nil), f.ContractIDs...)
	}
	if f.Topics != nil {
		res.Topics = append([]scval.Value(nil), f.Topics...)
	}
	return res
}

type (
	getAccountParams struct {
		ID string `json:"id"`
	}
	transactionParams struct {
		Transaction *transaction.Transaction `json:"transaction"`
	}
	getTransactionParams struct {
		Hash string `json:"hash"`
	}
	getLedgerEntriesParams struct {
		ContractID string        `json:"contractId"`
		Keys       []scval.Value `json:"keys"`
	}
	getEventsParams struct {
		StartLedger uint32        `json:"startLedger"`
		EndLedger   uint32        `json:"endLedger,omitempty"`
		Filters     []EventFilter `json:"filters,omitempty"`
	}
)

// GetAccount returns the current state of the given account.
func (c *Client) GetAccount(id string) (*result.Account, error) {
	var resp = new(result.Account)
	if err := c.performRequest("getAccount", getAccountParams{ID: id}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLatestLedger returns the most recently closed ledger known to the
// server.
func (c *Client) GetLatestLedger() (*result.LatestLedger, error) {
	var resp = new(result.LatestLedger)
	if err := c.performRequest("getLatestLedger", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SimulateTransaction dry-runs the given transaction and returns the
// resource cost estimate and would-be result without committing state.
func (c *Client) SimulateTransaction(tx *transaction.Transaction) (*result.Simulation, error) {
	var resp = new(result.Simulation)
	if err := c.performRequest("simulateTransaction", transactionParams{Transaction: tx}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendTransaction submits a signed transaction to the network.
func (c *Client) SendTransaction(tx *transaction.Transaction) (*result.SendTransaction, error) {
	if !tx.Signed() {
		return nil, fmt.Errorf("refusing to send unsigned transaction")
	}
	var resp = new(result.SendTransaction)
	if err := c.performRequest("sendTransaction", transactionParams{Transaction: tx}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTransaction returns the current state of a previously submitted
// transaction.
func (c *Client) GetTransaction(hash string) (*result.GetTransaction, error) {
	var resp = new(result.GetTransaction)
	if err := c.performRequest("getTransaction", getTransactionParams{Hash: hash}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLedgerEntries looks up contract storage entries by their keys.
func (c *Client) GetLedgerEntries(contractID string, keys ...scval.Value) (*result.GetLedgerEntries, error) {
	var resp = new(result.GetLedgerEntries)
	p := getLedgerEntriesParams{ContractID: contractID, Keys: keys}
	if err := c.performRequest("getLedgerEntries", p, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetEvents queries contract events in the given ledger range, ordered
// by ledger and event id. endLedger of zero means "up to the latest".
func (c *Client) GetEvents(startLedger, endLedger uint32, filters ...EventFilter) (*result.GetEvents, error) {
	var resp = new(result.GetEvents)
	p := getEventsParams{StartLedger: startLedger, EndLedger: endLedger, Filters: filters}
	if err := c.performRequest("getEvents", p, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
