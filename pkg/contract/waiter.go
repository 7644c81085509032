package contract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/errclass"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
)

// PollingWaiterRetryCount is the number of consecutive transport
// failures the waiter tolerates before giving up.
const PollingWaiterRetryCount = 3

// DefaultPollInterval is the default delay between transaction state
// polls.
const DefaultPollInterval = time.Second

// RPCWaiter is the RPC method set required to await a transaction.
type RPCWaiter interface {
	GetTransaction(hash string) (*result.GetTransaction, error)
}

// Waiter polls a submitted transaction until the server reports a
// terminal status.
type Waiter struct {
	client   RPCWaiter
	interval time.Duration
}

// NewWaiter creates a Waiter polling at the given interval, zero means
// [DefaultPollInterval].
func NewWaiter(client RPCWaiter, interval time.Duration) *Waiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Waiter{client: client, interval: interval}
}

// Wait polls the transaction with the given hash until it reaches a
// terminal status or the context is done. NOT_FOUND and PENDING keep the
// poll going: a freshly submitted transaction is routinely unknown to
// the server for the first few polls. A FAILED terminal status is
// returned as a TransactionFailed classified error together with the raw
// result for diagnosis.
func (w *Waiter) Wait(ctx context.Context, hash string) (*result.GetTransaction, error) {
	timer := time.NewTicker(w.interval)
	defer timer.Stop()

	attempts := 0
	for {
		res, err := w.client.GetTransaction(hash)
		if err != nil {
			attempts++
			if attempts >= PollingWaiterRetryCount {
				return nil, errclass.ClassifyErr(err)
			}
		} else {
			attempts = 0
			if res.Terminal() {
				if res.Status == result.StatusFailed {
					return res, failureError(res)
				}
				return res, nil
			}
		}
		select {
		case <-ctx.Done():
			return nil, errclass.New(errclass.Timeout, "transaction "+hash+" still pending: "+ctx.Err().Error())
		case <-timer.C:
		}
	}
}

// failureError builds the classified error for a transaction failed in
// ledger. The raw result metadata is attached for diagnosis; when it
// decodes as an error payload wire value the contract diagnostic is
// folded into the message as well.
func failureError(res *result.GetTransaction) *errclass.Error {
	e := errclass.New(errclass.TransactionFailed, "transaction failed in ledger")
	if len(res.ResultMeta) == 0 {
		return e
	}
	var v scval.Value
	if json.Unmarshal(res.ResultMeta, &v) == nil && !v.IsVoid() {
		if ce := errclass.FromValue(v); ce.Tag != errclass.Unknown {
			e.Message += ": " + ce.Message
			e.Code = ce.Code
		}
	}
	return e.WithRaw(res.ResultMeta)
}
