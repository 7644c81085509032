package contract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/errclass"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/stretchr/testify/require"
)

type rpcWait struct {
	txs  []*result.GetTransaction
	errs []error
	n    int
}

func (r *rpcWait) GetTransaction(hash string) (*result.GetTransaction, error) {
	i := r.n
	r.n++
	if i < len(r.errs) && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	if i >= len(r.txs) {
		i = len(r.txs) - 1
	}
	return r.txs[i], nil
}

func TestWaiterSuccess(t *testing.T) {
	cli := &rpcWait{txs: []*result.GetTransaction{
		{Status: result.StatusNotFound},
		{Status: result.StatusPending},
		{Status: result.StatusSuccess, Ledger: 500},
	}}
	w := NewWaiter(cli, time.Millisecond)

	res, err := w.Wait(context.Background(), "feed")
	require.NoError(t, err)
	require.Equal(t, uint32(500), res.Ledger)
	require.Equal(t, 3, cli.n)
}

func TestWaiterFailed(t *testing.T) {
	meta := json.RawMessage(`{"code":"txFAILED","operations":["opUNDERFUNDED"]}`)
	cli := &rpcWait{txs: []*result.GetTransaction{{
		Status:     result.StatusFailed,
		Ledger:     500,
		ResultMeta: meta,
	}}}
	w := NewWaiter(cli, time.Millisecond)

	res, err := w.Wait(context.Background(), "feed")
	require.ErrorIs(t, err, errclass.New(errclass.TransactionFailed, ""))
	// The raw result is returned alongside the error for diagnosis, and
	// the error itself carries the payload too.
	require.NotNil(t, res)
	require.Equal(t, result.StatusFailed, res.Status)
	var ce *errclass.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, meta, ce.Raw)
}

func TestWaiterFailedCodedPayload(t *testing.T) {
	meta := json.RawMessage(`{"type":"u32","value":3}`)
	cli := &rpcWait{txs: []*result.GetTransaction{{
		Status:     result.StatusFailed,
		Ledger:     500,
		ResultMeta: meta,
	}}}
	w := NewWaiter(cli, time.Millisecond)

	_, err := w.Wait(context.Background(), "feed")
	var ce *errclass.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, errclass.TransactionFailed, ce.Tag)
	require.Equal(t, int64(3), ce.Code)
	require.Contains(t, ce.Message, "division by zero")
	require.Equal(t, meta, ce.Raw)
}

func TestWaiterTransientErrors(t *testing.T) {
	cli := &rpcWait{
		errs: []error{errors.New("network glitch"), errors.New("network glitch")},
		txs: []*result.GetTransaction{
			nil, nil,
			{Status: result.StatusSuccess, Ledger: 500},
		},
	}
	w := NewWaiter(cli, time.Millisecond)

	res, err := w.Wait(context.Background(), "feed")
	require.NoError(t, err)
	require.Equal(t, uint32(500), res.Ledger)
}

func TestWaiterGivesUp(t *testing.T) {
	glitch := errors.New("network glitch")
	cli := &rpcWait{errs: []error{glitch, glitch, glitch, glitch}}
	w := NewWaiter(cli, time.Millisecond)

	_, err := w.Wait(context.Background(), "feed")
	require.Error(t, err)
	require.Equal(t, PollingWaiterRetryCount, cli.n)
}

func TestWaiterContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	cli := &rpcWait{txs: []*result.GetTransaction{{Status: result.StatusPending}}}
	w := NewWaiter(cli, 5*time.Millisecond)

	_, err := w.Wait(ctx, "feed")
	var ce *errclass.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, errclass.Timeout, ce.Tag)
}
