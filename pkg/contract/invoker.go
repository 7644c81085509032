/*
Package contract provides the layers driving contract interactions over
a Galaxy RPC server. Invoker is the read-only layer performing
simulations and storage lookups; Actor builds on it to sign and submit
state-changing transactions; Waiter polls submitted transactions to
their terminal state.
*/
package contract

import (
	"context"
	"fmt"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/errclass"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/transaction"
)

// RPCInvoke is the set of RPC methods required for read-only contract
// interactions.
type RPCInvoke interface {
	SimulateTransaction(tx *transaction.Transaction) (*result.Simulation, error)
	GetLedgerEntries(contractID string, keys ...scval.Value) (*result.GetLedgerEntries, error)
}

// Invoker simulates contract calls without committing anything to the
// ledger and reads contract storage. It's safe to use concurrently.
type Invoker struct {
	client RPCInvoke
	source string
}

// NewInvoker creates an Invoker calling on behalf of the given source
// account.
func NewInvoker(client RPCInvoke, source string) *Invoker {
	return &Invoker{client: client, source: source}
}

// Call simulates a method call converting native Go arguments with
// [scval.Make]. Use [Invoker.Simulate] when you need exact argument
// types.
func (v *Invoker) Call(ctx context.Context, contractID, method string, args ...interface{}) (*result.Simulation, error) {
	vals := make([]scval.Value, len(args))
	for i := range args {
		val, err := scval.Make(args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = val
	}
	return v.Simulate(ctx, contractID, method, vals)
}

// Simulate dry-runs a method call with pre-built arguments. A simulation
// the server performed but rejected comes back as a classified error
// carrying contract and method context; the failed result itself is not
// returned.
func (v *Invoker) Simulate(ctx context.Context, contractID, method string, args []scval.Value) (*result.Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx := transaction.NewInvoke(v.source, contractID, method, args)
	sim, err := v.client.SimulateTransaction(tx)
	if err != nil {
		return nil, errclass.ClassifyErr(err).WithContext(contractID, method)
	}
	if !sim.OK() {
		return nil, errclass.Classify(sim.Error).WithContext(contractID, method)
	}
	return sim, nil
}

// ReadState looks up a single contract storage entry. The boolean
// result distinguishes a missing entry from a stored void.
func (v *Invoker) ReadState(ctx context.Context, contractID string, key scval.Value) (scval.Value, bool, error) {
	if err := ctx.Err(); err != nil {
		return scval.Void(), false, err
	}
	res, err := v.client.GetLedgerEntries(contractID, key)
	if err != nil {
		return scval.Void(), false, errclass.ClassifyErr(err).WithContext(contractID, "")
	}
	if len(res.Entries) == 0 {
		return scval.Void(), false, nil
	}
	return res.Entries[0].Value, true, nil
}
