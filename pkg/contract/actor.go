package contract

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/address"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/errclass"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/transaction"
)

// RPCActor is the RPC method set required for state-changing contract
// interactions.
type RPCActor interface {
	RPCInvoke
	RPCWaiter
	GetAccount(id string) (*result.Account, error)
	SendTransaction(tx *transaction.Transaction) (*result.SendTransaction, error)
}

// Options tune a single state-changing invocation. The zero value runs
// the full pipeline with default settings.
type Options struct {
	// SimulateOnly stops the pipeline after a successful simulation,
	// nothing is signed or submitted. The result carries zero Ledger
	// and an empty Hash.
	SimulateOnly bool
	// FeePadding is added on top of the simulated resource fee as a
	// safety margin.
	FeePadding int64
	// Salt disambiguates the derived identity when deploying the same
	// code from the same account more than once.
	Salt []byte
	// PollInterval overrides the waiter's poll interval.
	PollInterval time.Duration
}

// Result is the terminal outcome of a successful invocation.
type Result struct {
	// Hash is the submitted transaction hash, empty for simulate-only
	// runs.
	Hash string
	// Ledger is the sequence of the ledger that applied the
	// transaction, zero for simulate-only runs.
	Ledger uint32
	// ContractID is the identity of the deployed contract, set by
	// Deploy only.
	ContractID string
	// ReturnValue is the decoded contract return value, nil for void
	// methods.
	ReturnValue *scval.Value
	// Simulation is the dry-run the transaction was prepared from.
	Simulation *result.Simulation
	// Events are the contract events emitted by the execution.
	Events []result.Event
}

// Actor builds, signs, submits and awaits contract transactions on
// behalf of a single signing account. It keeps no transaction state,
// every call runs a complete pipeline.
type Actor struct {
	*Invoker

	client     RPCActor
	signer     transaction.Signer
	passphrase string
}

// NewActor creates an Actor for the given signer on the network
// identified by the passphrase.
func NewActor(client RPCActor, signer transaction.Signer, networkPassphrase string) *Actor {
	return &Actor{
		Invoker:    NewInvoker(client, signer.Address()),
		client:     client,
		signer:     signer,
		passphrase: networkPassphrase,
	}
}

// Invoke calls a state-changing contract method and awaits its terminal
// status. A nil opts runs the default pipeline.
func (a *Actor) Invoke(ctx context.Context, contractID, method string, args []scval.Value, opts *Options) (*Result, error) {
	tx := transaction.NewInvoke(a.signer.Address(), contractID, method, args)
	return a.run(ctx, tx, contractID, method, opts)
}

// Deploy uploads contract code and creates an identity bound to it in a
// single transaction. The deployed contract identity is derived
// deterministically from deployer, code hash and salt and returned in
// the result.
func (a *Actor) Deploy(ctx context.Context, wasm []byte, opts *Options) (*Result, error) {
	if len(wasm) == 0 {
		return nil, fmt.Errorf("empty contract code")
	}
	var salt []byte
	if opts != nil {
		salt = opts.Salt
	}
	tx := transaction.NewDeploy(a.signer.Address(), wasm, salt)
	res, err := a.run(ctx, tx, "", "", opts)
	if err != nil {
		return nil, err
	}
	res.ContractID = deriveContractID(a.signer.Address(), wasm, salt)
	return res, nil
}

// Upgrade uploads new code and rebinds the given contract identity to
// it.
func (a *Actor) Upgrade(ctx context.Context, contractID string, wasm []byte) (*Result, error) {
	if len(wasm) == 0 {
		return nil, fmt.Errorf("empty contract code")
	}
	tx := transaction.NewUpgrade(a.signer.Address(), contractID, wasm)
	return a.run(ctx, tx, contractID, "", nil)
}

// run drives one transaction through the pipeline. Every stage failure
// is terminal and reported with the stage it happened in; run never
// retries on its own, retry policy belongs to the caller via
// [errclass.ShouldRetry].
func (a *Actor) run(ctx context.Context, tx *transaction.Transaction, contractID, method string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = new(Options)
	}

	// Building: bind the envelope to the current account sequence.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acc, err := a.client.GetAccount(tx.Source)
	if err != nil {
		return nil, stageErr(StateBuilding, errclass.ClassifyErr(err))
	}
	tx.Sequence = acc.Sequence + 1

	// Simulating: a failed simulation never reaches signing.
	sim, err := a.client.SimulateTransaction(tx)
	if err != nil {
		return nil, stageErr(StateSimulating, errclass.ClassifyErr(err).WithContext(contractID, method))
	}
	if !sim.OK() {
		return nil, stageErr(StateSimulating, errclass.Classify(sim.Error).WithContext(contractID, method))
	}
	if opts.SimulateOnly {
		return &Result{
			ReturnValue: sim.ReturnValue,
			Simulation:  sim,
			Events:      sim.Events,
		}, nil
	}

	// Preparing: raise the fee to what the simulation discovered.
	tx.ResourceFee = sim.MinResourceFee
	tx.Fee = transaction.MinBaseFee + sim.MinResourceFee + opts.FeePadding

	if err := a.signer.SignTransaction(a.passphrase, tx); err != nil {
		return nil, stageErr(StateSigning, fmt.Errorf("signing: %w", err))
	}

	sent, err := a.client.SendTransaction(tx)
	if err != nil {
		return nil, stageErr(StateSubmitting, errclass.ClassifyErr(err).WithContext(contractID, method))
	}
	switch sent.Status {
	case result.StatusError:
		return nil, stageErr(StateSubmitting, errclass.Classify(sent.ErrorResult).WithContext(contractID, method))
	case result.StatusTryAgain:
		return nil, stageErr(StateSubmitting, errclass.New(errclass.NetworkError, "server busy, try again later"))
	}

	interval := opts.PollInterval
	final, err := NewWaiter(a.client, interval).Wait(ctx, sent.Hash)
	if err != nil {
		return nil, stageErr(StatePolling, err)
	}
	return &Result{
		Hash:        sent.Hash,
		Ledger:      final.Ledger,
		ReturnValue: final.ReturnValue,
		Simulation:  sim,
		Events:      final.Events,
	}, nil
}

func stageErr(s State, err error) error {
	return fmt.Errorf("%s: %w", s, err)
}

// deriveContractID computes the deterministic identity of a deployed
// contract from its deployer, code and salt.
func deriveContractID(deployer string, wasm, salt []byte) string {
	wasmHash := sha256.Sum256(wasm)
	h := sha256.New()
	h.Write([]byte(deployer))
	h.Write(wasmHash[:])
	h.Write(salt)
	var raw [address.PayloadLength]byte
	copy(raw[:], h.Sum(nil))
	return address.EncodeContract(raw)
}
