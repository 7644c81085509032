package event

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/errclass"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type ledgerRange struct {
	from, to uint32
}

type rpcPoll struct {
	mu sync.Mutex

	ledgers   []uint32
	ledgerIdx int
	ledgerErr error

	events  map[ledgerRange][]result.Event
	evErr   error
	queries []ledgerRange
}

func (r *rpcPoll) GetLatestLedger() (*result.LatestLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ledgerErr != nil {
		return nil, r.ledgerErr
	}
	i := r.ledgerIdx
	if i >= len(r.ledgers) {
		i = len(r.ledgers) - 1
	}
	r.ledgerIdx++
	return &result.LatestLedger{Sequence: r.ledgers[i]}, nil
}

func (r *rpcPoll) GetEvents(startLedger, endLedger uint32, filters ...rpc.EventFilter) (*result.GetEvents, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.evErr != nil {
		return nil, r.evErr
	}
	q := ledgerRange{startLedger, endLedger}
	r.queries = append(r.queries, q)
	return &result.GetEvents{Events: r.events[q], LatestLedger: endLedger}, nil
}

func (r *rpcPoll) queryLog() []ledgerRange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ledgerRange(nil), r.queries...)
}

func testEngine(t *testing.T, cli RPCPoller) *Engine {
	e := New(cli, Config{Log: zaptest.NewLogger(t), PollInterval: time.Millisecond})
	t.Cleanup(e.Close)
	return e
}

func TestSubscribeLifecycle(t *testing.T) {
	evs := []result.Event{
		{ID: "0001", ContractID: "CAAA", Ledger: 120, Value: scval.NewU32(1)},
		{ID: "0002", ContractID: "CAAA", Ledger: 121, Value: scval.NewU32(2)},
	}
	cli := &rpcPoll{
		ledgers: []uint32{100, 150},
		events:  map[ledgerRange][]result.Event{{101, 150}: evs},
	}
	e := testEngine(t, cli)

	received := make(chan result.Event, 10)
	closed := make(chan struct{})
	id, err := e.Subscribe("CAAA", rpc.EventFilter{}, Callbacks{
		OnEvent: func(ev result.Event) { received <- ev },
		OnClose: func() { close(closed) },
	})
	require.NoError(t, err)
	require.Contains(t, id, "CAAA-")

	// Delivery order follows the server's.
	for i := range evs {
		select {
		case got := <-received:
			require.Equal(t, evs[i].ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("no event delivered")
		}
	}

	e.Unsubscribe(id)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("OnClose not called")
	}
	e.Unsubscribe(id) // unknown id is a no-op
}

func TestSubscribeInitialFailure(t *testing.T) {
	cli := &rpcPoll{ledgerErr: errors.New("connection refused")}
	e := testEngine(t, cli)

	var reported error
	_, err := e.Subscribe("CAAA", rpc.EventFilter{}, Callbacks{
		OnEvent: func(result.Event) {},
		OnError: func(err error) { reported = err },
	})
	require.Error(t, err)
	require.ErrorIs(t, reported, errclass.New(errclass.NetworkError, ""))
}

func TestCursorAdvancesWithoutEvents(t *testing.T) {
	// Ledger stays at 100 for one poll, then moves to 150. The empty
	// (100, 150] window must still advance the cursor: once the range is
	// queried it's never queried again.
	cli := &rpcPoll{ledgers: []uint32{100, 100, 150}}
	e := testEngine(t, cli)

	_, err := e.Subscribe("CAAA", rpc.EventFilter{}, Callbacks{
		OnEvent: func(result.Event) {},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(cli.queryLog()) >= 1
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	queries := cli.queryLog()
	require.Equal(t, []ledgerRange{{101, 150}}, queries)
}

func TestPollErrorKeepsLoop(t *testing.T) {
	cli := &rpcPoll{
		ledgers: []uint32{100, 150},
		evErr:   errors.New("timeout awaiting response"),
	}
	e := testEngine(t, cli)

	errs := make(chan error, 10)
	_, err := e.Subscribe("CAAA", rpc.EventFilter{}, Callbacks{
		OnEvent: func(result.Event) {},
		OnError: func(err error) { errs <- err },
	})
	require.NoError(t, err)

	select {
	case perr := <-errs:
		require.ErrorIs(t, perr, errclass.New(errclass.Timeout, ""))
	case <-time.After(time.Second):
		t.Fatal("poll error not reported")
	}

	// The loop survives: clearing the fault resumes delivery.
	cli.mu.Lock()
	cli.evErr = nil
	cli.mu.Unlock()
	require.Eventually(t, func() bool {
		return len(cli.queryLog()) > 0
	}, time.Second, time.Millisecond)
}

func TestUnsubscribeAll(t *testing.T) {
	cli := &rpcPoll{ledgers: []uint32{100}}
	e := testEngine(t, cli)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		_, err := e.Subscribe("CAAA", rpc.EventFilter{}, Callbacks{
			OnEvent: func(result.Event) {},
			OnClose: wg.Done,
		})
		require.NoError(t, err)
	}
	e.UnsubscribeAll()
	wg.Wait()

	// Closed engines reject new subscriptions.
	e.Close()
	_, err := e.Subscribe("CAAA", rpc.EventFilter{}, Callbacks{OnEvent: func(result.Event) {}})
	require.ErrorIs(t, err, ErrEngineClosed)
}

func TestQuery(t *testing.T) {
	cli := &rpcPoll{
		ledgers: []uint32{100},
		events: map[ledgerRange][]result.Event{
			{50, 60}: {{ID: "0001", ContractID: "CAAA", Ledger: 55}},
		},
	}
	e := testEngine(t, cli)

	evs, err := e.Query(50, 60, rpc.EventFilter{ContractIDs: []string{"CAAA"}})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, "0001", evs[0].ID)
}
