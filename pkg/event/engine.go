/*
Package event implements contract event delivery on top of the polling
RPC surface. An Engine keeps one polling loop per subscription, tracks a
per-subscription ledger cursor and hands matching events to callbacks in
server order. One-shot historical queries go through [Engine.Query] and
never touch subscription cursors.
*/
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/errclass"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"go.uber.org/zap"
)

// DefaultPollInterval is the delay between ledger polls when the
// configuration doesn't specify one.
const DefaultPollInterval = 5 * time.Second

// ErrEngineClosed is returned by Subscribe after Close.
var ErrEngineClosed = errors.New("event engine is closed")

// RPCPoller is the RPC method set the engine polls with.
type RPCPoller interface {
	GetLatestLedger() (*result.LatestLedger, error)
	GetEvents(startLedger, endLedger uint32, filters ...rpc.EventFilter) (*result.GetEvents, error)
}

// Callbacks receive subscription lifecycle notifications. OnEvent is
// required; the engine calls it from the subscription's own goroutine,
// one event at a time, in server order. OnError and OnClose are
// optional. Poll errors reported through OnError don't stop the loop.
type Callbacks struct {
	OnEvent func(result.Event)
	OnError func(error)
	OnClose func()
}

// Config holds engine settings.
type Config struct {
	// Log is the logger, nil means no logging at all.
	Log *zap.Logger
	// PollInterval is the delay between ledger polls, zero means
	// [DefaultPollInterval].
	PollInterval time.Duration
}

type subscription struct {
	id       string
	filter   rpc.EventFilter
	cbs      Callbacks
	cursor   uint32
	cancel   context.CancelFunc
	finished chan struct{}
}

// Engine delivers contract events to subscribers. Safe for concurrent
// use.
type Engine struct {
	client   RPCPoller
	log      *zap.Logger
	interval time.Duration

	lock   sync.Mutex
	subs   map[string]*subscription
	closed bool
}

// New creates an event Engine polling the given client.
func New(client RPCPoller, cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Engine{
		client:   client,
		log:      log,
		interval: interval,
		subs:     make(map[string]*subscription),
	}
}

// Subscribe starts a polling loop delivering events matching the filter
// to cbs.OnEvent, starting strictly after the current latest ledger.
// The returned id identifies the subscription for Unsubscribe. A failed
// initial ledger lookup is fatal: it's reported to cbs.OnError and no
// subscription is created.
func (e *Engine) Subscribe(contractID string, filter rpc.EventFilter, cbs Callbacks) (string, error) {
	if cbs.OnEvent == nil {
		return "", errors.New("OnEvent callback is required")
	}
	latest, err := e.client.GetLatestLedger()
	if err != nil {
		cerr := errclass.ClassifyErr(err)
		if cbs.OnError != nil {
			cbs.OnError(cerr)
		}
		return "", cerr
	}

	f := *filter.Copy()
	if contractID != "" {
		f.ContractIDs = append(f.ContractIDs, contractID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		id:       subscriptionID(contractID),
		filter:   f,
		cbs:      cbs,
		cursor:   latest.Sequence,
		cancel:   cancel,
		finished: make(chan struct{}),
	}

	e.lock.Lock()
	if e.closed {
		e.lock.Unlock()
		cancel()
		return "", ErrEngineClosed
	}
	e.subs[sub.id] = sub
	e.lock.Unlock()
	updateActiveSubscriptions(1)

	e.log.Info("subscription started",
		zap.String("id", sub.id),
		zap.Uint32("cursor", sub.cursor))
	go e.run(ctx, sub)
	return sub.id, nil
}

func (e *Engine) run(ctx context.Context, sub *subscription) {
	defer close(sub.finished)
	timer := time.NewTicker(e.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			e.poll(sub)
		}
	}
}

// poll advances the subscription cursor by one ledger window. The
// cursor moves to the latest ledger even when the window held no
// matching events, so a subscription never re-reads a ledger.
func (e *Engine) poll(sub *subscription) {
	incPollCounter()
	latest, err := e.client.GetLatestLedger()
	if err != nil {
		e.pollError(sub, err)
		return
	}
	if latest.Sequence <= sub.cursor {
		return
	}
	res, err := e.client.GetEvents(sub.cursor+1, latest.Sequence, sub.filter)
	if err != nil {
		e.pollError(sub, err)
		return
	}
	for i := range res.Events {
		sub.cbs.OnEvent(res.Events[i])
	}
	addDeliveredEvents(len(res.Events))
	e.log.Debug("poll finished",
		zap.String("id", sub.id),
		zap.Uint32("from", sub.cursor+1),
		zap.Uint32("to", latest.Sequence),
		zap.Int("events", len(res.Events)))
	sub.cursor = latest.Sequence
}

func (e *Engine) pollError(sub *subscription, err error) {
	incPollErrorCounter()
	e.log.Warn("poll failed", zap.String("id", sub.id), zap.Error(err))
	if sub.cbs.OnError != nil {
		sub.cbs.OnError(errclass.ClassifyErr(err))
	}
}

// Unsubscribe stops the subscription with the given id, waiting for any
// in-flight poll to finish before OnClose fires. Unknown ids are
// ignored, making repeated unsubscription safe.
func (e *Engine) Unsubscribe(id string) {
	e.lock.Lock()
	sub, ok := e.subs[id]
	if ok {
		delete(e.subs, id)
	}
	e.lock.Unlock()
	if !ok {
		return
	}
	e.stop(sub)
}

// UnsubscribeAll stops every active subscription.
func (e *Engine) UnsubscribeAll() {
	e.lock.Lock()
	subs := make([]*subscription, 0, len(e.subs))
	for _, sub := range e.subs {
		subs = append(subs, sub)
	}
	e.subs = make(map[string]*subscription)
	e.lock.Unlock()
	for _, sub := range subs {
		e.stop(sub)
	}
}

// Close stops all subscriptions and rejects new ones.
func (e *Engine) Close() {
	e.lock.Lock()
	e.closed = true
	e.lock.Unlock()
	e.UnsubscribeAll()
}

func (e *Engine) stop(sub *subscription) {
	sub.cancel()
	<-sub.finished
	updateActiveSubscriptions(-1)
	e.log.Info("subscription stopped", zap.String("id", sub.id))
	if sub.cbs.OnClose != nil {
		sub.cbs.OnClose()
	}
}

// Query fetches historical events in the closed ledger range without
// affecting any subscription. endLedger of zero means "up to the
// latest".
func (e *Engine) Query(startLedger, endLedger uint32, filters ...rpc.EventFilter) ([]result.Event, error) {
	res, err := e.client.GetEvents(startLedger, endLedger, filters...)
	if err != nil {
		return nil, errclass.ClassifyErr(err)
	}
	return res.Events, nil
}

// subscriptionID builds a unique subscription identity carrying a
// recognizable contract prefix for log grepping.
func subscriptionID(contractID string) string {
	prefix := contractID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), uuid.NewString()[:8])
}
