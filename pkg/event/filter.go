package event

import (
	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
)

// ByContract keeps events emitted by the given contract.
func ByContract(events []result.Event, contractID string) []result.Event {
	var res []result.Event
	for _, ev := range events {
		if ev.ContractID == contractID {
			res = append(res, ev)
		}
	}
	return res
}

// ByTopic keeps events whose first topic equals the given value.
// Contract events conventionally put the event name symbol first.
func ByTopic(events []result.Event, topic scval.Value) []result.Event {
	var res []result.Event
	for _, ev := range events {
		if len(ev.Topics) > 0 && ev.Topics[0].Equals(topic) {
			res = append(res, ev)
		}
	}
	return res
}

// ByTimeRange keeps events whose ledger close time falls into the
// inclusive [from, to] range of unix seconds.
func ByTimeRange(events []result.Event, from, to int64) []result.Event {
	var res []result.Event
	for _, ev := range events {
		if ev.LedgerClosedAt >= from && ev.LedgerClosedAt <= to {
			res = append(res, ev)
		}
	}
	return res
}

// Stats is an aggregate summary of an event set.
type Stats struct {
	TotalEvents     int
	UniqueContracts int
	UniqueTypes     int
	FirstLedger     uint32
	LastLedger      uint32
	// FirstTime and LastTime are ledger close times in unix seconds.
	FirstTime int64
	LastTime  int64
}

// Summarize computes aggregate statistics over the given events. An
// empty input yields the zero Stats.
func Summarize(events []result.Event) Stats {
	var s Stats
	if len(events) == 0 {
		return s
	}
	contracts := make(map[string]struct{})
	types := make(map[string]struct{})
	s.FirstLedger = events[0].Ledger
	s.FirstTime = events[0].LedgerClosedAt
	for _, ev := range events {
		contracts[ev.ContractID] = struct{}{}
		types[ev.Type] = struct{}{}
		if ev.Ledger < s.FirstLedger {
			s.FirstLedger = ev.Ledger
		}
		if ev.Ledger > s.LastLedger {
			s.LastLedger = ev.Ledger
		}
		if ev.LedgerClosedAt < s.FirstTime {
			s.FirstTime = ev.LedgerClosedAt
		}
		if ev.LedgerClosedAt > s.LastTime {
			s.LastTime = ev.LedgerClosedAt
		}
	}
	s.TotalEvents = len(events)
	s.UniqueContracts = len(contracts)
	s.UniqueTypes = len(types)
	return s
}
