// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package mqttsn

import (
	"net/netip"
)

// pendingMessage is one in-flight control request awaiting a gateway
// acknowledgement, correlated by packet id. It owns a verbatim copy of the
// frame bytes so the request can be retransmitted.
type pendingMessage[C any] struct {
	addr     netip.Addr // destination, frozen at enqueue
	port     uint16
	packetID uint16
	created  uint32 // enqueue (or last resend) timestamp in ms
	timeout  uint32 // retransmission window in ms
	retries  uint8  // resends performed so far
	callback C
	data     []byte // frame copy for resend
}

// resendFn retransmits the frame copy of an entry whose window elapsed
// before its retry budget did.
type resendFn func(data []byte, addr netip.Addr, port uint16) error

// pendingQueue correlates in-flight requests of a single kind. The timeout
// callback is bound at construction so each of the three queues stays
// statically typed over its callback shape.
type pendingQueue[C any] struct {
	entries   []*pendingMessage[C]
	onTimeout func(callback C)
}

// newPendingQueue returns a queue which passes the callbacks of expired
// entries to onTimeout.
func newPendingQueue[C any](onTimeout func(callback C)) *pendingQueue[C] {
	return &pendingQueue[C]{
		onTimeout: onTimeout,
	}
}

// len returns the number of in-flight entries.
func (q *pendingQueue[C]) len() int {
	return len(q.entries)
}

// enqueue appends an entry, keeping insertion order. Packet id uniqueness
// within the queue is the caller's invariant; a duplicate is refused.
func (q *pendingQueue[C]) enqueue(m *pendingMessage[C]) error {
	if q.find(m.packetID) != nil {
		return ErrNoBuffers
	}

	q.entries = append(q.entries, m)
	return nil
}

// find returns the first entry with the given packet id, or nil.
func (q *pendingQueue[C]) find(packetID uint16) *pendingMessage[C] {
	for _, m := range q.entries {
		if m.packetID == packetID {
			return m
		}
	}

	return nil
}

// dequeue removes the entry with the given packet id, returning it.
func (q *pendingQueue[C]) dequeue(packetID uint16) (*pendingMessage[C], bool) {
	for i, m := range q.entries {
		if m.packetID == packetID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return m, true
		}
	}

	return nil, false
}

// handleTick sweeps entries whose retransmission window elapsed. Entries
// with retries remaining are resent from their frame copy and re-armed;
// the rest are dequeued and their callbacks handed to onTimeout.
func (q *pendingQueue[C]) handleTick(now uint32, maxRetransmit uint8, resend resendFn) {
	remaining := q.entries[:0]
	for _, m := range q.entries {
		if m.created+m.timeout > now {
			remaining = append(remaining, m)
			continue
		}

		if m.retries < maxRetransmit && resend != nil {
			if err := resend(m.data, m.addr, m.port); err == nil {
				m.retries++
				m.created = now
				remaining = append(remaining, m)
				continue
			}
		}

		q.onTimeout(m.callback)
	}

	q.entries = remaining
}

// forceTimeout drains the queue, handing every callback to onTimeout.
// Called when the session is torn down.
func (q *pendingQueue[C]) forceTimeout() {
	entries := q.entries
	q.entries = nil
	for _, m := range entries {
		q.onTimeout(m.callback)
	}
}
