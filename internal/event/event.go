/*
   event: delta-queue event scheduler for host-timer and device callbacks.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package event implements the host-event queue spec.md §5 describes: a
// delta-time-ordered list of callbacks, advanced one cycle each time the
// CPU loop's tick budget runs out.
// It is the mechanism by which the 60Hz realtime tick (spec.md §6) reaches
// the CPU loop without the core depending on wall-clock time directly.
//
// Structurally this is a direct generalization of the teacher's
// emu/event/event.go delta-queue: PDP-10's event needs (one clock source,
// plus whatever a device wants to self-schedule) are a strict subset of
// S370's multi-channel timing, so the queue itself carries over unmodified
// apart from trading the S370 Device interface for an opaque owner key.
package event

// Callback is invoked when an event's delta time reaches zero.
type Callback func(arg int)

// entry is one scheduled event in the delta queue.
type entry struct {
	time  int // cycles remaining, relative to the previous entry
	owner any // identity used by Cancel to find this event again
	cb    Callback
	arg   int
	prev  *entry
	next  *entry
}

// Queue is a delta-time-ordered list of pending events. The zero value is
// an empty, ready-to-use queue.
type Queue struct {
	head *entry
	tail *entry
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Schedule adds an event that fires after the given number of cycles. A
// zero delay runs the callback immediately, synchronously, rather than
// queuing it.
func (q *Queue) Schedule(owner any, cb Callback, cycles int, arg int) {
	if cycles <= 0 {
		cb(arg)
		return
	}

	ev := &entry{owner: owner, cb: cb, time: cycles, arg: arg}

	cur := q.head
	if cur == nil {
		q.head = ev
		q.tail = ev
		return
	}

	for cur != nil {
		if ev.time <= cur.time {
			cur.time -= ev.time
			ev.prev = cur.prev
			ev.next = cur
			cur.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				q.head = ev
			}
			return
		}
		ev.time -= cur.time
		cur = cur.next
	}

	ev.prev = q.tail
	q.tail.next = ev
	q.tail = ev
}

// Cancel removes the first queued event matching owner and arg, if any.
func (q *Queue) Cancel(owner any, arg int) {
	for cur := q.head; cur != nil; cur = cur.next {
		if cur.owner != owner || cur.arg != arg {
			continue
		}
		if cur.next != nil {
			cur.next.time += cur.time
			cur.next.prev = cur.prev
		} else {
			q.tail = cur.prev
		}
		if cur.prev != nil {
			cur.prev.next = cur.next
		} else {
			q.head = cur.next
		}
		return
	}
}

// Advance moves the queue forward by t cycles, firing every event whose
// time reaches zero or below, in order.
func (q *Queue) Advance(t int) {
	cur := q.head
	if cur == nil {
		return
	}
	cur.time -= t
	for cur != nil && cur.time <= 0 {
		cur.cb(cur.arg)
		q.head = cur.next
		if q.head != nil {
			q.head.prev = nil
		} else {
			q.tail = nil
		}
		cur = q.head
	}
}
