// ABOUTME: Sequence-ordered playback queue
// ABOUTME: Replays streamed audio buffers in order through the sink
package player

import (
	"container/heap"
	"context"
	"log"
	"sync"
	"time"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
)

// maxQueued bounds the queue; chunks beyond it are dropped
const maxQueued = 256

// Sink plays one decoded buffer to completion
type Sink interface {
	Play(*audio.Buffer) error
}

// QueueStats tracks queue metrics
type QueueStats struct {
	Received int64
	Played   int64
	Dropped  int64
}

// Queue replays sequence-numbered buffers in order. Live sessions
// stream audio chunks that can arrive faster than playback; the queue
// buffers them, keeps them ordered by sequence, and feeds the sink one
// at a time.
type Queue struct {
	sink Sink

	mu      sync.Mutex
	bufferQ *bufferQueue
	nextSeq int64
	stats   QueueStats

	ctx    context.Context
	cancel context.CancelFunc
}

// NewQueue creates a playback queue over a sink
func NewQueue(sink Sink) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		sink:    sink,
		bufferQ: newBufferQueue(),
		ctx:     ctx,
		cancel:  cancel,
	}
	return q
}

// Enqueue adds a buffer with its sequence number
func (q *Queue) Enqueue(seq int64, buf *audio.Buffer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stats.Received++

	if seq < q.nextSeq {
		// Already played past this point
		q.stats.Dropped++
		log.Printf("Dropped stale chunk: seq=%d, next=%d", seq, q.nextSeq)
		return
	}
	if q.bufferQ.Len() >= maxQueued {
		q.stats.Dropped++
		log.Printf("Dropped chunk: queue full (seq=%d)", seq)
		return
	}

	heap.Push(q.bufferQ, queued{seq: seq, buf: buf})
}

// Run drains the queue until the context is cancelled
func (q *Queue) Run() {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.playReady()
		}
	}
}

// playReady plays every buffer whose sequence is next in line
func (q *Queue) playReady() {
	for {
		q.mu.Lock()
		if q.bufferQ.Len() == 0 || q.bufferQ.Peek().seq != q.nextSeq {
			q.mu.Unlock()
			return
		}
		item := heap.Pop(q.bufferQ).(queued)
		q.nextSeq = item.seq + 1
		q.mu.Unlock()

		// Play outside the lock; the sink blocks until done
		if err := q.sink.Play(item.buf); err != nil {
			log.Printf("Playback error: %v", err)
			q.mu.Lock()
			q.stats.Dropped++
			q.mu.Unlock()
			continue
		}

		q.mu.Lock()
		q.stats.Played++
		q.mu.Unlock()
	}
}

// Reset clears pending buffers and rewinds the expected sequence,
// ready for a new stream.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.bufferQ = newBufferQueue()
	q.nextSeq = 0
}

// Stats returns queue statistics
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Depth returns the number of pending buffers
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bufferQ.Len()
}

// Stop stops the queue loop
func (q *Queue) Stop() {
	q.cancel()
}

// queued pairs a buffer with its stream sequence number
type queued struct {
	seq int64
	buf *audio.Buffer
}

// bufferQueue is a min-heap ordered by sequence number
type bufferQueue struct {
	items []queued
}

func newBufferQueue() *bufferQueue {
	q := &bufferQueue{}
	heap.Init(q)
	return q
}

// Implement heap.Interface
func (q *bufferQueue) Len() int { return len(q.items) }

func (q *bufferQueue) Less(i, j int) bool {
	return q.items[i].seq < q.items[j].seq
}

func (q *bufferQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *bufferQueue) Push(x interface{}) {
	q.items = append(q.items, x.(queued))
}

func (q *bufferQueue) Pop() interface{} {
	n := len(q.items)
	item := q.items[n-1]
	q.items = q.items[:n-1]
	return item
}

func (q *bufferQueue) Peek() queued {
	return q.items[0]
}
