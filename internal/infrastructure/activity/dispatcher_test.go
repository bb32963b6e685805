package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-api/internal/core/domain"
)

type recordingProcessor struct {
	mu   sync.Mutex
	seen []domain.Activity
	err  error
	gate chan struct{}
}

func (p *recordingProcessor) Process(_ context.Context, a domain.Activity) error {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, a)
	return p.err
}

func (p *recordingProcessor) snapshot() []domain.Activity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Activity(nil), p.seen...)
}

func TestDispatcher_ProcessesAllOnClose(t *testing.T) {
	proc := &recordingProcessor{}
	d := NewDispatcher(3, proc, zerolog.Nop())
	d.Start(context.Background())

	for i := int64(1); i <= 20; i++ {
		d.Record(domain.Activity{UserID: i % 5, Action: domain.ActivityLogin, At: time.Unix(i, 0)})
	}
	d.Close()

	if got := len(proc.snapshot()); got != 20 {
		t.Fatalf("processed %d records, want 20", got)
	}
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	proc := &recordingProcessor{}
	d := NewDispatcher(4, proc, zerolog.Nop())
	d.Start(context.Background())

	for i := int64(1); i <= 50; i++ {
		d.Record(domain.Activity{UserID: 42, Action: domain.ActivityNoteWritten, NoteID: i})
	}
	d.Close()

	seen := proc.snapshot()
	if len(seen) != 50 {
		t.Fatalf("processed %d records, want 50", len(seen))
	}
	for i, a := range seen {
		if a.NoteID != int64(i+1) {
			t.Fatalf("record %d has note id %d, order not preserved", i, a.NoteID)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	proc := &recordingProcessor{gate: make(chan struct{})}
	d := NewDispatcher(1, proc, zerolog.Nop())
	d.Start(context.Background())

	done := make(chan struct{})
	go func() {
		// One record is held by the worker, channelBuffer fill the queue,
		// the rest must be dropped without blocking.
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.Activity{UserID: 1, Action: domain.ActivityLogin})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(proc.gate)
	d.Close()

	if got := len(proc.snapshot()); got > channelBuffer+1 {
		t.Fatalf("processed %d records, expected drops beyond %d", got, channelBuffer+1)
	}
}

func TestDispatcher_ProcessorErrorDoesNotStopWorker(t *testing.T) {
	proc := &recordingProcessor{err: errors.New("db down")}
	d := NewDispatcher(1, proc, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.Activity{UserID: 1, Action: domain.ActivityLogin})
	d.Record(domain.Activity{UserID: 1, Action: domain.ActivityLogin})
	d.Close()

	if got := len(proc.snapshot()); got != 2 {
		t.Fatalf("processed %d records, want 2", got)
	}
}

func TestDispatcher_RecordAfterCloseIsIgnored(t *testing.T) {
	proc := &recordingProcessor{}
	d := NewDispatcher(2, proc, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	d.Record(domain.Activity{UserID: 1, Action: domain.ActivityLogin})

	if got := len(proc.snapshot()); got != 0 {
		t.Fatalf("processed %d records after close", got)
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingProcessor{}, zerolog.Nop())
	for id := int64(0); id < 100; id++ {
		a, b := d.shardIndex(id), d.shardIndex(id)
		if a != b || a < 0 || a >= 8 {
			t.Fatalf("shardIndex(%d) = %d, %d", id, a, b)
		}
	}
}
