package device

import "sync"

// Stream is an in-order execution lane: tasks launched on it run one at a
// time, in launch order, on a dedicated goroutine. Slot compute lanes and
// payload copy lanes are Streams; ordering between lanes is expressed with
// Events.
type Stream struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

func NewStream() *Stream {
	s := &Stream{tasks: make(chan func(), 64)}
	go func() {
		for f := range s.tasks {
			f()
			s.wg.Done()
		}
	}()
	return s
}

// Launch enqueues f. It may block if the lane is deeply backed up.
func (s *Stream) Launch(f func()) {
	s.wg.Add(1)
	s.tasks <- f
}

// Sync blocks the caller until every task launched so far has completed.
func (s *Stream) Sync() {
	done := make(chan struct{})
	s.Launch(func() { close(done) })
	<-done
}

// Close stops the lane after draining it. Further Launch calls panic.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.wg.Wait()
		close(s.tasks)
	})
}

// Event is a one-shot completion signal for ordering work across lanes.
// Each contributing task calls Signal once; the consuming task calls Wait,
// which returns after all contributors have signalled.
type Event struct {
	wg sync.WaitGroup
}

func NewEvent(contributors int) *Event {
	ev := &Event{}
	ev.wg.Add(contributors)
	return ev
}

func (ev *Event) Signal() { ev.wg.Done() }
func (ev *Event) Wait()   { ev.wg.Wait() }
