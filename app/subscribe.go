package app

import "sync"

type subscribers struct {
	mtx  sync.Mutex
	next int
	subs map[int]chan Block
}

// Subscribe returns a channel receiving committed blocks and a function that
// cancels the subscription. Blocks are dropped for subscribers that do not
// keep up.
func (app *App) Subscribe(buffer int) (<-chan Block, func()) {
	s := &app.subscribers
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]chan Block)
	}
	id := s.next
	s.next++
	ch := make(chan Block, buffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mtx.Lock()
			defer s.mtx.Unlock()
			if ch, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
}

func (s *subscribers) publish(block Block) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- block:
		default:
		}
	}
}

func (s *subscribers) closeAll() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
