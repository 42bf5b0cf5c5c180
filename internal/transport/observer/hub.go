package observer

import (
	"encoding/json"
	"sync"

	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
)

// DefaultBuffer is the per-subscriber queue length for live days.
const DefaultBuffer = 256

// Close reasons reported by Subscription.Reason.
const (
	ReasonEnded = "run ended"
	ReasonSlow  = "too slow"
	ReasonLeft  = "unsubscribed"
)

// Hub fans delivered days out to observers. It is a driver consumer; each
// subscriber gets encoded messages on its own channel and is dropped, with
// its channel closed, as soon as that channel is full.
type Hub struct {
	cfg    outbreak.Config
	buffer int

	mu      sync.Mutex
	backlog [][]byte
	end     []byte
	day     int
	nextID  uint64
	subs    map[uint64]*Subscription
}

// Subscription is one observer's view of the hub.
type Subscription struct {
	id     uint64
	out    chan []byte
	hub    *Hub
	reason string
}

// C yields encoded DAY and END messages. It is closed when the run ends or
// the subscriber is dropped.
func (s *Subscription) C() <-chan []byte { return s.out }

// Reason explains why C was closed, or returns "" while it is open.
func (s *Subscription) Reason() string {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.reason
}

// NewHub returns a hub for a run started from cfg. buffer <= 0 selects
// DefaultBuffer.
func NewHub(cfg outbreak.Config, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{cfg: cfg, buffer: buffer, subs: make(map[uint64]*Subscription)}
}

// Consume encodes res and broadcasts it.
func (h *Hub) Consume(res outbreak.DayResult) error {
	b, err := json.Marshal(DayMsg{Type: TypeDay, ProtocolVersion: Version, DayResult: res})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.backlog = append(h.backlog, b)
	h.day = res.Day
	h.broadcastLocked(b)
	return nil
}

// Finish broadcasts the run summary and closes every subscription.
func (h *Hub) Finish(sum driver.Summary) error {
	b, err := json.Marshal(EndMsg{
		Type:            TypeEnd,
		ProtocolVersion: Version,
		Days:            sum.Days,
		TotalInfected:   sum.TotalInfected,
		Recovered:       sum.Recovered,
		Dead:            sum.Dead,
		Series:          sum.Series,
	})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.end = b
	h.broadcastLocked(b)
	for id, s := range h.subs {
		h.dropLocked(id, s, ReasonEnded)
	}
	return nil
}

// Subscribe registers a new observer. With replay the channel starts with
// every day delivered so far.
func (h *Hub) Subscribe(replay bool) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := h.buffer + 1
	if replay {
		size += len(h.backlog)
	}
	h.nextID++
	s := &Subscription{id: h.nextID, out: make(chan []byte, size), hub: h}
	if replay {
		for _, b := range h.backlog {
			s.out <- b
		}
	}
	if h.end != nil {
		s.out <- h.end
		s.reason = ReasonEnded
		close(s.out)
		return s
	}
	h.subs[s.id] = s
	return s
}

// Unsubscribe removes s; its channel is closed if it was still open.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.subs[s.id]; ok && cur == s {
		h.dropLocked(s.id, s, ReasonLeft)
	}
}

// Subscribers counts open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Bootstrap describes the run for a new observer.
func (h *Hub) Bootstrap() BootstrapResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return BootstrapResponse{
		ProtocolVersion: Version,
		Population:      h.cfg.Population,
		Seed:            h.cfg.Seed,
		Params:          h.cfg.Params,
		Day:             h.day,
		Ended:           h.end != nil,
	}
}

func (h *Hub) broadcastLocked(b []byte) {
	for id, s := range h.subs {
		select {
		case s.out <- b:
		default:
			h.dropLocked(id, s, ReasonSlow)
		}
	}
}

func (h *Hub) dropLocked(id uint64, s *Subscription, reason string) {
	delete(h.subs, id)
	s.reason = reason
	close(s.out)
}
