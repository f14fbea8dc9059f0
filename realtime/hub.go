package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

type EventMask uint8

const (
	MaskInsert EventMask = 1 << iota
	MaskUpdate
	MaskDelete
	MaskAll = MaskInsert | MaskUpdate | MaskDelete
)

func (m EventMask) matches(t EventType) bool {
	switch t {
	case EventInsert:
		return m&MaskInsert != 0
	case EventUpdate:
		return m&MaskUpdate != 0
	case EventDelete:
		return m&MaskDelete != 0
	}
	return false
}

// TableAll subscribes to changes on every table.
const TableAll = "*"

// Event describes a single row change. Seq is assigned by the hub and is
// strictly increasing across all events, whatever their table.
type Event struct {
	Table string    `json:"table"`
	Type  EventType `json:"type"`
	RowId int64     `json:"rowId"`
	Seq   uint64    `json:"seq"`
}

type Subscription struct {
	Handle uuid.UUID
	C      <-chan Event

	table string
	mask  EventMask
	ch    chan Event
}

// Hub fans row-change events out to subscribers. Publish never blocks: a
// subscriber that cannot keep up has events dropped, so consumers must treat
// an event as a hint to refetch rather than a complete change log.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscription
	seq    uint64
	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]*Subscription),
		logger: logger,
	}
}

func (h *Hub) Subscribe(table string, mask EventMask) *Subscription {
	ch := make(chan Event, 16)
	sub := &Subscription{
		Handle: uuid.New(),
		C:      ch,
		table:  table,
		mask:   mask,
		ch:     ch,
	}
	h.mu.Lock()
	h.subs[sub.Handle] = sub
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(handle uuid.UUID) {
	h.mu.Lock()
	sub, ok := h.subs[handle]
	if ok {
		delete(h.subs, handle)
	}
	h.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}

func (h *Hub) Publish(table string, eventType EventType, rowId int64) {
	h.mu.Lock()
	h.seq++
	event := Event{Table: table, Type: eventType, RowId: rowId, Seq: h.seq}
	for _, sub := range h.subs {
		if sub.table != TableAll && sub.table != table {
			continue
		}
		if !sub.mask.matches(eventType) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn().
				Str("table", table).
				Str("handle", sub.Handle.String()).
				Msg("subscriber full, dropping event")
		}
	}
	h.mu.Unlock()
}
