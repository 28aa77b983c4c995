package core

import (
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshview/engine/containers"
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// ResizeEvent is the payload of EVENT_CODE_RESIZED.
type ResizeEvent struct {
	Width  uint32
	Height uint32
}

type SystemEventCode int

const (
	// A loader opened a new mesh file.
	/* Context usage:
	 * Data: the mesh layer object
	 */
	EVENT_CODE_MESH_FILE_OPENED SystemEventCode = 0x01

	// A mesh file already in the scene was loaded again.
	/* Context usage:
	 * Data: the mesh layer object
	 */
	EVENT_CODE_MESH_FILE_RELOADED SystemEventCode = 0x02

	// Request to change the selected layer.
	/* Context usage:
	 * Data: layer name (string)
	 */
	EVENT_CODE_SELECT_LAYER SystemEventCode = 0x03

	// Request to hide a layer.
	/* Context usage:
	 * Data: layer name (string)
	 */
	EVENT_CODE_HIDE_LAYER SystemEventCode = 0x04

	// Request to show a layer.
	/* Context usage:
	 * Data: layer name (string)
	 */
	EVENT_CODE_SHOW_LAYER SystemEventCode = 0x05

	// Resized/resolution changed.
	/* Context usage:
	 * Data: *ResizeEvent
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x06

	// The scene finished its setup.
	EVENT_CODE_SCENE_READY SystemEventCode = 0x10

	// A layer was registered.
	/* Context usage:
	 * Data: *scene.LayerAddedEvent
	 */
	EVENT_CODE_LAYER_ADDED SystemEventCode = 0x11

	// A layer changed in place or was reloaded.
	/* Context usage:
	 * Data: *scene.Layer
	 */
	EVENT_CODE_LAYER_UPDATED SystemEventCode = 0x12

	// The selection changed.
	/* Context usage:
	 * Data: *scene.Layer, nil when nothing is selected
	 */
	EVENT_CODE_LAYER_SELECTED SystemEventCode = 0x13

	// A layer was removed.
	/* Context usage:
	 * Data: layer name (string)
	 */
	EVENT_CODE_LAYER_REMOVED SystemEventCode = 0x14

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

var eventNames = map[SystemEventCode]string{
	EVENT_CODE_MESH_FILE_OPENED:   "mesh_file_opened",
	EVENT_CODE_MESH_FILE_RELOADED: "mesh_file_reloaded",
	EVENT_CODE_SELECT_LAYER:       "select_layer",
	EVENT_CODE_HIDE_LAYER:         "hide_layer",
	EVENT_CODE_SHOW_LAYER:         "show_layer",
	EVENT_CODE_RESIZED:            "resized",
	EVENT_CODE_SCENE_READY:        "scene_ready",
	EVENT_CODE_LAYER_ADDED:        "layer_added",
	EVENT_CODE_LAYER_UPDATED:      "layer_updated",
	EVENT_CODE_LAYER_SELECTED:     "layer_selected",
	EVENT_CODE_LAYER_REMOVED:      "layer_removed",
}

func (c SystemEventCode) String() string {
	if n, ok := eventNames[c]; ok {
		return n
	}
	return "unknown"
}

// ListenerID identifies a registration so it can be removed later.
type ListenerID = uuid.UUID

type FnOnEvent func(context EventContext)

type registeredEvent struct {
	id       ListenerID
	callback FnOnEvent
}

// EventBus delivers events to registered listeners synchronously. An event
// fired while another one is being dispatched, from a handler or from another
// goroutine, is queued and delivered once the current dispatch returns, so
// handlers always run to completion one at a time.
//
// Handlers run on the goroutine that fires. Producers running on their own
// goroutine use Post, and the owner delivers their events with Pump.
type EventBus struct {
	mu         sync.Mutex
	registered map[SystemEventCode][]*registeredEvent
	pending    *containers.Queue[EventContext]
	// posted from other goroutines, waiting for Pump
	posted *containers.Queue[EventContext]
	// set while a goroutine is draining the pending queue
	dispatching bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
		pending:    containers.NewQueue[EventContext](16),
		posted:     containers.NewQueue[EventContext](16),
	}
}

// Register a callback for the given code. The returned id is needed to
// unregister it.
func (b *EventBus) Register(code SystemEventCode, onEvent FnOnEvent) ListenerID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	b.registered[code] = append(b.registered[code], &registeredEvent{
		id:       id,
		callback: onEvent,
	})
	return id
}

// Unregister removes a registration. Returns false if nothing matched.
func (b *EventBus) Unregister(code SystemEventCode, id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.registered[code]
	for i, e := range events {
		if e.id == id {
			// copy so a dispatch holding the old slice is not disturbed
			next := make([]*registeredEvent, 0, len(events)-1)
			next = append(next, events[:i]...)
			next = append(next, events[i+1:]...)
			b.registered[code] = next
			return true
		}
	}
	LogWarn("no listener %s registered for event `%s`", id, code)
	return false
}

// Fire sends an event to every listener of its code, in registration order.
func (b *EventBus) Fire(context EventContext) {
	b.mu.Lock()
	b.pending.Enqueue(context)
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true

	for {
		next, err := b.pending.Dequeue()
		if err != nil {
			b.dispatching = false
			b.mu.Unlock()
			return
		}
		listeners := b.registered[next.Type]
		b.mu.Unlock()

		for _, e := range listeners {
			invoke(e, next)
		}

		b.mu.Lock()
	}
}

// Post queues an event without delivering it. It is safe to call from any
// goroutine.
func (b *EventBus) Post(context EventContext) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posted.Enqueue(context)
}

// Pump fires every posted event on the calling goroutine, oldest first, and
// returns how many were delivered. Events posted while pumping wait for the
// next call.
func (b *EventBus) Pump() int {
	b.mu.Lock()
	batch := make([]EventContext, 0, b.posted.Len())
	for !b.posted.IsEmpty() {
		next, _ := b.posted.Dequeue()
		batch = append(batch, next)
	}
	b.mu.Unlock()

	for _, context := range batch {
		b.Fire(context)
	}
	return len(batch)
}

// invoke runs a single callback. A panicking listener is logged and does not
// stall the bus.
func invoke(e *registeredEvent, context EventContext) {
	defer func() {
		if r := recover(); r != nil {
			LogError("listener %s panicked handling `%s`: %v", e.id, context.Type, r)
		}
	}()
	e.callback(context)
}

// Shutdown drops every registration and any undelivered event.
func (b *EventBus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.registered = make(map[SystemEventCode][]*registeredEvent)
	for !b.pending.IsEmpty() {
		_, _ = b.pending.Dequeue()
	}
	for !b.posted.IsEmpty() {
		_, _ = b.posted.Dequeue()
	}
}
