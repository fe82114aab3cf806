package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const broadcastBuffer = 64

// Hub fans heat changes out to the clients subscribed to an event
type Hub struct {
	clients     map[*Client]bool
	subscribers map[uuid.UUID]map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *subscription
	broadcast   chan *eventMessage
	stop        chan struct{}
	done        chan struct{} // closed when Run() exits
	stopped     bool
	logger      *zap.Logger
	metrics     *metrics.Manager
	mu          sync.RWMutex
}

type subscription struct {
	client  *Client
	eventID uuid.UUID
	join    bool
}

type eventMessage struct {
	eventID uuid.UUID
	data    []byte
}

func NewHub(logger *zap.Logger, m *metrics.Manager) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:     make(map[*Client]bool),
		subscribers: make(map[uuid.UUID]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *subscription),
		broadcast:   make(chan *eventMessage, broadcastBuffer),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger,
		metrics:     m,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.subscribers = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			h.metrics.SetWebsocketClients(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetWebsocketClients(count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for eventID := range client.events {
					h.removeSubscriber(eventID, client)
				}
				client.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetWebsocketClients(count)

		case sub := <-h.subscribe:
			h.handleSubscription(sub)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down and closes every client.
// It blocks until Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) handleSubscription(sub *subscription) {
	h.mu.Lock()
	if _, ok := h.clients[sub.client]; !ok {
		h.mu.Unlock()
		return
	}

	if sub.join {
		subs, ok := h.subscribers[sub.eventID]
		if !ok {
			subs = make(map[*Client]bool)
			h.subscribers[sub.eventID] = subs
		}
		subs[sub.client] = true
		sub.client.events[sub.eventID] = true
	} else {
		h.removeSubscriber(sub.eventID, sub.client)
		delete(sub.client.events, sub.eventID)
	}
	count := len(h.subscribers[sub.eventID])
	h.mu.Unlock()

	msgType := MessageTypeSubscribed
	if !sub.join {
		msgType = MessageTypeUnsubscribed
	}
	msg, _ := NewMessage(msgType, SubscribedPayload{
		EventID:     sub.eventID.String(),
		Subscribers: count,
	})
	sub.client.Send(msg)
}

// removeSubscriber expects h.mu to be held
func (h *Hub) removeSubscriber(eventID uuid.UUID, client *Client) {
	subs, ok := h.subscribers[eventID]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscribers, eventID)
	}
}

func (h *Hub) deliver(msg *eventMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[msg.eventID] {
		if !client.trySend(msg.data) {
			h.metrics.IncDropped()
			h.logger.Warn("dropping message for slow client",
				zap.String("userId", client.userID.String()),
				zap.String("eventId", msg.eventID.String()))
		}
	}
}

// HeatsUpdated queues the new start list of a round for the event's
// subscribers. It never blocks; when the queue is full the update is dropped.
func (h *Hub) HeatsUpdated(eventID uuid.UUID, round domain.Round, heats []*domain.Heat) {
	msg, err := NewMessage(MessageTypeHeatsUpdated, NewHeatsUpdatedPayload(eventID, round, heats))
	if err != nil {
		h.logger.Error("failed to build heats message", zap.Error(err))
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal heats message", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- &eventMessage{eventID: eventID, data: data}:
		h.metrics.IncBroadcast()
	default:
		h.metrics.IncDropped()
		h.logger.Warn("broadcast queue full, dropping heats update",
			zap.String("eventId", eventID.String()),
			zap.String("round", string(round)))
	}
}

// Subscribers returns how many clients follow an event
func (h *Hub) Subscribers(eventID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[eventID])
}

// Register adds a client. A client registered after Stop is closed at once.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) requestSubscription(sub *subscription) {
	select {
	case h.subscribe <- sub:
	case <-h.done:
	}
}
