package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polydraw/polydraw/backend-go/internal/document"
)

const storeTimeout = 10 * time.Second

var ErrHubStopped = errors.New("hub stopped")

// Documents loads and stores the document behind each room.
type Documents interface {
	LoadDocument(ctx context.Context, drawingID string) (*document.Document, error)
	StoreDocument(ctx context.Context, drawingID string, doc *document.Document) (int, error)
}

type Option func(*Hub)

// WithAutosaveInterval saves dirty rooms every d. Zero disables the ticker;
// rooms are then saved only when they empty out or the hub stops.
func WithAutosaveInterval(d time.Duration) Option {
	return func(h *Hub) { h.autosave = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

type inbound struct {
	client *Client
	msg    *Message
}

// Hub owns every open room. All room state, including each room's editor,
// is read and written by the Run goroutine only.
type Hub struct {
	docs     Documents
	logger   *slog.Logger
	autosave time.Duration

	rooms      map[string]*Room // drawingID -> room
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(docs Documents, opts ...Option) *Hub {
	h := &Hub{
		docs:       docs,
		logger:     slog.Default(),
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run() {
	defer close(h.done)

	var autosave <-chan time.Time
	if h.autosave > 0 {
		ticker := time.NewTicker(h.autosave)
		defer ticker.Stop()
		autosave = ticker.C
	}

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case in := <-h.inbound:
			h.handleMessage(in.client, in.msg)
		case <-autosave:
			h.saveAll()
		case <-h.stop:
			h.shutdown()
			return
		}
	}
}

// Stop saves every dirty room, disconnects all clients and waits for Run to
// return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		close(client.send)
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Submit queues msg from client for the hub goroutine.
func (h *Hub) Submit(client *Client, msg *Message) {
	select {
	case h.inbound <- inbound{client: client, msg: msg}:
	case <-h.done:
	}
}

func (h *Hub) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func (h *Hub) addClient(client *Client) {
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		var err error
		room, err = h.openRoom(client.DrawingID)
		if err != nil {
			h.logger.Error("open room", "error", err, "drawing", client.DrawingID)
			client.sendError("could not open drawing")
			close(client.send)
			return
		}
		h.rooms[client.DrawingID] = room
	}
	room.clients[client.ClientID] = client

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, CanEdit: client.CanEdit})
	client.Send(&Message{Type: TypeWelcome, DrawingID: room.drawingID, Payload: welcome})

	// Send current presence, scene and toolbar state to the new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}
	if msg := room.renderMessage(); msg != nil {
		client.Send(msg)
	}
	if msg := room.stateMessage(); msg != nil {
		client.Send(msg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(room, joinMsg, client.ClientID)

	h.logger.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) openRoom(drawingID string) (*Room, error) {
	ctx, cancel := h.storeContext()
	defer cancel()

	doc, err := h.docs.LoadDocument(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	doc.ID = drawingID
	return NewRoom(doc, h.logger)
}

func (h *Hub) removeClient(client *Client) {
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	h.logger.Info("client left", "user", client.UserID, "drawing", client.DrawingID)

	if len(room.clients) == 0 {
		h.saveRoom(room)
		delete(h.rooms, client.DrawingID)
		return
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	leaveMsg := &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}
	h.broadcastToRoom(room, leaveMsg, "")
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room, ok := h.rooms[sender.DrawingID]
	if !ok {
		return
	}
	if _, ok := room.clients[sender.ClientID]; !ok {
		return
	}

	msg.UserID = sender.UserID
	msg.ClientID = sender.ClientID
	msg.DrawingID = sender.DrawingID

	if msg.Type == TypePresenceUpdate {
		h.handlePresenceUpdate(room, sender, msg)
		return
	}

	if !sender.CanEdit {
		sender.sendError(ErrReadOnly.Error())
		return
	}
	if err := room.Apply(msg); err != nil {
		h.logger.Warn("rejected message", "error", err, "type", msg.Type, "user", sender.UserID)
		sender.sendError(err.Error())
		return
	}

	if out := room.renderMessage(); out != nil {
		h.broadcastToRoom(room, out, "")
	}
	if out := room.stateMessage(); out != nil {
		h.broadcastToRoom(room, out, "")
	}
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		h.logger.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName
	room.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(room, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(room *Room, msg *Message, excludeClientID string) {
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

func (h *Hub) saveRoom(room *Room) {
	if !room.Dirty() {
		return
	}
	ctx, cancel := h.storeContext()
	defer cancel()

	if err := room.Save(ctx, h.docs); err != nil {
		h.logger.Error("autosave failed", "error", err, "drawing", room.drawingID)
	}
}

func (h *Hub) saveAll() {
	for _, room := range h.rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) shutdown() {
	h.saveAll()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			close(c.send)
		}
		delete(h.rooms, id)
	}
	h.logger.Info("collab hub stopped")
}
