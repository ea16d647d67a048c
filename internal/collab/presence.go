package collab

import (
	"encoding/json"
	"log/slog"
	"maps"
)

// PresenceManager tracks the last presence each user in a room reported.
// It is only touched from the hub goroutine.
type PresenceManager struct {
	presences map[string]*PresencePayload // userID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.presences[userID] = p
}

func (pm *PresenceManager) Remove(userID string) {
	delete(pm.presences, userID)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	return maps.Clone(pm.presences)
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
