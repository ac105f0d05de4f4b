package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// NewConnectionManager creates an empty connection registry
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
	}
}

// generateClientID builds a time-derived id with a random suffix so
// collisions are effectively impossible across reconnects.
func generateClientID() string {
	return fmt.Sprintf("client_%s_%s", time.Now().Format("20060102_150405"), shortID())
}

func shortID() string {
	return uuid.NewString()[:8]
}

// Register assigns the client its id and makes it reachable via Send
func (cm *ConnectionManager) Register(c *Client) string {
	id := generateClientID()
	c.id = id

	cm.mu.Lock()
	cm.clients[id] = c
	cm.mu.Unlock()

	log.Printf("Client %s connected", id)
	return id
}

// Unregister removes a client and closes its send channel. Safe to call
// when the client is already gone.
func (cm *ConnectionManager) Unregister(clientID string) {
	cm.mu.Lock()
	c, exists := cm.clients[clientID]
	if exists {
		delete(cm.clients, clientID)
	}
	cm.mu.Unlock()

	if !exists {
		return
	}
	c.closeSend()
	log.Printf("Client %s disconnected", clientID)
}

// Send delivers one message to one client. A closed client is treated as an
// implicit disconnect: it is unregistered and the failure is returned to the
// caller only.
func (cm *ConnectionManager) Send(clientID string, msg Outbound) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msg.Type, err)
	}

	cm.mu.RLock()
	c, exists := cm.clients[clientID]
	cm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("client %s not connected", clientID)
	}
	if !c.enqueue(raw) {
		cm.Unregister(clientID)
		return fmt.Errorf("client %s connection closed", clientID)
	}
	return nil
}

// Broadcast delivers a message to every registered client. A broken client
// does not abort delivery to the others; it is unregistered instead.
func (cm *ConnectionManager) Broadcast(msg Outbound) {
	raw, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Broadcast marshal error for %s message: %v", msg.Type, err)
		return
	}

	cm.mu.RLock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, c := range cm.clients {
		clients = append(clients, c)
	}
	cm.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(raw) {
			log.Printf("Broadcast to %s failed, dropping client", c.id)
			cm.Unregister(c.id)
		}
	}
}

// Has reports whether a client is still registered
func (cm *ConnectionManager) Has(clientID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, exists := cm.clients[clientID]
	return exists
}

// Count returns the live membership for health reporting
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// CloseAll unregisters every client, used during shutdown
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	clients := make([]*Client, 0, len(cm.clients))
	for id, c := range cm.clients {
		clients = append(clients, c)
		delete(cm.clients, id)
	}
	cm.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
	}
}
