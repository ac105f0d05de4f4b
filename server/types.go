package main

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Gateway wires the connection registry, camera directory and the two
// lifecycle managers together and dispatches client commands.
type Gateway struct {
	registry   *ConnectionManager
	cameras    CameraDirectory
	streams    *StreamManager
	recordings *RecordingManager
}

// ConnectionManager tracks connected clients and owns best-effort delivery
type ConnectionManager struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

// Client represents one connected viewer with its outbound message buffer
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	closed bool
	mu     sync.Mutex
}

// StreamManager enforces at-most-one active producer per camera
type StreamManager struct {
	sessions map[string]*StreamSession
	mu       sync.Mutex
	registry *ConnectionManager
	cameras  CameraDirectory

	publicHost       string
	frameInterval    time.Duration
	playlistInterval time.Duration
}

// StreamSession is the live binding of one camera to one producer goroutine
type StreamSession struct {
	cameraID   string
	streamType string
	clientID   string
	cancel     context.CancelFunc
	done       chan struct{}
}

// RecordingManager owns timed recording sessions and their expiry timers
type RecordingManager struct {
	sessions map[string]*RecordingSession
	order    []string
	mu       sync.Mutex
	registry *ConnectionManager
}

// RecordingSession is a client-owned simulated recording with auto-expiry
type RecordingSession struct {
	id       string
	cameraID string
	clientID string
	started  time.Time
	duration time.Duration
	timer    *time.Timer
}

// Camera is a read-only directory record for one camera
type Camera struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IP         string `json:"ip"`
	Port       int    `json:"port"`
	Status     string `json:"status"`
	StreamURL  string `json:"stream_url"`
	Type       string `json:"type"`
	Resolution string `json:"resolution"`
	FPS        int    `json:"fps"`
	Location   string `json:"location"`
}

// CameraDirectory is the external source of camera metadata and status
type CameraDirectory interface {
	List() []Camera
	Lookup(id string) (Camera, bool)
}
