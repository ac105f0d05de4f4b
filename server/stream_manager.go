package main

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Lifecycle errors reported back to the requesting client
var (
	ErrCameraNotFound = errors.New("camera not found")
	ErrCameraOffline  = errors.New("camera offline")
)

// NewStreamManager creates a stream lifecycle controller with the default
// producer cadences.
func NewStreamManager(registry *ConnectionManager, cameras CameraDirectory, publicHost string) *StreamManager {
	return &StreamManager{
		sessions:         make(map[string]*StreamSession),
		registry:         registry,
		cameras:          cameras,
		publicHost:       publicHost,
		frameInterval:    FrameInterval,
		playlistInterval: PlaylistInterval,
	}
}

// Start validates the camera and starts a producer for it on behalf of
// clientID. An existing session for the camera is superseded unconditionally
// regardless of which client owns it; that pre-emption is deliberate policy.
// WebRTC requests are stateless: a canned offer is sent and no session is
// kept.
func (sm *StreamManager) Start(clientID, cameraID, streamType string) error {
	camera, found := sm.cameras.Lookup(cameraID)
	if !found {
		return fmt.Errorf("start stream for camera %s: %w", cameraID, ErrCameraNotFound)
	}
	if camera.Status != CameraOnline {
		return fmt.Errorf("start stream for camera %s: %w", cameraID, ErrCameraOffline)
	}

	if streamType == StreamTypeWebRTC {
		sm.registry.Send(clientID, webrtcOfferMessage(cameraID))
		return nil
	}
	if streamType != StreamTypeMJPEG && streamType != StreamTypeHLS {
		log.Printf("Ignoring start_stream with unknown stream type %q for camera %s", streamType, cameraID)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &StreamSession{
		cameraID:   cameraID,
		streamType: streamType,
		clientID:   clientID,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	sm.mu.Lock()
	if existing, ok := sm.sessions[cameraID]; ok {
		existing.cancel()
		log.Printf("Superseding %s stream on camera %s (owner %s)", existing.streamType, cameraID, existing.clientID)
	}
	sm.sessions[cameraID] = session
	sm.mu.Unlock()

	go sm.runProducer(ctx, session)

	sm.registry.Send(clientID, streamHealthMessage(cameraID, "connected"))
	log.Printf("Started %s stream on camera %s for client %s", streamType, cameraID, clientID)
	return nil
}

// Stop cancels the camera's producer if one is active and notifies the
// session's original owner. A camera with no active session is a no-op.
func (sm *StreamManager) Stop(cameraID string) {
	sm.mu.Lock()
	session, ok := sm.sessions[cameraID]
	if ok {
		session.cancel()
		delete(sm.sessions, cameraID)
	}
	sm.mu.Unlock()

	if !ok {
		return
	}
	sm.registry.Send(session.clientID, streamHealthMessage(cameraID, "disconnected"))
	log.Printf("Stopped %s stream on camera %s", session.streamType, cameraID)
}

// CleanupForClient cancels every stream session owned by a departed client.
// Safe to call concurrently with Start/Stop for other cameras.
func (sm *StreamManager) CleanupForClient(clientID string) {
	sm.mu.Lock()
	var removed []string
	for cameraID, session := range sm.sessions {
		if session.clientID == clientID {
			session.cancel()
			delete(sm.sessions, cameraID)
			removed = append(removed, cameraID)
		}
	}
	sm.mu.Unlock()

	for _, cameraID := range removed {
		log.Printf("Cleaned up stream on camera %s for disconnected client %s", cameraID, clientID)
	}
}

// release drops the session mapping when its producer exits on its own.
// The identity check keeps a superseded producer from removing its
// replacement.
func (sm *StreamManager) release(session *StreamSession) {
	sm.mu.Lock()
	if current, ok := sm.sessions[session.cameraID]; ok && current == session {
		delete(sm.sessions, session.cameraID)
	}
	sm.mu.Unlock()
}

// Count returns the number of active stream sessions for health reporting
func (sm *StreamManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// owner reports the owning client of a camera's session, if any
func (sm *StreamManager) owner(cameraID string) (string, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if session, ok := sm.sessions[cameraID]; ok {
		return session.clientID, true
	}
	return "", false
}

// Shutdown cancels every producer and waits for each to exit
func (sm *StreamManager) Shutdown() {
	sm.mu.Lock()
	sessions := make([]*StreamSession, 0, len(sm.sessions))
	for cameraID, session := range sm.sessions {
		session.cancel()
		sessions = append(sessions, session)
		delete(sm.sessions, cameraID)
	}
	sm.mu.Unlock()

	for _, session := range sessions {
		<-session.done
	}
}
