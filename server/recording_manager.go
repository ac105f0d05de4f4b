package main

import (
	"fmt"
	"log"
	"time"
)

// NewRecordingManager creates a recording lifecycle controller
func NewRecordingManager(registry *ConnectionManager) *RecordingManager {
	return &RecordingManager{
		sessions: make(map[string]*RecordingSession),
		registry: registry,
	}
}

// generateRecordingID keeps the readable camera+timestamp shape and adds a
// random suffix so two recordings started within the same second cannot
// collide.
func generateRecordingID(cameraID string, started time.Time) string {
	return fmt.Sprintf("rec_%s_%s_%s", cameraID, started.Format("20060102_150405"), shortID())
}

func recordingFilePath(recordingID string) string {
	return "/recordings/" + recordingID + ".mp4"
}

// Start creates a recording session owned by clientID, confirms it to the
// client, and schedules its auto-expiry. Multiple recordings may run
// concurrently on the same camera for different clients.
func (rm *RecordingManager) Start(clientID, cameraID string, duration time.Duration) string {
	started := time.Now()
	session := &RecordingSession{
		id:       generateRecordingID(cameraID, started),
		cameraID: cameraID,
		clientID: clientID,
		started:  started,
		duration: duration,
	}

	rm.mu.Lock()
	// Insertion order drives stop_recording's first-match lookup. The start
	// confirmation goes out under the lock so an immediate expiry cannot
	// overtake it.
	rm.sessions[session.id] = session
	rm.order = append(rm.order, session.id)
	session.timer = time.AfterFunc(duration, func() { rm.expire(session.id) })
	rm.registry.Send(clientID, recordingStatusMessage(cameraID, true, session.id, ""))
	rm.mu.Unlock()

	log.Printf("Started recording %s on camera %s for client %s (%s)", session.id, cameraID, clientID, duration)
	return session.id
}

// expire fires when a recording's duration elapses. A session already
// removed by an explicit stop makes this a no-op.
func (rm *RecordingManager) expire(recordingID string) {
	rm.mu.Lock()
	session, ok := rm.sessions[recordingID]
	if ok {
		rm.remove(recordingID)
	}
	rm.mu.Unlock()

	if !ok {
		return
	}
	rm.registry.Send(session.clientID, recordingStatusMessage(session.cameraID, false, session.id, recordingFilePath(session.id)))
	log.Printf("Recording %s on camera %s expired after %s", session.id, session.cameraID, session.duration)
}

// Stop removes the oldest recording on cameraID owned by clientID, if any.
// The timer is cancelled in the same critical section as the removal so a
// stopped recording can never also expire.
func (rm *RecordingManager) Stop(clientID, cameraID string) {
	rm.mu.Lock()
	var target *RecordingSession
	for _, id := range rm.order {
		s := rm.sessions[id]
		if s.cameraID == cameraID && s.clientID == clientID {
			target = s
			break
		}
	}
	if target != nil {
		target.timer.Stop()
		rm.remove(target.id)
	}
	rm.mu.Unlock()

	if target == nil {
		return
	}
	rm.registry.Send(clientID, recordingStatusMessage(cameraID, false, target.id, recordingFilePath(target.id)))
	log.Printf("Stopped recording %s on camera %s", target.id, cameraID)
}

// remove deletes a session from the map and the order slice. Caller holds
// rm.mu.
func (rm *RecordingManager) remove(recordingID string) {
	delete(rm.sessions, recordingID)
	for i, id := range rm.order {
		if id == recordingID {
			rm.order = append(rm.order[:i], rm.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of active recordings for health reporting
func (rm *RecordingManager) Count() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.sessions)
}

// Shutdown cancels every expiry timer and drops all sessions
func (rm *RecordingManager) Shutdown() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for id, session := range rm.sessions {
		session.timer.Stop()
		delete(rm.sessions, id)
	}
	rm.order = nil
}
