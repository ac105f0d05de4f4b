package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// NewGateway builds the registry, lifecycle managers and command dispatcher
func NewGateway(cfg *Config, cameras CameraDirectory) *Gateway {
	registry := NewConnectionManager()
	return &Gateway{
		registry:   registry,
		cameras:    cameras,
		streams:    NewStreamManager(registry, cameras, cfg.PublicHost),
		recordings: NewRecordingManager(registry),
	}
}

// decodePayload fills a command payload, treating an absent data object as
// empty the way the reference clients expect.
func decodePayload(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// dispatch decodes one inbound command and applies it. Malformed and
// unrecognized messages are logged and dropped without a reply; clients
// cannot rely on a response for unknown command types.
func (g *Gateway) dispatch(clientID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("Malformed message from %s: %v", clientID, err)
		return
	}

	switch env.Type {
	case "get_cameras":
		g.registry.Send(clientID, cameraListMessage(g.cameras.List()))

	case "start_stream":
		var req startStreamRequest
		if err := decodePayload(env.Data, &req); err != nil {
			log.Printf("Malformed start_stream from %s: %v", clientID, err)
			return
		}
		if req.StreamType == "" {
			req.StreamType = DefaultStreamType
		}
		if err := g.streams.Start(clientID, req.CameraID, req.StreamType); err != nil {
			g.sendCameraError(clientID, req.CameraID, err)
		}

	case "stop_stream":
		var req stopStreamRequest
		if err := decodePayload(env.Data, &req); err != nil {
			log.Printf("Malformed stop_stream from %s: %v", clientID, err)
			return
		}
		g.streams.Stop(req.CameraID)

	case "start_recording":
		var req startRecordingRequest
		if err := decodePayload(env.Data, &req); err != nil {
			log.Printf("Malformed start_recording from %s: %v", clientID, err)
			return
		}
		duration := DefaultRecordingDuration
		if req.Duration != nil {
			duration = time.Duration(*req.Duration * float64(time.Second))
			if duration < 0 {
				duration = 0
			}
		}
		g.recordings.Start(clientID, req.CameraID, duration)

	case "stop_recording":
		var req stopRecordingRequest
		if err := decodePayload(env.Data, &req); err != nil {
			log.Printf("Malformed stop_recording from %s: %v", clientID, err)
			return
		}
		g.recordings.Stop(clientID, req.CameraID)

	case "take_snapshot":
		var req snapshotRequest
		if err := decodePayload(env.Data, &req); err != nil {
			log.Printf("Malformed take_snapshot from %s: %v", clientID, err)
			return
		}
		snapshotID := fmt.Sprintf("snap_%s_%s_%s", req.CameraID, time.Now().Format("20060102_150405"), shortID())
		g.registry.Send(clientID, snapshotTakenMessage(req.CameraID, snapshotID))

	case "webrtc_answer":
		log.Printf("Received WebRTC answer from %s", clientID)

	case "webrtc_ice_candidate":
		log.Printf("Received ICE candidate from %s", clientID)

	case "webrtc_offer_request":
		var req offerRequest
		if err := decodePayload(env.Data, &req); err != nil {
			log.Printf("Malformed webrtc_offer_request from %s: %v", clientID, err)
			return
		}
		g.registry.Send(clientID, webrtcOfferMessage(req.CameraID))

	default:
		log.Printf("Unknown message type from %s: %q", clientID, env.Type)
	}
}

// sendCameraError maps lifecycle errors to the client-facing error message
func (g *Gateway) sendCameraError(clientID, cameraID string, err error) {
	var message string
	switch {
	case errors.Is(err, ErrCameraNotFound):
		message = fmt.Sprintf("Camera %s not found", cameraID)
	case errors.Is(err, ErrCameraOffline):
		message = fmt.Sprintf("Camera %s is offline", cameraID)
	default:
		message = err.Error()
	}
	g.registry.Send(clientID, errorMessage(message))
}

// disconnect tears down everything owned by a departing client: the
// registry entry first, then its stream sessions. Recordings stay alive
// until they expire or are stopped.
func (g *Gateway) disconnect(clientID string) {
	g.registry.Unregister(clientID)
	g.streams.CleanupForClient(clientID)
}

// Shutdown cancels all producers and recording timers and drops all clients
func (g *Gateway) Shutdown() {
	g.streams.Shutdown()
	g.recordings.Shutdown()
	g.registry.CloseAll()
}
