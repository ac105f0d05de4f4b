package main

import (
	"encoding/json"
	"time"
)

// Envelope is the wire shape shared by inbound and outbound messages
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Outbound is an envelope whose payload is still a Go value
type Outbound struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Inbound command payloads

type startStreamRequest struct {
	CameraID   string `json:"camera_id"`
	StreamType string `json:"stream_type"`
}

type stopStreamRequest struct {
	CameraID string `json:"camera_id"`
}

type startRecordingRequest struct {
	CameraID string   `json:"camera_id"`
	Duration *float64 `json:"duration"` // seconds; nil means default
}

type stopRecordingRequest struct {
	CameraID string `json:"camera_id"`
}

type snapshotRequest struct {
	CameraID string `json:"camera_id"`
}

type offerRequest struct {
	CameraID string `json:"camera_id"`
}

// Outbound payloads

type streamDataPayload struct {
	CameraID   string      `json:"camera_id"`
	StreamType string      `json:"stream_type"`
	Data       interface{} `json:"data"`
}

type playlistPayload struct {
	PlaylistURL     string  `json:"playlist_url"`
	SegmentDuration float64 `json:"segment_duration"`
}

type webrtcOfferPayload struct {
	Type  string          `json:"type"`
	Offer webrtcOfferBody `json:"offer"`
}

type webrtcOfferBody struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

type streamHealthPayload struct {
	CameraID string       `json:"camera_id"`
	Health   streamHealth `json:"health"`
}

type streamHealth struct {
	Status     string `json:"status"`
	LastUpdate string `json:"lastUpdate"`
}

type recordingStatusPayload struct {
	CameraID    string `json:"camera_id"`
	IsRecording bool   `json:"is_recording"`
	RecordingID string `json:"recording_id"`
	FilePath    string `json:"file_path,omitempty"`
}

type snapshotTakenPayload struct {
	CameraID   string `json:"camera_id"`
	SnapshotID string `json:"snapshot_id"`
	FilePath   string `json:"file_path"`
	Timestamp  string `json:"timestamp"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Outbound constructors

func cameraListMessage(cameras []Camera) Outbound {
	return Outbound{Type: "camera_list", Data: cameras}
}

func streamHealthMessage(cameraID, status string) Outbound {
	return Outbound{Type: "stream_health", Data: streamHealthPayload{
		CameraID: cameraID,
		Health: streamHealth{
			Status:     status,
			LastUpdate: time.Now().Format(time.RFC3339),
		},
	}}
}

func streamDataMessage(cameraID, streamType string, data interface{}) Outbound {
	return Outbound{Type: "stream_data", Data: streamDataPayload{
		CameraID:   cameraID,
		StreamType: streamType,
		Data:       data,
	}}
}

func webrtcOfferMessage(cameraID string) Outbound {
	return streamDataMessage(cameraID, StreamTypeWebRTC, webrtcOfferPayload{
		Type:  "offer",
		Offer: webrtcOfferBody{Type: "offer", SDP: MockSDP},
	})
}

func recordingStatusMessage(cameraID string, recording bool, recordingID, filePath string) Outbound {
	return Outbound{Type: "recording_status", Data: recordingStatusPayload{
		CameraID:    cameraID,
		IsRecording: recording,
		RecordingID: recordingID,
		FilePath:    filePath,
	}}
}

func snapshotTakenMessage(cameraID, snapshotID string) Outbound {
	return Outbound{Type: "snapshot_taken", Data: snapshotTakenPayload{
		CameraID:   cameraID,
		SnapshotID: snapshotID,
		FilePath:   "/snapshots/" + snapshotID + ".jpg",
		Timestamp:  time.Now().Format(time.RFC3339),
	}}
}

func errorMessage(message string) Outbound {
	return Outbound{Type: "error", Data: errorPayload{Message: message}}
}
