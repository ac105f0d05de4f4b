package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) (*Gateway, *Client) {
	t.Helper()
	cfg := &Config{
		ServerAddress:   ":0",
		PublicHost:      "localhost:8091",
		ShutdownTimeout: time.Second,
	}
	g := NewGateway(cfg, NewCameraDirectory())
	g.streams.frameInterval = 20 * time.Millisecond
	g.streams.playlistInterval = 20 * time.Millisecond
	t.Cleanup(g.Shutdown)

	c := newTestClient()
	g.registry.Register(c)
	return g, c
}

func TestGetCameras(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"get_cameras"}`))

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "camera_list", env.Type)
	cameras := decodeData[[]Camera](t, env)
	require.Len(t, cameras, 5)
	require.Equal(t, "4", cameras[3].ID)
	require.Equal(t, CameraOffline, cameras[3].Status)
}

func TestStartStreamUnknownCameraError(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"start_stream","data":{"camera_id":"99","stream_type":"mjpeg"}}`))

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "error", env.Type)
	payload := decodeData[errorPayload](t, env)
	require.Equal(t, "Camera 99 not found", payload.Message)
	require.Equal(t, 0, g.streams.Count())
}

func TestStartStreamOfflineCameraError(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"start_stream","data":{"camera_id":"4","stream_type":"mjpeg"}}`))

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "error", env.Type)
	payload := decodeData[errorPayload](t, env)
	require.Equal(t, "Camera 4 is offline", payload.Message)
	require.Equal(t, 0, g.streams.Count())
}

func TestStartStreamDefaultsToHLS(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"start_stream","data":{"camera_id":"1"}}`))

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "stream_health", env.Type)

	g.streams.mu.Lock()
	session := g.streams.sessions["1"]
	g.streams.mu.Unlock()
	require.NotNil(t, session)
	require.Equal(t, StreamTypeHLS, session.streamType)
}

func TestUnknownCommandIsSilentlyDropped(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"reboot_everything","data":{}}`))
	expectSilence(t, c, 100*time.Millisecond)
}

func TestMalformedMessageIsSilentlyDropped(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":`))
	g.dispatch(c.id, []byte(`{"type":"start_stream","data":"not-an-object"}`))
	expectSilence(t, c, 100*time.Millisecond)
	require.Equal(t, 0, g.streams.Count())
}

func TestTakeSnapshot(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"take_snapshot","data":{"camera_id":"2"}}`))

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "snapshot_taken", env.Type)
	payload := decodeData[snapshotTakenPayload](t, env)
	require.Equal(t, "2", payload.CameraID)
	require.True(t, strings.HasPrefix(payload.SnapshotID, "snap_2_"))
	require.Equal(t, "/snapshots/"+payload.SnapshotID+".jpg", payload.FilePath)
	_, err := time.Parse(time.RFC3339, payload.Timestamp)
	require.NoError(t, err)
}

func TestStartRecordingDefaultDuration(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"start_recording","data":{"camera_id":"1"}}`))

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "recording_status", env.Type)
	status := decodeData[recordingStatusPayload](t, env)
	require.True(t, status.IsRecording)

	g.recordings.mu.Lock()
	require.Len(t, g.recordings.order, 1)
	session := g.recordings.sessions[g.recordings.order[0]]
	g.recordings.mu.Unlock()
	require.Equal(t, DefaultRecordingDuration, session.duration)
}

func TestStopRecordingRoundTrip(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"start_recording","data":{"camera_id":"1","duration":120}}`))
	env := recvMessage(t, c, time.Second)
	started := decodeData[recordingStatusPayload](t, env)

	g.dispatch(c.id, []byte(`{"type":"stop_recording","data":{"camera_id":"1"}}`))
	env = recvMessage(t, c, time.Second)
	stopped := decodeData[recordingStatusPayload](t, env)
	require.False(t, stopped.IsRecording)
	require.Equal(t, started.RecordingID, stopped.RecordingID)
	require.Equal(t, 0, g.recordings.Count())
}

func TestWebRTCSignalingCommands(t *testing.T) {
	g, c := newTestGateway(t)

	// Answer and ICE candidates are logged only.
	g.dispatch(c.id, []byte(`{"type":"webrtc_answer","data":{"sdp":"x"}}`))
	g.dispatch(c.id, []byte(`{"type":"webrtc_ice_candidate","data":{"candidate":"y"}}`))
	expectSilence(t, c, 100*time.Millisecond)

	g.dispatch(c.id, []byte(`{"type":"webrtc_offer_request","data":{"camera_id":"3"}}`))
	env := recvMessage(t, c, time.Second)
	require.Equal(t, "stream_data", env.Type)
	payload := decodeData[struct {
		CameraID   string             `json:"camera_id"`
		StreamType string             `json:"stream_type"`
		Data       webrtcOfferPayload `json:"data"`
	}](t, env)
	require.Equal(t, "3", payload.CameraID)
	require.Equal(t, StreamTypeWebRTC, payload.StreamType)
	require.Equal(t, MockSDP, payload.Data.Offer.SDP)
}

func TestDisconnectCleansStreamsButKeepsRecordings(t *testing.T) {
	g, c := newTestGateway(t)

	g.dispatch(c.id, []byte(`{"type":"start_stream","data":{"camera_id":"1","stream_type":"mjpeg"}}`))
	g.dispatch(c.id, []byte(`{"type":"start_recording","data":{"camera_id":"1","duration":3600}}`))
	require.Equal(t, 1, g.streams.Count())
	require.Equal(t, 1, g.recordings.Count())

	g.disconnect(c.id)

	require.Equal(t, 0, g.registry.Count())
	require.Equal(t, 0, g.streams.Count())
	require.Equal(t, 1, g.recordings.Count(), "recordings outlive the client connection")
}
