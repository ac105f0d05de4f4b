package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRecordingManager(t *testing.T) (*ConnectionManager, *RecordingManager) {
	t.Helper()
	registry := NewConnectionManager()
	rm := NewRecordingManager(registry)
	t.Cleanup(rm.Shutdown)
	return registry, rm
}

func TestRecordingStartConfirms(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	c := newTestClient()
	registry.Register(c)

	id := rm.Start(c.id, "1", time.Hour)
	require.True(t, strings.HasPrefix(id, "rec_1_"))
	require.Equal(t, 1, rm.Count())

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "recording_status", env.Type)
	status := decodeData[recordingStatusPayload](t, env)
	require.Equal(t, "1", status.CameraID)
	require.True(t, status.IsRecording)
	require.Equal(t, id, status.RecordingID)
	require.Empty(t, status.FilePath)
}

func TestRecordingAutoExpiry(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	c := newTestClient()
	registry.Register(c)

	started := time.Now()
	duration := 50 * time.Millisecond
	id := rm.Start(c.id, "1", duration)

	env := recvMessage(t, c, time.Second)
	require.Equal(t, "recording_status", env.Type)

	env = recvMessage(t, c, time.Second)
	require.Equal(t, "recording_status", env.Type)
	status := decodeData[recordingStatusPayload](t, env)
	require.False(t, status.IsRecording)
	require.Equal(t, id, status.RecordingID)
	require.Equal(t, "/recordings/"+id+".mp4", status.FilePath)
	require.GreaterOrEqual(t, time.Since(started), duration)
	require.Equal(t, 0, rm.Count())

	// Exactly one expiry event.
	expectSilence(t, c, 150*time.Millisecond)
}

func TestManualStopSuppressesExpiry(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	c := newTestClient()
	registry.Register(c)

	id := rm.Start(c.id, "1", 400*time.Millisecond)
	env := recvMessage(t, c, time.Second)
	require.Equal(t, "recording_status", env.Type)

	rm.Stop(c.id, "1")
	env = recvMessage(t, c, time.Second)
	status := decodeData[recordingStatusPayload](t, env)
	require.False(t, status.IsRecording)
	require.Equal(t, id, status.RecordingID)
	require.Equal(t, 0, rm.Count())

	// Waiting past the original duration must produce nothing more.
	expectSilence(t, c, 600*time.Millisecond)
}

func TestStopWithoutMatchIsNoop(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	a := newTestClient()
	b := newTestClient()
	registry.Register(a)
	registry.Register(b)

	rm.Start(a.id, "1", time.Hour)
	recvMessage(t, a, time.Second)

	// Wrong camera, then wrong client: neither may touch A's recording.
	rm.Stop(a.id, "2")
	rm.Stop(b.id, "1")
	require.Equal(t, 1, rm.Count())
	expectSilence(t, a, 100*time.Millisecond)
	expectSilence(t, b, 100*time.Millisecond)
}

func TestConcurrentRecordingsOnSameCameraAreIndependent(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	a := newTestClient()
	b := newTestClient()
	registry.Register(a)
	registry.Register(b)

	idA := rm.Start(a.id, "1", time.Hour)
	idB := rm.Start(b.id, "1", time.Hour)
	require.NotEqual(t, idA, idB)
	require.Equal(t, 2, rm.Count())

	recvMessage(t, a, time.Second)
	recvMessage(t, b, time.Second)

	rm.Stop(a.id, "1")
	env := recvMessage(t, a, time.Second)
	status := decodeData[recordingStatusPayload](t, env)
	require.Equal(t, idA, status.RecordingID)
	require.Equal(t, 1, rm.Count())
	expectSilence(t, b, 100*time.Millisecond)
}

func TestStopMatchesOldestRecordingFirst(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	c := newTestClient()
	registry.Register(c)

	first := rm.Start(c.id, "1", time.Hour)
	second := rm.Start(c.id, "1", time.Hour)
	recvMessage(t, c, time.Second)
	recvMessage(t, c, time.Second)

	rm.Stop(c.id, "1")
	env := recvMessage(t, c, time.Second)
	status := decodeData[recordingStatusPayload](t, env)
	require.Equal(t, first, status.RecordingID)

	rm.Stop(c.id, "1")
	env = recvMessage(t, c, time.Second)
	status = decodeData[recordingStatusPayload](t, env)
	require.Equal(t, second, status.RecordingID)
	require.Equal(t, 0, rm.Count())
}

func TestRecordingIDsDoNotCollideWithinOneSecond(t *testing.T) {
	registry, rm := newTestRecordingManager(t)
	c := newTestClient()
	registry.Register(c)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := rm.Start(c.id, "1", time.Hour)
		require.False(t, seen[id], "duplicate recording id %s", id)
		seen[id] = true
	}
}
