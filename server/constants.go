package main

import "time"

// Server tuning constants
const (
	// FrameInterval is the cadence of simulated MJPEG frames (10 FPS)
	FrameInterval = 100 * time.Millisecond

	// PlaylistInterval is how often a new HLS playlist reference is pushed
	PlaylistInterval = 6 * time.Second

	// SegmentDuration is the nominal HLS segment duration in seconds
	SegmentDuration = 6.0

	// FrameWidth is the width of generated frames
	FrameWidth = 640

	// FrameHeight is the height of generated frames
	FrameHeight = 480

	// ClientBufferSize is the maximum number of outbound messages buffered per client
	ClientBufferSize = 64

	// DefaultRecordingDuration applies when a start_recording command omits duration
	DefaultRecordingDuration = 30 * time.Second

	// DefaultStreamType applies when a start_stream command omits stream_type
	DefaultStreamType = StreamTypeHLS

	// WebSocketPingInterval is how often to send ping messages to clients
	WebSocketPingInterval = 54 * time.Second

	// WebSocketReadDeadline is the deadline for reading WebSocket messages
	WebSocketReadDeadline = 60 * time.Second

	// WebSocketWriteDeadline is the deadline for writing WebSocket messages
	WebSocketWriteDeadline = 10 * time.Second

	// WebSocketReadLimit is the maximum message size for incoming WebSocket messages
	WebSocketReadLimit = 4096

	// GracefulShutdownTimeout is the time allowed for the HTTP server to drain
	GracefulShutdownTimeout = 5 * time.Second
)

// Stream types understood by start_stream
const (
	StreamTypeMJPEG  = "mjpeg"
	StreamTypeHLS    = "hls"
	StreamTypeWebRTC = "webrtc"
)

// Camera status values reported by the directory
const (
	CameraOnline  = "online"
	CameraOffline = "offline"
)

// MockSDP is the placeholder offer returned for WebRTC signaling requests.
// Real negotiation is out of scope; clients only need a well-formed envelope.
const MockSDP = "v=0\\r\\no=- 0 0 IN IP4 127.0.0.1\\r\\n..."
