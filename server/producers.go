package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log"
	"math/rand"
	"time"
)

// runProducer drives one stream session until its context is cancelled or a
// send fails, then drops the session mapping. A producer that terminates on
// its own performs an implicit stop without a disconnected event.
func (sm *StreamManager) runProducer(ctx context.Context, session *StreamSession) {
	defer close(session.done)
	defer sm.release(session)

	switch session.streamType {
	case StreamTypeMJPEG:
		sm.streamFrames(ctx, session)
	case StreamTypeHLS:
		sm.streamPlaylists(ctx, session)
	}
}

// streamFrames pushes simulated MJPEG frames at a fixed cadence. Each frame
// carries the camera id, wall-clock timestamp and frame counter stamped into
// the encoded image.
func (sm *StreamManager) streamFrames(ctx context.Context, session *StreamSession) {
	ticker := time.NewTicker(sm.frameInterval)
	defer ticker.Stop()

	var frameCount int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := encodeFrame(session.cameraID, time.Now(), frameCount)
			if err != nil {
				log.Printf("Frame encode error for camera %s: %v", session.cameraID, err)
				return
			}
			msg := streamDataMessage(session.cameraID, StreamTypeMJPEG, base64.StdEncoding.EncodeToString(frame))
			if err := sm.registry.Send(session.clientID, msg); err != nil {
				log.Printf("MJPEG stream for camera %s stopping: %v", session.cameraID, err)
				return
			}
			frameCount++
		}
	}
}

// streamPlaylists pushes a fresh playlist reference with an incrementing
// sequence number once per segment interval.
func (sm *StreamManager) streamPlaylists(ctx context.Context, session *StreamSession) {
	ticker := time.NewTicker(sm.playlistInterval)
	defer ticker.Stop()

	var sequence int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := streamDataMessage(session.cameraID, StreamTypeHLS, playlistPayload{
				PlaylistURL:     fmt.Sprintf("http://%s/hls/%s/playlist_%d.m3u8", sm.publicHost, session.cameraID, sequence),
				SegmentDuration: SegmentDuration,
			})
			if err := sm.registry.Send(session.clientID, msg); err != nil {
				log.Printf("HLS stream for camera %s stopping: %v", session.cameraID, err)
				return
			}
			sequence++
		}
	}
}

// encodeFrame synthesizes one JPEG test frame: a noise background with the
// overlay label burned into the top-left corner.
func encodeFrame(cameraID string, ts time.Time, frameCount int64) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))

	rnd := rand.New(rand.NewSource(frameCount))
	for i := range img.Pix {
		img.Pix[i] = byte(rnd.Intn(256))
	}

	label := fmt.Sprintf("Camera %s %s Frame: %d", cameraID, ts.Format("2006-01-02 15:04:05"), frameCount)
	stampLabel(img, 10, 30, label)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 70}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stampLabel renders each byte of the label as a vertical bit column of 2x2
// blocks, a minimal overlay that survives without a font dependency.
func stampLabel(img *image.RGBA, x, y int, label string) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	for i := 0; i < len(label); i++ {
		ch := label[i]
		for bit := 0; bit < 8; bit++ {
			c := black
			if ch>>uint(bit)&1 == 1 {
				c = white
			}
			for dx := 0; dx < 2; dx++ {
				for dy := 0; dy < 2; dy++ {
					px, py := x+i*3+dx, y+bit*2+dy
					if px < FrameWidth && py < FrameHeight {
						img.SetRGBA(px, py, c)
					}
				}
			}
		}
	}
}
