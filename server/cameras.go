package main

// staticDirectory serves a fixed camera inventory. A production deployment
// would refresh this from a live registry; the set below matches the
// simulated NVR installation.
type staticDirectory struct {
	cameras []Camera
}

// NewCameraDirectory returns the simulated five-camera installation.
// Camera 4 is offline to exercise the unavailable path.
func NewCameraDirectory() CameraDirectory {
	return &staticDirectory{
		cameras: []Camera{
			{
				ID:         "1",
				Name:       "Front Door",
				IP:         "192.168.1.100",
				Port:       8080,
				Status:     CameraOnline,
				StreamURL:  "rtsp://192.168.1.100:554/stream1",
				Type:       "IP",
				Resolution: "1920x1080",
				FPS:        30,
				Location:   "Entrance",
			},
			{
				ID:         "2",
				Name:       "Back Yard",
				IP:         "192.168.1.101",
				Port:       8080,
				Status:     CameraOnline,
				StreamURL:  "rtsp://192.168.1.101:554/stream1",
				Type:       "IP",
				Resolution: "1920x1080",
				FPS:        25,
				Location:   "Garden",
			},
			{
				ID:         "3",
				Name:       "Living Room",
				IP:         "192.168.1.102",
				Port:       8080,
				Status:     CameraOnline,
				StreamURL:  "rtsp://192.168.1.102:554/stream1",
				Type:       "IP",
				Resolution: "1920x1080",
				FPS:        30,
				Location:   "Indoor",
			},
			{
				ID:         "4",
				Name:       "Garage",
				IP:         "192.168.1.103",
				Port:       8080,
				Status:     CameraOffline,
				StreamURL:  "rtsp://192.168.1.103:554/stream1",
				Type:       "IP",
				Resolution: "1920x1080",
				FPS:        30,
				Location:   "Garage",
			},
			{
				ID:         "5",
				Name:       "Parking Lot",
				IP:         "192.168.1.104",
				Port:       8080,
				Status:     CameraOnline,
				StreamURL:  "rtsp://192.168.1.104:554/stream1",
				Type:       "IP",
				Resolution: "1920x1080",
				FPS:        25,
				Location:   "Outdoor",
			},
		},
	}
}

func (d *staticDirectory) List() []Camera {
	out := make([]Camera, len(d.cameras))
	copy(out, d.cameras)
	return out
}

func (d *staticDirectory) Lookup(id string) (Camera, bool) {
	for _, cam := range d.cameras {
		if cam.ID == id {
			return cam, true
		}
	}
	return Camera{}, false
}
