package domain

import "time"

// PlaybackEvent records a clip being applied to the scene.
type PlaybackEvent struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	ClipName   string    `json:"clip_name"`
	Duration   float64   `json:"duration"`
	TrackCount int       `json:"track_count"`
	AppliedAt  time.Time `json:"applied_at"`
}
