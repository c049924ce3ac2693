package models

import (
	"time"
)

// Sensor identifies a capture device kind.
type Sensor string

const (
	Camera     Sensor = "camera"
	Microphone Sensor = "microphone"
	// Both requests camera and microphone together.
	Both Sensor = "both"
)

// Expand returns the individual sensors covered by s.
func (s Sensor) Expand() []Sensor {
	if s == Both {
		return []Sensor{Camera, Microphone}
	}

	return []Sensor{s}
}

// PermissionStatus is the platform authorization state of a sensor.
type PermissionStatus string

const (
	Granted PermissionStatus = "granted"
	Denied  PermissionStatus = "denied"
	Prompt  PermissionStatus = "prompt"
)

// Valid reports whether p is one of the known statuses.
func (p PermissionStatus) Valid() bool {
	switch p {
	case Granted, Denied, Prompt:
		return true
	}

	return false
}

// PermissionState holds the status of each sensor.
type PermissionState struct {
	Camera     PermissionStatus `json:"camera"`
	Microphone PermissionStatus `json:"microphone"`
}

// For returns the status of the given sensor. Both is granted only when every
// sensor is granted.
func (p PermissionState) For(s Sensor) PermissionStatus {
	switch s {
	case Camera:
		return p.Camera
	case Microphone:
		return p.Microphone
	}

	if p.Camera == Granted && p.Microphone == Granted {
		return Granted
	}

	if p.Camera == Denied || p.Microphone == Denied {
		return Denied
	}

	return Prompt
}

// Pace is the speech rate reported by the voice analysis.
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

// VoiceAnalysis is the structured result of analysing a speech recording.
type VoiceAnalysis struct {
	Feedback string `json:"feedback"`
	Pace     Pace   `json:"pace"`
	Tremor   bool   `json:"tremor"`
	Fillers  int    `json:"fillers"`
}

// RecordKind distinguishes the entries kept in the history.
type RecordKind string

const (
	RecordPulse     RecordKind = "pulse"
	RecordBreathing RecordKind = "breathing"
	RecordVoice     RecordKind = "voice"
)

// Record is a single history entry.
type Record struct {
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Voice     *VoiceAnalysis `json:"voice,omitempty"`
	Kind      RecordKind     `json:"kind"`
	User      string         `json:"user"`
	BPM       int            `json:"bpm,omitempty"`
	Cycles    int            `json:"cycles,omitempty"`
	Completed bool           `json:"completed"`
}

// Duration returns how long the recorded activity lasted.
func (r *Record) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
