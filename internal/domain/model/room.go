package model

import "math"

type WindowStatus string

const (
	WindowOpened WindowStatus = "OPENED"
	WindowClosed WindowStatus = "CLOSED"
)

// Toggle returns the opposite status.
func (s WindowStatus) Toggle() WindowStatus {
	if s == WindowOpened {
		return WindowClosed
	}
	return WindowOpened
}

// Room is the read-side entity returned by the API. Id is server-assigned and
// never reused; CurrentTemperature is server-owned.
type Room struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	CurrentTemperature *float64 `json:"currentTemperature"`
	TargetTemperature  *float64 `json:"targetTemperature"`
	Windows            []Window `json:"windows"`
}

// Window belongs to exactly one room. RoomID/RoomName are a weak reference
// used for re-querying, never for navigation.
type Window struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	RoomID   int64        `json:"roomId"`
	RoomName string       `json:"roomName"`
	Status   WindowStatus `json:"windowStatus"`
}

// Clone returns an independent copy. State holders replace whole values
// rather than mutating in place, so shared aliasing is never safe.
func (r Room) Clone() Room {
	room := r
	if r.CurrentTemperature != nil {
		v := *r.CurrentTemperature
		room.CurrentTemperature = &v
	}
	if r.TargetTemperature != nil {
		v := *r.TargetTemperature
		room.TargetTemperature = &v
	}
	room.Windows = make([]Window, len(r.Windows))
	copy(room.Windows, r.Windows)
	return room
}

// RoomCommand is the write-side projection accepted on create/update. The
// server computes id, so the command never carries one.
type RoomCommand struct {
	Name               string   `json:"name"`
	TargetTemperature  *float64 `json:"targetTemperature"`
	CurrentTemperature *float64 `json:"currentTemperature"`
}

type WindowCommand struct {
	Status WindowStatus `json:"windowStatus"`
}

// RoundTemperature rounds to one decimal place, the control granularity of
// the target-temperature slider.
func RoundTemperature(v float64) float64 {
	return math.Round(v*10) / 10
}

// TemperatureBounds is a valid setpoint range. Two screens historically
// disagree on the range, so it is carried as a value, not a constant.
type TemperatureBounds struct {
	Min float64
	Max float64
}

func (b TemperatureBounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

func (b TemperatureBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Float64 returns a pointer to v, for the optional temperature fields.
func Float64(v float64) *float64 {
	return &v
}
