// Package input turns SDL2 events into per-frame input state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	WheelY float32
}

// Input tracks events and held keys/buttons across frames.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool

	mouseX, mouseY int
	dragX, dragY   int
	wheel          float32
	quit           bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events and applies them.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.BeginFrame()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := convert(event); ok {
			i.Apply(e)
		}
	}
	return i.quit
}

func convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		t := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			t = EventKeyDown
		}
		return Event{Type: t, Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}, true

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y)}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, WheelY: float32(e.Y)}, true
	}
	return Event{}, false
}

// BeginFrame clears per-frame data. Held keys and buttons persist.
func (i *Input) BeginFrame() {
	i.events = i.events[:0]
	i.wheel = 0
}

// Apply records one event.
func (i *Input) Apply(e Event) {
	i.events = append(i.events, e)

	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseMove:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	case EventMouseDown:
		i.buttons[e.Button] = true
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
		i.dragX, i.dragY = e.MouseX, e.MouseY
	case EventMouseUp:
		delete(i.buttons, e.Button)
	case EventMouseWheel:
		i.wheel += e.WheelY
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down this frame, ignoring
// auto-repeat.
func (i *Input) IsKeyPressed(key sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether key is currently held.
func (i *Input) IsKeyDown(key sdl.Scancode) bool {
	return i.held[key]
}

// IsButtonDown reports whether a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// DragOffset returns the cursor offset from where the last button press
// happened.
func (i *Input) DragOffset() (dx, dy float32) {
	return float32(i.mouseX - i.dragX), float32(i.mouseY - i.dragY)
}

// Wheel returns the accumulated scroll this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// QuitRequested reports whether a quit event has been seen.
func (i *Input) QuitRequested() bool {
	return i.quit
}
