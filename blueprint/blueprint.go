// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package blueprint converts circuits to and from Scrap Mechanic blueprint
// files.
//
// Export lays the circuit out on a small grid of logic blocks welded to
// plastic rows so that it can be spawned in game. Import reads the logic
// gates, timers and input devices of a blueprint and wires them into a
// circuit, dropping everything else.
//
package blueprint

// Version is the blueprint format version written by Export.
const Version = 4

// shape identifiers of the game parts we care about
const (
	PlasticBlockID = "628b2d61-5ceb-43e9-8334-a4135566df7a"
	LogicGateID    = "9f0f56e8-2c31-4d83-996c-d00a9b296c3f"
	TimerID        = "8f7fd0e7-c46e-4944-a414-7ce2437bb30f"
	ButtonID       = "1e8d93a4-506b-470d-9ada-9c0a321e2db5"
	SwitchID       = "7cf717d7-d167-4f2d-a6e7-6b2c70aa3986"
)

// sensors
var sensorIDs = []string{
	"1d4793af-cb66-4628-804a-9d7404712643",
	"cf46678b-c947-4267-ba85-f66930f5faa4",
	"90fc3603-3544-4254-97ef-ea6723510961",
	"de018bc6-1db5-492c-bfec-045e63f9d64b",
	"20dcd41c-0a11-4668-9b00-97f278ce21af",
}

const (
	plasticColor = "046307"
	logicColor   = "DF7F01"
	inputColor   = "ffffff"
)

// game ticks per second
const ticksPerSecond = 40

// File is a blueprint file.
type File struct {
	Bodies  []Body `json:"bodies"`
	Version int    `json:"version"`
}

// Body is a group of welded parts.
type Body struct {
	Childs []Child `json:"childs"`
}

// Vec is a position or size in block units.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Child is a single part of a body. Only building blocks have Bounds and
// only interactive parts have a Controller.
//
type Child struct {
	Bounds     *Vec        `json:"bounds,omitempty"`
	Color      string      `json:"color"`
	Controller *Controller `json:"controller,omitempty"`
	Pos        Vec         `json:"pos"`
	ShapeID    string      `json:"shapeId"`
	XAxis      int         `json:"xaxis"`
	ZAxis      int         `json:"zaxis"`
}

// ControllerRef references a controller by id.
type ControllerRef struct {
	ID int `json:"id"`
}

// Controller holds the wiring of an interactive part: Controllers lists the
// parts it drives.
//
type Controller struct {
	Active      *bool           `json:"active,omitempty"`
	Controllers []ControllerRef `json:"controllers"`
	ID          int             `json:"id"`
	Joints      []ControllerRef `json:"joints"`
	Mode        *int            `json:"mode,omitempty"`
	Seconds     *int            `json:"seconds,omitempty"`
	Ticks       *int            `json:"ticks,omitempty"`
}

func intp(i int) *int    { return &i }
func boolp(b bool) *bool { return &b }

func isInputShape(id string) bool {
	if id == ButtonID || id == SwitchID {
		return true
	}
	for _, s := range sensorIDs {
		if id == s {
			return true
		}
	}
	return false
}
