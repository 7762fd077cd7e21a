package domain

import (
	"bytes"
	"encoding/json"
)

// TCPPathDisplayName is the reserved scene name of the tool path overlay.
const TCPPathDisplayName = "tesseract_tcp_trajectory_display"

// TCPPoint is one Cartesian sample of a tool-center-point path.
type TCPPoint struct {
	Position Vec3 `json:"position"`
}

// TCPTrajectory is the JSON document describing a tool path.
type TCPTrajectory struct {
	Points []TCPPoint `json:"tcp_trajectory"`
}

// TCPPath is the tool path carried by a command. It decodes from a bare point
// array or from a whole {"tcp_trajectory": [...]} document.
type TCPPath []TCPPoint

func (p *TCPPath) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var doc TCPTrajectory
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*p = doc.Points
		return nil
	}
	var points []TCPPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	*p = points
	return nil
}

// Polyline is a thick line strip rendered in world space.
type Polyline struct {
	Name      string    `json:"name"`
	Positions []float64 `json:"positions"`
	Color     uint32    `json:"color"`
	LineWidth float64   `json:"line_width"`
}

// FlattenPoints lays out points as x0,y0,z0,x1,y1,z1,...
func FlattenPoints(points []TCPPoint) []float64 {
	out := make([]float64, 0, len(points)*3)
	for _, p := range points {
		out = append(out, p.Position[0], p.Position[1], p.Position[2])
	}
	return out
}
