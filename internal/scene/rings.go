// Package scene lays out the hero's rotating rings: two tilted tori, skill
// labels spaced around the outer one and small glowing runners orbiting both.
// The browser only animates what Compose describes.
package scene

import "math"

const (
	OuterRadius = 3.1
	InnerRadius = 2.2

	labelHeight = 0.18
	bobHeight   = 0.15
	bobRate     = 1.4
)

type Vec3 [3]float64

type Camera struct {
	Position Vec3    `json:"position"`
	FOV      float64 `json:"fov"`
}

type Light struct {
	Kind      string  `json:"kind"` // ambient, directional, point
	Position  *Vec3   `json:"position,omitempty"`
	Intensity float64 `json:"intensity"`
	Color     string  `json:"color,omitempty"`
}

type Material struct {
	Color             string  `json:"color"`
	Emissive          string  `json:"emissive,omitempty"`
	EmissiveIntensity float64 `json:"emissive_intensity,omitempty"`
	Metalness         float64 `json:"metalness"`
	Roughness         float64 `json:"roughness"`
}

type Ring struct {
	Radius   float64  `json:"radius"`
	Tube     float64  `json:"tube"`
	Segments int      `json:"segments"`
	Tilt     float64  `json:"tilt"`
	SpinRate float64  `json:"spin_rate"` // rad/s around Y
	Material Material `json:"material"`
	Runners  []Runner `json:"runners"`
}

// Runner is a sphere travelling along a ring with a gentle vertical bob.
type Runner struct {
	Radius float64 `json:"radius"`
	Speed  float64 `json:"speed"`
	Size   float64 `json:"size"`
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// PositionAt returns the runner's position and Y rotation t seconds in.
func (r Runner) PositionAt(t float64) (Vec3, float64) {
	ts := t*r.Speed + r.Offset
	return Vec3{
		math.Cos(ts) * r.Radius,
		math.Sin(ts*bobRate) * bobHeight,
		math.Sin(ts) * r.Radius,
	}, -ts
}

type Label struct {
	Text     string  `json:"text"`
	Angle    float64 `json:"angle"`
	Position Vec3    `json:"position"`
}

type Disc struct {
	Radius   float64  `json:"radius"`
	Material Material `json:"material"`
}

type Scene struct {
	Camera Camera  `json:"camera"`
	Lights []Light `json:"lights"`
	Outer  Ring    `json:"outer"`
	Inner  Ring    `json:"inner"`
	Labels []Label `json:"labels"`
	Hub    Disc    `json:"hub"`
}

// Compose builds the scene with one label per entry of labels, evenly spaced
// around the outer ring in the given order.
func Compose(labels []string) Scene {
	s := Scene{
		Camera: Camera{Position: Vec3{3.8, 2.6, 5.2}, FOV: 55},
		Lights: []Light{
			{Kind: "ambient", Intensity: 0.62},
			{Kind: "directional", Position: &Vec3{5, 7, 6}, Intensity: 1.08},
			{Kind: "point", Position: &Vec3{-6, 3, -4}, Intensity: 0.25, Color: "#60a5fa"},
			{Kind: "point", Position: &Vec3{6, -2, 4}, Intensity: 0.2, Color: "#a78bfa"},
		},
		Outer: Ring{
			Radius:   OuterRadius,
			Tube:     0.05,
			Segments: 256,
			Tilt:     math.Pi / 2.2,
			SpinRate: 0.22,
			Material: Material{Color: "#38bdf8", Emissive: "#0ea5e9", EmissiveIntensity: 0.28, Metalness: 0.6, Roughness: 0.25},
			Runners:  runners(OuterRadius, 6, 0.09, outerSpeed, [2]string{"#a78bfa", "#38bdf8"}),
		},
		Inner: Ring{
			Radius:   InnerRadius,
			Tube:     0.04,
			Segments: 192,
			Tilt:     math.Pi / 2.2,
			SpinRate: -0.16,
			Material: Material{Color: "#a78bfa", Emissive: "#7c3aed", EmissiveIntensity: 0.22, Metalness: 0.6, Roughness: 0.28},
			Runners:  runners(InnerRadius, 4, 0.07, innerSpeed, [2]string{"#f472b6", "#22d3ee"}),
		},
		Hub: Disc{
			Radius:   0.7,
			Material: Material{Color: "#0b1220", Metalness: 0.5, Roughness: 0.42},
		},
		Labels: make([]Label, 0, len(labels)),
	}

	for i, text := range labels {
		angle := float64(i) / float64(len(labels)) * 2 * math.Pi
		s.Labels = append(s.Labels, Label{
			Text:  text,
			Angle: angle,
			Position: Vec3{
				math.Cos(angle) * OuterRadius,
				labelHeight,
				math.Sin(angle) * OuterRadius,
			},
		})
	}
	return s
}

func outerSpeed(i int) float64 { return 0.9 + float64(i%3)*0.08 }
func innerSpeed(i int) float64 { return 1.05 + float64(i%2)*0.1 }

// runners spaces n runners evenly; even indexes take colors[0], odd colors[1].
func runners(radius float64, n int, size float64, speed func(int) float64, colors [2]string) []Runner {
	out := make([]Runner, n)
	for i := range out {
		out[i] = Runner{
			Radius: radius,
			Speed:  speed(i),
			Size:   size,
			Offset: float64(i) / float64(n) * 2 * math.Pi,
			Color:  colors[i%2],
		}
	}
	return out
}
