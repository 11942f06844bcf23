package session

import (
	"github.com/lucasb-eyer/go-colorful"
)

// RainbowStep is the hue advance per frame, as a fraction of a full turn.
const RainbowStep = 0.002

// Visuals are the display toggles and colors shared by every renderer.
type Visuals struct {
	ShowCircles   bool
	ShowArms      bool
	ShowTrail     bool
	ShowReference bool
	Rainbow       bool

	Ink        colorful.Color
	Background colorful.Color
	Stroke     float64

	hue float64
}

func DefaultVisuals() Visuals {
	return Visuals{
		ShowCircles: true,
		ShowArms:    true,
		ShowTrail:   true,
		Ink:         colorful.Color{R: 0, G: 1, B: 1},
		Background:  colorful.Color{R: 0.05, G: 0.05, B: 0.1},
		Stroke:      2,
	}
}

// advance moves the rainbow hue one frame.
func (v *Visuals) advance() {
	if !v.Rainbow {
		return
	}
	v.hue += RainbowStep
	if v.hue > 1 {
		v.hue -= 1
	}
	v.Ink = colorful.Hsv(v.hue*360, 1, 1)
}

// ghostOnly shows just the reference outline, as after a load or reset.
func (v *Visuals) ghostOnly() {
	v.ShowReference = true
	v.ShowCircles = false
	v.ShowArms = false
	v.ShowTrail = false
}

// showAll is the recording look: everything but the reference.
func (v *Visuals) showAll() {
	v.ShowReference = false
	v.ShowCircles = true
	v.ShowArms = true
	v.ShowTrail = true
}

// SetInk parses a hex color such as "#00ffff".
func (v *Visuals) SetInk(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return err
	}
	v.Ink = c
	return nil
}

func (v *Visuals) Hue() float64 { return v.hue }
