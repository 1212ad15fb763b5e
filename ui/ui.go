// Package ui holds the clickable regions hit by tap gestures.
package ui

import (
	"github.com/aukilabs/pointerbox/models"
)

// Clickable is a region that can be tapped.
type Clickable interface {
	// Contains reports whether the world point lies inside the region.
	Contains(p models.Vector3f) bool

	// Press invokes the action bound to the region.
	Press()
}

// Button is a box shaped clickable region. Its hit volume is larger than the
// visible box to make taps easier to land.
type Button struct {
	Position models.Vector3f
	Label    string
	OnPress  func()

	// Half extents of the hit volume.
	MaxX float32
	MaxY float32
	MaxZ float32
}

const (
	buttonLength float32 = 2
	buttonHeight float32 = 0.5
	buttonWidth  float32 = 0.3
)

// NewButton creates a button centered at pos.
func NewButton(pos models.Vector3f, label string, onPress func()) *Button {
	return &Button{
		Position: pos,
		Label:    label,
		OnPress:  onPress,
		MaxX:     buttonLength/2 + 0.5,
		MaxY:     buttonHeight/2 + 0.7,
		MaxZ:     buttonWidth/2 + 1,
	}
}

func (b *Button) Contains(p models.Vector3f) bool {
	local := p.Sub(b.Position)
	return -b.MaxX < local.X && local.X < b.MaxX &&
		-b.MaxY < local.Y && local.Y < b.MaxY &&
		-b.MaxZ < local.Z && local.Z < b.MaxZ
}

func (b *Button) Press() {
	if b.OnPress != nil {
		b.OnPress()
	}
}

// Registry hit tests clickable regions in registration order.
type Registry struct {
	regions []Clickable
}

func (r *Registry) Register(c Clickable) {
	r.regions = append(r.regions, c)
}

func (r *Registry) Regions() []Clickable {
	return r.regions
}

// Tap presses the first region containing p. It returns the pressed region.
func (r *Registry) Tap(p models.Vector3f) (Clickable, bool) {
	for _, c := range r.regions {
		if c.Contains(p) {
			c.Press()
			return c, true
		}
	}
	return nil, false
}
