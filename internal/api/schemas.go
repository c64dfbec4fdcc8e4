// schemas.go - request payloads, default filling and validation
//
// The wire types mirror the domain model but keep optional fields as
// pointers so an omitted field can be told apart from a zero value and
// given its documented default before the engine runs.
package api

import (
	"github.com/mazenwkamel/StackTics/internal/model"
)

// BedSchema is the container part of an optimize request.
type BedSchema struct {
	Length       float64  `json:"length"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	Margin       *float64 `json:"margin,omitempty"`        // default 0
	CornerRadius *float64 `json:"corner_radius,omitempty"` // default 0
}

// BoxSchema is one box of an optimize request.
type BoxSchema struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Length           float64                `json:"length"`
	Width            float64                `json:"width"`
	Height           float64                `json:"height"`
	Weight           float64                `json:"weight"`
	Fragility        *model.Fragility       `json:"fragility,omitempty"`        // default "normal"
	AccessFrequency  *model.AccessFrequency `json:"access_frequency,omitempty"` // default "sometimes"
	Priority         *model.Priority        `json:"priority,omitempty"`         // default "optional"
	CanRotateX       *bool                  `json:"can_rotate_x,omitempty"`     // default true
	CanRotateY       *bool                  `json:"can_rotate_y,omitempty"`     // default true
	CanRotateZ       *bool                  `json:"can_rotate_z,omitempty"`     // default true
	MaxSupportedLoad *float64               `json:"max_supported_load,omitempty"`
}

// SettingsSchema is the settings part of an optimize request.
type SettingsSchema struct {
	Strategy                *model.Strategy `json:"strategy,omitempty"`                 // default "maximize_volume"
	AccessibilityPreference *float64        `json:"accessibility_preference,omitempty"` // default 0.5
	Padding                 *float64        `json:"padding,omitempty"`                  // default 1
	Margin                  *float64        `json:"margin,omitempty"`                   // default 0
}

// OptimizeRequest is the payload of POST /optimize.
type OptimizeRequest struct {
	Bed      BedSchema       `json:"bed"`
	Boxes    []BoxSchema     `json:"boxes"`
	Settings *SettingsSchema `json:"settings,omitempty"`
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func orDefaultBool(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

// ToBed converts the schema to the domain type, filling defaults.
func (s BedSchema) ToBed() model.Bed {
	return model.Bed{
		Length:       s.Length,
		Width:        s.Width,
		Height:       s.Height,
		Margin:       orDefault(s.Margin, 0),
		CornerRadius: orDefault(s.CornerRadius, 0),
	}
}

// ToBox converts the schema to the domain type, filling defaults.
func (s BoxSchema) ToBox() model.Box {
	b := model.Box{
		ID:               s.ID,
		Name:             s.Name,
		Length:           s.Length,
		Width:            s.Width,
		Height:           s.Height,
		Weight:           s.Weight,
		Fragility:        model.FragilityNormal,
		AccessFrequency:  model.AccessSometimes,
		Priority:         model.PriorityOptional,
		CanRotateX:       orDefaultBool(s.CanRotateX, true),
		CanRotateY:       orDefaultBool(s.CanRotateY, true),
		CanRotateZ:       orDefaultBool(s.CanRotateZ, true),
		MaxSupportedLoad: s.MaxSupportedLoad,
	}
	if s.Fragility != nil {
		b.Fragility = *s.Fragility
	}
	if s.AccessFrequency != nil {
		b.AccessFrequency = *s.AccessFrequency
	}
	if s.Priority != nil {
		b.Priority = *s.Priority
	}
	return b
}

// ToSettings converts the schema to the domain type, filling defaults. A
// nil receiver yields the full default settings.
func (s *SettingsSchema) ToSettings() model.Settings {
	out := model.DefaultSettings()
	if s == nil {
		return out
	}
	if s.Strategy != nil {
		out.Strategy = *s.Strategy
	}
	if s.AccessibilityPreference != nil {
		out.AccessibilityPreference = *s.AccessibilityPreference
	}
	if s.Padding != nil {
		out.Padding = *s.Padding
	}
	if s.Margin != nil {
		out.Margin = *s.Margin
	}
	return out
}

// Validate rejects malformed requests before the engine runs. maxBoxes
// caps the number of boxes per request (0 = unlimited).
func (r OptimizeRequest) Validate(maxBoxes int) *APIError {
	if r.Bed.Length <= 0 || r.Bed.Width <= 0 || r.Bed.Height <= 0 {
		return NewValidationError("bed dimensions must be positive")
	}
	margin := orDefault(r.Bed.Margin, 0)
	if margin < 0 {
		return NewValidationError("bed margin must not be negative")
	}

	settings := r.Settings.ToSettings()
	if settings.Padding < 0 || settings.Margin < 0 {
		return NewValidationError("padding and margin must not be negative")
	}
	if settings.AccessibilityPreference < 0 || settings.AccessibilityPreference > 1 {
		return NewValidationError("accessibility_preference must be between 0 and 1")
	}
	if !settings.Strategy.Valid() {
		return NewValidationError("unknown strategy %q", settings.Strategy)
	}
	total := margin + settings.Margin
	if r.Bed.Length-2*total <= 0 || r.Bed.Width-2*total <= 0 {
		return NewValidationError("margins leave no usable space in the bed")
	}

	if maxBoxes > 0 && len(r.Boxes) > maxBoxes {
		return NewValidationError("too many boxes: %d exceeds the limit of %d", len(r.Boxes), maxBoxes)
	}

	seen := make(map[string]bool, len(r.Boxes))
	for i, b := range r.Boxes {
		if b.ID == "" {
			return NewValidationError("box at index %d has no id", i)
		}
		if seen[b.ID] {
			return NewValidationError("duplicate box id %q", b.ID)
		}
		seen[b.ID] = true
		if b.Name == "" {
			return NewValidationError("box %q has no name", b.ID)
		}
		if b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
			return NewValidationError("box %q dimensions must be positive", b.ID)
		}
		if b.Weight < 0 {
			return NewValidationError("box %q weight must not be negative", b.ID)
		}
		if b.MaxSupportedLoad != nil && *b.MaxSupportedLoad < 0 {
			return NewValidationError("box %q max_supported_load must not be negative", b.ID)
		}
		if b.Fragility != nil && !b.Fragility.Valid() {
			return NewValidationError("box %q has unknown fragility %q", b.ID, *b.Fragility)
		}
		if b.AccessFrequency != nil && !b.AccessFrequency.Valid() {
			return NewValidationError("box %q has unknown access_frequency %q", b.ID, *b.AccessFrequency)
		}
		if b.Priority != nil && !b.Priority.Valid() {
			return NewValidationError("box %q has unknown priority %q", b.ID, *b.Priority)
		}
	}
	return nil
}

// ToBoxes converts all box schemas to domain boxes.
func (r OptimizeRequest) ToBoxes() []model.Box {
	boxes := make([]model.Box, len(r.Boxes))
	for i, b := range r.Boxes {
		boxes[i] = b.ToBox()
	}
	return boxes
}
