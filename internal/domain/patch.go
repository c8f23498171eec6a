package domain

import (
	"slices"
	"strings"
	"time"
)

// EventPatch is a partial update. A field is applied only when it is present
// and non-empty: nil pointers, blank strings and empty lists leave the stored
// value unchanged.
type EventPatch struct {
	Title       *string
	Type        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	StartTime   *string
	EndTime     *string
	Organizer   *string
	Faculty     []string
	ChiefGuest  []string
	Poster      *string
	Images      []string
	Form        *string
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func zeroToNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}

func compactList(l []string) []string {
	out := slices.DeleteFunc(slices.Clone(l), func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// Compact returns a copy with every empty field cleared, so stores only need
// to test for nil.
func (p EventPatch) Compact() EventPatch {
	return EventPatch{
		Title:       blankToNil(p.Title),
		Type:        blankToNil(p.Type),
		Description: blankToNil(p.Description),
		StartDate:   zeroToNil(p.StartDate),
		EndDate:     zeroToNil(p.EndDate),
		StartTime:   blankToNil(p.StartTime),
		EndTime:     blankToNil(p.EndTime),
		Organizer:   blankToNil(p.Organizer),
		Faculty:     compactList(p.Faculty),
		ChiefGuest:  compactList(p.ChiefGuest),
		Poster:      blankToNil(p.Poster),
		Images:      compactList(p.Images),
		Form:        blankToNil(p.Form),
	}
}

// IsEmpty reports whether applying the patch would change nothing.
func (p EventPatch) IsEmpty() bool {
	c := p.Compact()
	return c.Title == nil && c.Type == nil && c.Description == nil &&
		c.StartDate == nil && c.EndDate == nil && c.StartTime == nil &&
		c.EndTime == nil && c.Organizer == nil && c.Faculty == nil &&
		c.ChiefGuest == nil && c.Poster == nil && c.Images == nil && c.Form == nil
}

// Apply merges the non-empty fields of p into e.
func (p EventPatch) Apply(e *Event) {
	c := p.Compact()
	setString(&e.Title, c.Title)
	setString(&e.Type, c.Type)
	setString(&e.Description, c.Description)
	if c.StartDate != nil {
		e.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		e.EndDate = *c.EndDate
	}
	setString(&e.StartTime, c.StartTime)
	setString(&e.EndTime, c.EndTime)
	setString(&e.Organizer, c.Organizer)
	if c.Faculty != nil {
		e.Faculty = c.Faculty
	}
	if c.ChiefGuest != nil {
		e.ChiefGuest = c.ChiefGuest
	}
	setString(&e.Poster, c.Poster)
	if c.Images != nil {
		e.Images = c.Images
	}
	setString(&e.Form, c.Form)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
