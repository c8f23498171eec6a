// Package domain holds the event aggregate and the rules that derive state
// from it: registration uniqueness, feedback membership, average rating and
// the upcoming/completed lifecycle.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Manish1808/Cybernauts/internal/apperr"
)

// Event is the aggregate root. Participants, winners and feedbacks are owned
// collections and only change through the methods below or a store that
// enforces the same rules.
type Event struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Type          string        `json:"type"`
	Description   string        `json:"description"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
	StartTime     string        `json:"startTime"`
	EndTime       string        `json:"endTime"`
	Organizer     string        `json:"organizer"`
	Faculty       []string      `json:"faculty"`
	ChiefGuest    []string      `json:"chiefGuest"`
	Poster        string        `json:"poster"`
	Images        []string      `json:"images"`
	Form          string        `json:"form"`
	Participants  []Participant `json:"participants"`
	Winners       []Winner      `json:"winners"`
	Feedbacks     []Feedback    `json:"feedbacks"`
	AverageRating float64       `json:"averageRating"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type Participant struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RollNo       string    `json:"rollNo"`
	Branch       string    `json:"branch"`
	Year         string    `json:"year"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type WinnerType string

const (
	WinnerTeam       WinnerType = "Team"
	WinnerIndividual WinnerType = "Individual"
)

type WinnerMember struct {
	Name        string `json:"name"`
	CollegeName string `json:"collegename"`
}

type Winner struct {
	Position   string          `json:"position"`
	PrizeMoney decimal.Decimal `json:"prizeMoney"`
	Type       WinnerType      `json:"type"`
	TeamSize   int             `json:"teamSize"`
	Members    []WinnerMember  `json:"members"`
}

type Feedback struct {
	Email       string    `json:"email"`
	Rating      float64   `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submittedAt"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r lies in [MinRating, MaxRating]. NaN is never valid.
func ValidRating(r float64) bool {
	return r >= MinRating && r <= MaxRating
}

// NormalizeEmail is the comparison key for participant and feedback emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the fields required to create an event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" || e.StartDate.IsZero() || e.EndDate.IsZero() ||
		strings.TrimSpace(e.Description) == "" {
		return apperr.InvalidInput("missing required fields: title, startDate, endDate and description are required")
	}
	return nil
}

func (e *Event) participantIndex(email string) int {
	key := NormalizeEmail(email)
	return slices.IndexFunc(e.Participants, func(p Participant) bool {
		return NormalizeEmail(p.Email) == key
	})
}

// IsParticipant reports whether email is registered, ignoring case and
// surrounding whitespace.
func (e *Event) IsParticipant(email string) bool {
	return e.participantIndex(email) >= 0
}

// HasFeedbackFrom reports whether email already submitted feedback.
func (e *Event) HasFeedbackFrom(email string) bool {
	key := NormalizeEmail(email)
	return slices.ContainsFunc(e.Feedbacks, func(f Feedback) bool {
		return NormalizeEmail(f.Email) == key
	})
}

// AddParticipant appends p unless its email is already registered.
func (e *Event) AddParticipant(p Participant) error {
	if e.IsParticipant(p.Email) {
		return ErrAlreadyRegistered
	}
	e.Participants = append(e.Participants, p)
	return nil
}

// RemoveParticipant drops the participant registered with email.
func (e *Event) RemoveParticipant(email string) (Participant, error) {
	i := e.participantIndex(email)
	if i < 0 {
		return Participant{}, ErrParticipantNotFound
	}
	p := e.Participants[i]
	e.Participants = slices.Delete(e.Participants, i, i+1)
	return p, nil
}

// AddFeedback appends f and recomputes the average rating. The sender must be
// a participant, may submit only once and must rate within [1,5].
func (e *Event) AddFeedback(f Feedback) error {
	if !e.IsParticipant(f.Email) {
		return ErrNotParticipant
	}
	if e.HasFeedbackFrom(f.Email) {
		return ErrFeedbackSubmitted
	}
	if !ValidRating(f.Rating) {
		return ErrRatingOutOfRange
	}
	e.Feedbacks = append(e.Feedbacks, f)
	e.AverageRating = AverageRating(e.Feedbacks)
	return nil
}

// AverageRating is the arithmetic mean of the ratings, 0 when there are none.
func AverageRating(feedbacks []Feedback) float64 {
	if len(feedbacks) == 0 {
		return 0
	}
	var sum float64
	for _, f := range feedbacks {
		sum += f.Rating
	}
	return sum / float64(len(feedbacks))
}

// Validate checks a winner entry before it is attached to an event.
func (w *Winner) Validate() error {
	if strings.TrimSpace(w.Position) == "" {
		return apperr.InvalidInput("winner position is required")
	}
	if w.PrizeMoney.IsNegative() {
		return apperr.InvalidInput("prize money cannot be negative")
	}
	switch w.Type {
	case WinnerIndividual:
		w.TeamSize = 1
	case WinnerTeam:
		if w.TeamSize < 1 {
			return apperr.InvalidInput("team size must be at least 1")
		}
	default:
		return apperr.InvalidInput(`winner type must be "Team" or "Individual"`)
	}
	return nil
}

// InitCollections replaces nil lists with empty ones so they encode as [].
func (e *Event) InitCollections() {
	if e.Faculty == nil {
		e.Faculty = []string{}
	}
	if e.ChiefGuest == nil {
		e.ChiefGuest = []string{}
	}
	if e.Images == nil {
		e.Images = []string{}
	}
	if e.Participants == nil {
		e.Participants = []Participant{}
	}
	if e.Winners == nil {
		e.Winners = []Winner{}
	}
	if e.Feedbacks == nil {
		e.Feedbacks = []Feedback{}
	}
}

// Clone returns a deep copy so callers cannot mutate stored collections.
func (e Event) Clone() Event {
	c := e
	c.Faculty = slices.Clone(e.Faculty)
	c.ChiefGuest = slices.Clone(e.ChiefGuest)
	c.Images = slices.Clone(e.Images)
	c.Participants = slices.Clone(e.Participants)
	c.Feedbacks = slices.Clone(e.Feedbacks)
	c.Winners = make([]Winner, len(e.Winners))
	for i, w := range e.Winners {
		w.Members = slices.Clone(w.Members)
		c.Winners[i] = w
	}
	return c
}
