package postgres

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Manish1808/Cybernauts/internal/domain"
)

// Event is the events table. Participants and feedbacks live in their own
// tables so the unique (event_id, email_key) indexes can guard them.
type Event struct {
	ID            string `gorm:"primaryKey;type:varchar(64)"`
	Title         string `gorm:"not null"`
	Type          string
	Description   string    `gorm:"not null"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null;index"`
	StartTime     string    `gorm:"type:varchar(16)"`
	EndTime       string    `gorm:"type:varchar(16)"`
	Organizer     string
	Faculty       datatypes.JSONSlice[string]
	ChiefGuest    datatypes.JSONSlice[string]
	Poster        string
	Images        datatypes.JSONSlice[string]
	Form          string
	Winners       datatypes.JSONSlice[domain.Winner]
	AverageRating float64 `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Participants []Participant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Feedbacks    []Feedback    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

type Participant struct {
	ID           uint   `gorm:"primaryKey"`
	EventID      string `gorm:"type:varchar(64);not null;uniqueIndex:idx_participant_event_email"`
	EmailKey     string `gorm:"not null;uniqueIndex:idx_participant_event_email"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null"`
	Phone        string
	RollNo       string
	Branch       string
	Year         string
	RegisteredAt time.Time
}

type Feedback struct {
	ID          uint    `gorm:"primaryKey"`
	EventID     string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_feedback_event_email"`
	EmailKey    string  `gorm:"not null;uniqueIndex:idx_feedback_event_email"`
	Email       string  `gorm:"not null"`
	Rating      float64 `gorm:"not null"`
	Comment     string
	SubmittedAt time.Time
}

type Admin struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(32);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Blog struct {
	ID          string `gorm:"primaryKey;type:varchar(64)"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Image       string
	CreatedAt   time.Time `gorm:"index"`
}

// -----------------------------
// Conversions
// -----------------------------

func participantRow(eventID string, p domain.Participant) Participant {
	return Participant{
		EventID:      eventID,
		EmailKey:     domain.NormalizeEmail(p.Email),
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		RollNo:       p.RollNo,
		Branch:       p.Branch,
		Year:         p.Year,
		RegisteredAt: p.RegisteredAt,
	}
}

func (p Participant) toDomain() domain.Participant {
	return domain.Participant{
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		RollNo:       p.RollNo,
		Branch:       p.Branch,
		Year:         p.Year,
		RegisteredAt: p.RegisteredAt,
	}
}

func feedbackRow(eventID string, f domain.Feedback) Feedback {
	return Feedback{
		EventID:     eventID,
		EmailKey:    domain.NormalizeEmail(f.Email),
		Email:       f.Email,
		Rating:      f.Rating,
		Comment:     f.Comment,
		SubmittedAt: f.SubmittedAt,
	}
}

func (f Feedback) toDomain() domain.Feedback {
	return domain.Feedback{
		Email:       f.Email,
		Rating:      f.Rating,
		Comment:     f.Comment,
		SubmittedAt: f.SubmittedAt,
	}
}

func eventRow(e domain.Event) Event {
	row := Event{
		ID:            e.ID,
		Title:         e.Title,
		Type:          e.Type,
		Description:   e.Description,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Organizer:     e.Organizer,
		Faculty:       datatypes.NewJSONSlice(e.Faculty),
		ChiefGuest:    datatypes.NewJSONSlice(e.ChiefGuest),
		Poster:        e.Poster,
		Images:        datatypes.NewJSONSlice(e.Images),
		Form:          e.Form,
		Winners:       datatypes.NewJSONSlice(e.Winners),
		AverageRating: e.AverageRating,
		CreatedAt:     e.CreatedAt,
	}
	for _, p := range e.Participants {
		row.Participants = append(row.Participants, participantRow(e.ID, p))
	}
	for _, f := range e.Feedbacks {
		row.Feedbacks = append(row.Feedbacks, feedbackRow(e.ID, f))
	}
	return row
}

func (r Event) toDomain() domain.Event {
	e := domain.Event{
		ID:            r.ID,
		Title:         r.Title,
		Type:          r.Type,
		Description:   r.Description,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Organizer:     r.Organizer,
		Faculty:       []string(r.Faculty),
		ChiefGuest:    []string(r.ChiefGuest),
		Poster:        r.Poster,
		Images:        []string(r.Images),
		Form:          r.Form,
		Winners:       []domain.Winner(r.Winners),
		AverageRating: r.AverageRating,
		CreatedAt:     r.CreatedAt,
	}
	for _, p := range r.Participants {
		e.Participants = append(e.Participants, p.toDomain())
	}
	for _, f := range r.Feedbacks {
		e.Feedbacks = append(e.Feedbacks, f.toDomain())
	}
	e.InitCollections()
	return e
}

func adminRow(a domain.Admin) Admin {
	return Admin{
		ID:           a.ID,
		Name:         a.Name,
		Email:        domain.NormalizeEmail(a.Email),
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
	}
}

func (a Admin) toDomain() domain.Admin {
	return domain.Admin{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         domain.Role(a.Role),
		CreatedAt:    a.CreatedAt,
	}
}

func (b Blog) toDomain() domain.Blog {
	return domain.Blog{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		CreatedAt:   b.CreatedAt,
	}
}
