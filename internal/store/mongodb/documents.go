package mongodb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Manish1808/Cybernauts/internal/domain"
)

type eventDoc struct {
	ID            string           `bson:"_id"`
	Title         string           `bson:"title"`
	Type          string           `bson:"type"`
	Description   string           `bson:"description"`
	StartDate     time.Time        `bson:"startDate"`
	EndDate       time.Time        `bson:"endDate"`
	StartTime     string           `bson:"startTime"`
	EndTime       string           `bson:"endTime"`
	Organizer     string           `bson:"organizer"`
	Faculty       []string         `bson:"faculty"`
	ChiefGuest    []string         `bson:"chiefGuest"`
	Poster        string           `bson:"poster"`
	Images        []string         `bson:"images"`
	Form          string           `bson:"form"`
	Participants  []participantDoc `bson:"participants"`
	Winners       []winnerDoc      `bson:"winners"`
	Feedbacks     []feedbackDoc    `bson:"feedbacks"`
	AverageRating float64          `bson:"averageRating"`
	CreatedAt     time.Time        `bson:"createdAt"`
}

// participantDoc carries emailKey so uniqueness can be checked in the
// update filter.
type participantDoc struct {
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"emailKey"`
	Phone        string    `bson:"phone"`
	RollNo       string    `bson:"rollNo"`
	Branch       string    `bson:"branch"`
	Year         string    `bson:"year"`
	RegisteredAt time.Time `bson:"registeredAt"`
}

type memberDoc struct {
	Name        string `bson:"name"`
	CollegeName string `bson:"collegename"`
}

// winnerDoc keeps prize money as a decimal string.
type winnerDoc struct {
	Position   string      `bson:"position"`
	PrizeMoney string      `bson:"prizeMoney"`
	Type       string      `bson:"type"`
	TeamSize   int         `bson:"teamSize"`
	Members    []memberDoc `bson:"members"`
}

type feedbackDoc struct {
	Email       string    `bson:"email"`
	EmailKey    string    `bson:"emailKey"`
	Rating      float64   `bson:"rating"`
	Comment     string    `bson:"comment"`
	SubmittedAt time.Time `bson:"submittedAt"`
}

type adminDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type blogDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Image       string    `bson:"image"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// -----------------------------
// Conversions
// -----------------------------

func toParticipantDoc(p domain.Participant) participantDoc {
	return participantDoc{
		Name:         p.Name,
		Email:        p.Email,
		EmailKey:     domain.NormalizeEmail(p.Email),
		Phone:        p.Phone,
		RollNo:       p.RollNo,
		Branch:       p.Branch,
		Year:         p.Year,
		RegisteredAt: p.RegisteredAt,
	}
}

func (d participantDoc) toDomain() domain.Participant {
	return domain.Participant{
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		RollNo:       d.RollNo,
		Branch:       d.Branch,
		Year:         d.Year,
		RegisteredAt: d.RegisteredAt,
	}
}

func toWinnerDoc(w domain.Winner) winnerDoc {
	d := winnerDoc{
		Position:   w.Position,
		PrizeMoney: w.PrizeMoney.String(),
		Type:       string(w.Type),
		TeamSize:   w.TeamSize,
		Members:    make([]memberDoc, 0, len(w.Members)),
	}
	for _, m := range w.Members {
		d.Members = append(d.Members, memberDoc{Name: m.Name, CollegeName: m.CollegeName})
	}
	return d
}

func (d winnerDoc) toDomain() domain.Winner {
	prize, err := decimal.NewFromString(d.PrizeMoney)
	if err != nil {
		prize = decimal.Zero
	}
	w := domain.Winner{
		Position:   d.Position,
		PrizeMoney: prize,
		Type:       domain.WinnerType(d.Type),
		TeamSize:   d.TeamSize,
		Members:    make([]domain.WinnerMember, 0, len(d.Members)),
	}
	for _, m := range d.Members {
		w.Members = append(w.Members, domain.WinnerMember{Name: m.Name, CollegeName: m.CollegeName})
	}
	return w
}

func toFeedbackDoc(f domain.Feedback) feedbackDoc {
	return feedbackDoc{
		Email:       f.Email,
		EmailKey:    domain.NormalizeEmail(f.Email),
		Rating:      f.Rating,
		Comment:     f.Comment,
		SubmittedAt: f.SubmittedAt,
	}
}

func (d feedbackDoc) toDomain() domain.Feedback {
	return domain.Feedback{
		Email:       d.Email,
		Rating:      d.Rating,
		Comment:     d.Comment,
		SubmittedAt: d.SubmittedAt,
	}
}

func toEventDoc(e domain.Event) eventDoc {
	d := eventDoc{
		ID:            e.ID,
		Title:         e.Title,
		Type:          e.Type,
		Description:   e.Description,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Organizer:     e.Organizer,
		Faculty:       nonNil(e.Faculty),
		ChiefGuest:    nonNil(e.ChiefGuest),
		Poster:        e.Poster,
		Images:        nonNil(e.Images),
		Form:          e.Form,
		Participants:  make([]participantDoc, 0, len(e.Participants)),
		Winners:       make([]winnerDoc, 0, len(e.Winners)),
		Feedbacks:     make([]feedbackDoc, 0, len(e.Feedbacks)),
		AverageRating: e.AverageRating,
		CreatedAt:     e.CreatedAt,
	}
	for _, p := range e.Participants {
		d.Participants = append(d.Participants, toParticipantDoc(p))
	}
	for _, w := range e.Winners {
		d.Winners = append(d.Winners, toWinnerDoc(w))
	}
	for _, f := range e.Feedbacks {
		d.Feedbacks = append(d.Feedbacks, toFeedbackDoc(f))
	}
	return d
}

func (d eventDoc) toDomain() domain.Event {
	e := domain.Event{
		ID:            d.ID,
		Title:         d.Title,
		Type:          d.Type,
		Description:   d.Description,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		Organizer:     d.Organizer,
		Faculty:       d.Faculty,
		ChiefGuest:    d.ChiefGuest,
		Poster:        d.Poster,
		Images:        d.Images,
		Form:          d.Form,
		AverageRating: d.AverageRating,
		CreatedAt:     d.CreatedAt,
	}
	for _, p := range d.Participants {
		e.Participants = append(e.Participants, p.toDomain())
	}
	for _, w := range d.Winners {
		e.Winners = append(e.Winners, w.toDomain())
	}
	for _, f := range d.Feedbacks {
		e.Feedbacks = append(e.Feedbacks, f.toDomain())
	}
	e.InitCollections()
	return e
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toAdminDoc(a domain.Admin) adminDoc {
	return adminDoc{
		ID:           a.ID,
		Name:         a.Name,
		Email:        domain.NormalizeEmail(a.Email),
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
	}
}

func (d adminDoc) toDomain() domain.Admin {
	return domain.Admin{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt,
	}
}

func (d blogDoc) toDomain() domain.Blog {
	return domain.Blog{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
	}
}
