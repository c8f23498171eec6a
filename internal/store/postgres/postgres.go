// Package postgres stores events, admins and blogs in PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/store"
)

var (
	_ store.Events = (*Store)(nil)
	_ store.Admins = (*Store)(nil)
	_ store.Blogs  = (*Store)(nil)
)

type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates every table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := db.AutoMigrate(&Event{}, &Participant{}, &Feedback{}, &Admin{}, &Blog{}); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	log.Println("✅ Database connected and migrated successfully")
	return &Store{db: db}, nil
}

// New wraps an already opened connection. The schema must be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withCollections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("participants.id asc") }).
		Preload("Feedbacks", func(db *gorm.DB) *gorm.DB { return db.Order("feedbacks.id asc") })
}

// lockEvent takes a row lock on the event for the rest of tx.
func lockEvent(tx *gorm.DB, id string) (*Event, error) {
	var row Event
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// -----------------------------
// Events
// -----------------------------

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var rows []Event
	if err := withCollections(s.db.WithContext(ctx)).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) getEvent(db *gorm.DB, id string) (*domain.Event, error) {
	var row Event
	err := withCollections(db).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e := row.toDomain()
	return &e, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.getEvent(s.db.WithContext(ctx), id)
}

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	e.InitCollections()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	row := eventRow(*e)
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	var out *domain.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockEvent(tx, id); err != nil {
			return err
		}
		current, err := s.getEvent(tx, id)
		if err != nil {
			return err
		}
		patch.Apply(current)

		row := eventRow(*current)
		if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteEvent removes the event with its participants and feedbacks.
func (s *Store) DeleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	var out *domain.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := s.getEvent(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&Event{}).Error; err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddParticipant(ctx context.Context, eventID string, p domain.Participant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockEvent(tx, eventID); err != nil {
			return err
		}

		row := participantRow(eventID, p)
		err := tx.Create(&row).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyRegistered
		}
		return err
	})
}

func (s *Store) RemoveParticipant(ctx context.Context, eventID, email string) (*domain.Participant, error) {
	var out domain.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockEvent(tx, eventID); err != nil {
			return err
		}

		var row Participant
		err := tx.Where("event_id = ? AND email_key = ?", eventID, domain.NormalizeEmail(email)).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrParticipantNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		out = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddFeedback inserts f and recomputes the average in the same transaction.
func (s *Store) AddFeedback(ctx context.Context, eventID string, f domain.Feedback) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockEvent(tx, eventID); err != nil {
			return err
		}

		key := domain.NormalizeEmail(f.Email)
		var registered int64
		if err := tx.Model(&Participant{}).Where("event_id = ? AND email_key = ?", eventID, key).Count(&registered).Error; err != nil {
			return err
		}
		if registered == 0 {
			return domain.ErrNotParticipant
		}
		if !domain.ValidRating(f.Rating) {
			return domain.ErrRatingOutOfRange
		}

		row := feedbackRow(eventID, f)
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrFeedbackSubmitted
			}
			return err
		}

		var avg float64
		if err := tx.Model(&Feedback{}).Where("event_id = ?", eventID).
			Select("COALESCE(AVG(rating), 0)").Scan(&avg).Error; err != nil {
			return err
		}
		return tx.Model(&Event{}).Where("id = ?", eventID).Update("average_rating", avg).Error
	})
}

func (s *Store) AddWinner(ctx context.Context, eventID string, w domain.Winner) (*domain.Event, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}
		winners := append(row.Winners, w)
		return tx.Model(&Event{}).Where("id = ?", eventID).Update("winners", winners).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, eventID)
}

// -----------------------------
// Admins
// -----------------------------

func (s *Store) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	row := adminRow(*a)
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAdminExists
	}
	return err
}

func (s *Store) findAdmin(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var row Admin
	err := s.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	a := row.toDomain()
	return &a, nil
}

func (s *Store) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return s.findAdmin(ctx, "id = ?", id)
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return s.findAdmin(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (s *Store) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	var rows []Admin
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Admin, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, a *domain.Admin) error {
	row := adminRow(*a)
	res := s.db.WithContext(ctx).Model(&Admin{}).Where("id = ?", a.ID).Updates(map[string]any{
		"name":          row.Name,
		"email":         row.Email,
		"password_hash": row.PasswordHash,
		"role":          row.Role,
	})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return domain.ErrAdminExists
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Admin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Admin{}).Count(&n).Error
	return n, err
}

// -----------------------------
// Blogs
// -----------------------------

func (s *Store) CreateBlog(ctx context.Context, b *domain.Blog) error {
	row := Blog{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		CreatedAt:   b.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	var rows []Blog
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Blog, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) DeleteBlog(ctx context.Context, id string) (*domain.Blog, error) {
	var row Blog
	err := s.db.WithContext(ctx).Clauses(clause.Returning{}).Where("id = ?", id).Delete(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, domain.ErrBlogNotFound
	}
	b := row.toDomain()
	return &b, nil
}
