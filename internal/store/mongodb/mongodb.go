// Package mongodb stores events, admins and blogs in MongoDB. Each event is
// one document embedding its participants, winners and feedbacks.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/store"
)

var (
	_ store.Events = (*Store)(nil)
	_ store.Admins = (*Store)(nil)
	_ store.Blogs  = (*Store)(nil)
)

type Store struct {
	client *mongo.Client
	events *mongo.Collection
	admins *mongo.Collection
	blogs  *mongo.Collection
}

// Open connects to uri, pings the primary and creates the indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		events: db.Collection("events"),
		admins: db.Collection("admins"),
		blogs:  db.Collection("blogs"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Println("✅ MongoDB connected")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.admins.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongodb: admin email index: %w", err)
	}
	if _, err := s.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "endDate", Value: -1}},
	}); err != nil {
		return fmt.Errorf("mongodb: event end date index: %w", err)
	}
	if _, err := s.blogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("mongodb: blog index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// -----------------------------
// Events
// -----------------------------

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	cur, err := s.events.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var d eventDoc
	err := s.events.FindOne(ctx, byID(id)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e := d.toDomain()
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	e.InitCollections()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.events.InsertOne(ctx, toEventDoc(*e))
	return err
}

// UpdateEvent applies patch to the stored event and writes back only the
// descriptive fields, leaving the embedded collections untouched.
func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)

	d := toEventDoc(*current)
	res, err := s.events.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: d.Title},
		{Key: "type", Value: d.Type},
		{Key: "description", Value: d.Description},
		{Key: "startDate", Value: d.StartDate},
		{Key: "endDate", Value: d.EndDate},
		{Key: "startTime", Value: d.StartTime},
		{Key: "endTime", Value: d.EndTime},
		{Key: "organizer", Value: d.Organizer},
		{Key: "faculty", Value: d.Faculty},
		{Key: "chiefGuest", Value: d.ChiefGuest},
		{Key: "poster", Value: d.Poster},
		{Key: "images", Value: d.Images},
		{Key: "form", Value: d.Form},
	}}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrEventNotFound
	}
	return s.GetEvent(ctx, id)
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	var d eventDoc
	err := s.events.FindOneAndDelete(ctx, byID(id)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e := d.toDomain()
	return &e, nil
}

// AddParticipant pushes p only when no participant has the same email key,
// so concurrent registrations cannot both succeed.
func (s *Store) AddParticipant(ctx context.Context, eventID string, p domain.Participant) error {
	doc := toParticipantDoc(p)
	filter := bson.D{
		{Key: "_id", Value: eventID},
		{Key: "participants.emailKey", Value: bson.D{{Key: "$ne", Value: doc.EmailKey}}},
	}
	res, err := s.events.UpdateOne(ctx, filter, bson.D{{Key: "$push", Value: bson.D{{Key: "participants", Value: doc}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	return s.missOrConflict(ctx, eventID, domain.ErrAlreadyRegistered)
}

// missOrConflict tells a missing event apart from a failed filter condition.
func (s *Store) missOrConflict(ctx context.Context, eventID string, conflict error) error {
	n, err := s.events.CountDocuments(ctx, byID(eventID))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return conflict
}

func (s *Store) RemoveParticipant(ctx context.Context, eventID, email string) (*domain.Participant, error) {
	key := domain.NormalizeEmail(email)

	var d eventDoc
	err := s.events.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: eventID}, {Key: "participants.emailKey", Value: key}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "participants", Value: bson.D{{Key: "emailKey", Value: key}}}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.missOrConflict(ctx, eventID, domain.ErrParticipantNotFound)
	}
	if err != nil {
		return nil, err
	}

	for _, p := range d.Participants {
		if p.EmailKey == key {
			out := p.toDomain()
			return &out, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

// AddFeedback appends f and recomputes averageRating in one pipeline
// update. The filter requires membership and no earlier feedback.
func (s *Store) AddFeedback(ctx context.Context, eventID string, f domain.Feedback) error {
	if !domain.ValidRating(f.Rating) {
		return domain.ErrRatingOutOfRange
	}
	doc := toFeedbackDoc(f)
	filter := bson.D{
		{Key: "_id", Value: eventID},
		{Key: "participants.emailKey", Value: doc.EmailKey},
		{Key: "feedbacks.emailKey", Value: bson.D{{Key: "$ne", Value: doc.EmailKey}}},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "feedbacks", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$feedbacks", bson.A{}}}},
			bson.A{bson.D{{Key: "$literal", Value: doc}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$feedbacks.rating"}}}}}},
	}

	res, err := s.events.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !e.IsParticipant(f.Email) {
		return domain.ErrNotParticipant
	}
	return domain.ErrFeedbackSubmitted
}

func (s *Store) AddWinner(ctx context.Context, eventID string, w domain.Winner) (*domain.Event, error) {
	var d eventDoc
	err := s.events.FindOneAndUpdate(ctx, byID(eventID),
		bson.D{{Key: "$push", Value: bson.D{{Key: "winners", Value: toWinnerDoc(w)}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e := d.toDomain()
	return &e, nil
}

// -----------------------------
// Admins
// -----------------------------

func (s *Store) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	_, err := s.admins.InsertOne(ctx, toAdminDoc(*a))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAdminExists
	}
	return err
}

func (s *Store) findAdmin(ctx context.Context, filter bson.D) (*domain.Admin, error) {
	var d adminDoc
	err := s.admins.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	a := d.toDomain()
	return &a, nil
}

func (s *Store) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return s.findAdmin(ctx, byID(id))
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return s.findAdmin(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}})
}

func (s *Store) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	cur, err := s.admins.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []adminDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Admin, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, a *domain.Admin) error {
	d := toAdminDoc(*a)
	res, err := s.admins.UpdateOne(ctx, byID(a.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: d.Name},
		{Key: "email", Value: d.Email},
		{Key: "passwordHash", Value: d.PasswordHash},
		{Key: "role", Value: d.Role},
	}}})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAdminExists
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	res, err := s.admins.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	return s.admins.CountDocuments(ctx, bson.D{})
}

// -----------------------------
// Blogs
// -----------------------------

func (s *Store) CreateBlog(ctx context.Context, b *domain.Blog) error {
	_, err := s.blogs.InsertOne(ctx, blogDoc{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		CreatedAt:   b.CreatedAt,
	})
	return err
}

func (s *Store) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	cur, err := s.blogs.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []blogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Blog, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Store) DeleteBlog(ctx context.Context, id string) (*domain.Blog, error) {
	var d blogDoc
	err := s.blogs.FindOneAndDelete(ctx, byID(id)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrBlogNotFound
	}
	if err != nil {
		return nil, err
	}
	b := d.toDomain()
	return &b, nil
}
