package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/notify"
)

func newFeedback(f *fixture) *Feedback {
	s := NewFeedback(f.store, f.sweeper, f.catalog, "http://localhost:3000/", "Cybernauts Team", quiet)
	s.Now = f.clock
	return s
}

func rating(v float64) *float64 { return &v }

func TestSubmitFeedback_Rules(t *testing.T) {
	f := newFixture()
	f.seed(t, "e1", "2025-03-01", participant("A", "a@x.com"), participant("B", "b@x.com"))
	s := newFeedback(f)
	ctx := context.Background()

	err := s.Submit(ctx, "e1", FeedbackInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	err = s.Submit(ctx, "missing", FeedbackInput{Email: "a@x.com", Rating: rating(5)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.Submit(ctx, "e1", FeedbackInput{Email: "stranger@x.com", Rating: rating(5)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, s.Submit(ctx, "e1", FeedbackInput{Email: " A@X.com ", Rating: rating(5), Comment: "great"}))

	err = s.Submit(ctx, "e1", FeedbackInput{Email: "a@x.com", Rating: rating(1)})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = s.Submit(ctx, "e1", FeedbackInput{Email: "b@x.com", Rating: rating(9)})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	require.NoError(t, s.Submit(ctx, "e1", FeedbackInput{Email: "b@x.com", Rating: rating(3)}))

	e, err := f.store.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, e.AverageRating)
	require.Len(t, e.Feedbacks, 2)
	assert.Equal(t, domain.Feedback{Email: "A@X.com", Rating: 5, Comment: "great", SubmittedAt: f.now}, e.Feedbacks[0])
}

func TestSubmitFeedback_NaNRatingRejected(t *testing.T) {
	f := newFixture()
	f.seed(t, "e1", "2025-03-01", participant("A", "a@x.com"))
	s := newFeedback(f)
	ctx := context.Background()

	err := s.Submit(ctx, "e1", FeedbackInput{Email: "a@x.com", Rating: rating(math.NaN())})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	e, err := f.store.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, e.Feedbacks)
	assert.Equal(t, 0.0, e.AverageRating)

	require.NoError(t, s.Submit(ctx, "e1", FeedbackInput{Email: "a@x.com", Rating: rating(4)}))
}

func TestSubmitFeedback_DuplicateBeatsRatingCheck(t *testing.T) {
	f := newFixture()
	f.seed(t, "e1", "2025-03-01", participant("A", "a@x.com"))
	s := newFeedback(f)
	require.NoError(t, s.Submit(context.Background(), "e1", FeedbackInput{Email: "a@x.com", Rating: rating(4)}))

	err := s.Submit(context.Background(), "e1", FeedbackInput{Email: "a@x.com", Rating: rating(0)})

	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRequestFeedback(t *testing.T) {
	f := newFixture()
	f.seed(t, "e1", "2025-03-01",
		participant("A", "a@x.com"),
		participant("B", "b@x.com"),
		participant("C", "c@x.com"),
		participant("NoMail", ""),
	)
	f.sender.fail["b@x.com"] = true

	res, err := newFeedback(f).RequestFeedback(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, notify.Result{SentCount: 2, ErrorCount: 1}, res)
	require.Len(t, f.sender.sent, 2)
	assert.Contains(t, f.sender.sent[0].HTML, "http://localhost:3000/events/e1/feedback")
	assert.Contains(t, f.sender.sent[0].HTML, "Cybernauts Team")
}

func TestRequestFeedback_NoParticipants(t *testing.T) {
	f := newFixture()
	f.seed(t, "e1", "2025-03-01")

	_, err := newFeedback(f).RequestFeedback(context.Background(), "e1")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = newFeedback(f).RequestFeedback(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
