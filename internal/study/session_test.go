package study_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/study"
	"github.com/amirgolp/flashcard/internal/testsupport"
)

func animals() []domain.Card {
	return []domain.Card{
		{ID: "c1", Front: "<b>Hund</b>", Back: "dog", ExampleOriginal: "Der Hund bellt.", HardnessLevel: domain.HardnessEasy},
		{ID: "c2", Front: "Katze", Back: "cat &amp; kitten", HardnessLevel: domain.HardnessHard},
		{ID: "c3", Front: "Vogel", Back: "bird", HardnessLevel: domain.HardnessFail},
	}
}

type recordingRater struct {
	calls []string
	err   error
}

func (r *recordingRater) UpdateCard(_ context.Context, id string, in domain.CardUpdate) (domain.Card, error) {
	r.calls = append(r.calls, id)
	if r.err != nil {
		return domain.Card{}, r.err
	}
	return domain.Card{ID: id, Front: "updated", HardnessLevel: *in.HardnessLevel}, nil
}

func TestWalkWrapsAndResetsFlip(t *testing.T) {
	ctx := context.Background()
	s, err := study.Start(ctx, "d1", animals(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	side, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Hund", side.Text)
	assert.Equal(t, "Der Hund bellt.", side.Example)
	assert.False(t, side.Flipped)

	assert.True(t, s.Flip())
	side, _ = s.Current()
	assert.Equal(t, "dog", side.Text)

	require.NoError(t, s.Previous(ctx))
	assert.Equal(t, 2, s.Position())
	side, _ = s.Current()
	assert.False(t, side.Flipped)
	assert.Equal(t, "Vogel", side.Text)

	require.NoError(t, s.Next(ctx))
	assert.Equal(t, 0, s.Position())
	require.NoError(t, s.Next(ctx))
	s.Flip()
	side, _ = s.Current()
	assert.Equal(t, "cat & kitten", side.Text)
}

func TestEmptyDeck(t *testing.T) {
	ctx := context.Background()
	s, err := study.Start(ctx, "empty", nil, nil)
	require.NoError(t, err)
	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Flip())
	require.NoError(t, s.Next(ctx))
	assert.Equal(t, 0, s.Position())

	_, err = s.Rate(ctx, &recordingRater{}, domain.HardnessEasy)
	require.Error(t, err)
}

func TestPositionResumes(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenState(t, cfg)

	first, err := study.Start(ctx, "d1", animals(), store)
	require.NoError(t, err)
	require.NoError(t, first.Next(ctx))
	require.NoError(t, first.Next(ctx))

	second, err := study.Start(ctx, "d1", animals(), store)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position())

	other, err := study.Start(ctx, "d2", animals(), store)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Position())

	shrunk, err := study.Start(ctx, "d1", animals()[:1], store)
	require.NoError(t, err)
	assert.Equal(t, 0, shrunk.Position())
}

func TestRate(t *testing.T) {
	ctx := context.Background()
	s, err := study.Start(ctx, "d1", animals(), nil)
	require.NoError(t, err)

	rater := &recordingRater{}
	_, err = s.Rate(ctx, rater, domain.HardnessLevel("trivial"))
	require.ErrorIs(t, err, domain.ErrInvalidHardness)
	assert.Empty(t, rater.calls)

	card, err := s.Rate(ctx, rater, domain.HardnessHard)
	require.NoError(t, err)
	assert.Equal(t, domain.HardnessHard, card.HardnessLevel)
	assert.Equal(t, []string{"c1"}, rater.calls)
	side, _ := s.Current()
	assert.Equal(t, "updated", side.Text)

	boom := errors.New("backend down")
	rater.err = boom
	_, err = s.Rate(ctx, rater, domain.HardnessEasy)
	require.ErrorIs(t, err, boom)
	side, _ = s.Current()
	assert.Equal(t, domain.HardnessHard, side.Card.HardnessLevel)
}

func TestFilterByHardness(t *testing.T) {
	cards := animals()
	assert.Len(t, study.FilterByHardness(cards), 3)

	mistakes := study.FilterByHardness(cards, domain.HardnessHard, domain.HardnessFail)
	require.Len(t, mistakes, 2)
	assert.Equal(t, "c2", mistakes[0].ID)
	assert.Equal(t, "c3", mistakes[1].ID)
}
