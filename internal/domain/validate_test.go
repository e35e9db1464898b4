package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/domain"
)

func TestValidateCardCreate(t *testing.T) {
	require.NoError(t, domain.Validate(domain.CardCreate{Front: "der Hund", Back: "the dog"}))

	err := domain.Validate(domain.CardCreate{Back: "the dog"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "front is required")

	err = domain.Validate(domain.CardCreate{Front: "a", Back: "b", HardnessLevel: "extreme"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "hardness_level must be one of easy, medium, hard, fail")
}

func TestValidateCardUpdateHardnessPointer(t *testing.T) {
	bad := domain.HardnessLevel("nope")
	err := domain.Validate(domain.CardUpdate{HardnessLevel: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)

	good := domain.HardnessHard
	require.NoError(t, domain.Validate(domain.CardUpdate{HardnessLevel: &good}))
	assert.False(t, domain.CardUpdate{HardnessLevel: &good}.Empty())
	assert.True(t, domain.CardUpdate{}.Empty())
}

func TestValidateGenerateFromRange(t *testing.T) {
	ok := domain.GenerateFromRangeRequest{BookID: "b1", StartPage: 3, EndPage: 3, NumCards: 10}
	require.NoError(t, domain.Validate(ok))

	backwards := domain.GenerateFromRangeRequest{BookID: "b1", StartPage: 5, EndPage: 2}
	err := domain.Validate(backwards)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "end_page must not be before")

	tooMany := domain.GenerateFromRangeRequest{BookID: "b1", StartPage: 1, EndPage: 2, NumCards: 51}
	require.ErrorIs(t, domain.Validate(tooMany), domain.ErrValidation)
}

func TestValidateBulkApproveNeedsIDs(t *testing.T) {
	err := domain.Validate(domain.BulkApproveRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.NoError(t, domain.Validate(domain.BulkApproveRequest{DraftIDs: []string{"d1"}}))
}

func TestValidateRegister(t *testing.T) {
	err := domain.Validate(domain.RegisterRequest{Username: "anna", Email: "not-an-email", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "email must be a valid email address")
}
