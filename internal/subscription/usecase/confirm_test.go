package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Confirm(t *testing.T) {
	t.Parallel()

	// Arrange
	h := newHarness(t)
	wantHash := h.tokenHash(t, testToken)
	h.db.getIDByToken = func(_ context.Context, tokenHash string) (uuid.UUID, error) {
		if tokenHash != wantHash {
			return uuid.Nil, goerror.ErrNotFound
		}
		return testSubscriberID, nil
	}

	// Act
	out, err := h.uc.Confirm(context.Background(), ConfirmInput{Token: testToken})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &ConfirmOutput{Status: entity.SubscriberStatusConfirmed}, out)
	assert.Equal(t, []uuid.UUID{testSubscriberID}, h.db.confirmedIDs)
	assert.Equal(t, []string{wantHash}, h.db.lookedUpHashes)
}

func TestUsecase_Confirm_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		_, err := h.uc.Confirm(context.Background(), ConfirmInput{})

		requireGoError(t, err, goerror.CodeInvalidInput)
		assert.Empty(t, h.db.lookedUpHashes)
	})

	t.Run("malformed token never reaches storage", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		for _, token := range []string{"short", testToken + "x", "AbCdEfGhIjKlMnOpQrStUvWx!"} {
			_, err := h.uc.Confirm(context.Background(), ConfirmInput{Token: token})
			requireGoError(t, err, goerror.CodeUnauthorized)
		}
		assert.Empty(t, h.db.lookedUpHashes)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		_, err := h.uc.Confirm(context.Background(), ConfirmInput{Token: testToken})

		gerr := requireGoError(t, err, goerror.CodeUnauthorized)
		assert.Equal(t, "Invalid subscription token", gerr.Msg())
		assert.Empty(t, h.db.confirmedIDs)
	})

	t.Run("lookup fails", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.db.getIDByToken = func(context.Context, string) (uuid.UUID, error) {
			return uuid.Nil, errors.New("connection reset")
		}

		_, err := h.uc.Confirm(context.Background(), ConfirmInput{Token: testToken})

		requireGoError(t, err, goerror.CodeInternal)
	})

	t.Run("confirm fails", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.db.getIDByToken = func(context.Context, string) (uuid.UUID, error) { return testSubscriberID, nil }
		h.db.confirmErr = errors.New("connection reset")

		_, err := h.uc.Confirm(context.Background(), ConfirmInput{Token: testToken})

		requireGoError(t, err, goerror.CodeInternal)
	})
}
