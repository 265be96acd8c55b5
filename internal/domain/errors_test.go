package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NewValidationError("bad"), KindValidation},
		{fmt.Errorf("get category: %w", ErrNotFound), KindNotFound},
		{fmt.Errorf("create: %w", ErrDuplicateKey), KindDuplicateKey},
		{fmt.Errorf("%w: dial tcp", ErrConnection), KindConnection},
		{&BackendError{Cause: CauseMissingRelation, Code: "42P01"}, KindBackend},
		{errors.New("anything else"), KindBackend},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), tc.err.Error())
	}
}

func TestBackendErrorMatchesCause(t *testing.T) {
	err := fmt.Errorf("list: %w", &BackendError{Cause: CauseConstraint, Code: "23503", Message: "violates foreign key"})

	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, err, ErrConstraint)
	assert.NotErrorIs(t, err, ErrMissingRelation)
	assert.Equal(t, "list: backend error (23503): violates foreign key", err.Error())
}

func TestHintOf(t *testing.T) {
	err := fmt.Errorf("seed: %w", &BackendError{Cause: CauseMissingRelation, Hint: HintInitialize})
	assert.Equal(t, HintInitialize, HintOf(err))
	assert.Empty(t, HintOf(ErrNotFound))
}

func TestUnavailable(t *testing.T) {
	assert.False(t, Unavailable(nil))
	assert.False(t, Unavailable(ErrNotFound))
	assert.False(t, Unavailable(ErrDuplicateKey))
	assert.False(t, Unavailable(&BackendError{Cause: CauseConstraint}))
	assert.False(t, Unavailable(NewValidationError("bad")))

	assert.True(t, Unavailable(ErrConnection))
	assert.True(t, Unavailable(&BackendError{Cause: CauseMissingRelation}))
	assert.True(t, Unavailable(errors.New("boom")))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{{Field: "name", Message: "name is required"}, {Field: "url", Message: "url must be a valid URL"}}}
	assert.Equal(t, "name is required; url must be a valid URL", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, ErrValidation.Error(), (&ValidationError{}).Error())
}

func TestValidateSettingKeys(t *testing.T) {
	assert.NoError(t, ValidateSettingKeys(SettingKeys()))

	err := ValidateSettingKeys([]string{"site_title", "zeta", "alpha"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "settings keys not allowed: alpha, zeta", ve.Message)
	assert.Len(t, ve.Fields, 2)
}
