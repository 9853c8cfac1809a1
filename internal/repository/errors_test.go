package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.Same(t, ErrNotFound, translate(gorm.ErrRecordNotFound))
	assert.Same(t, ErrDuplicate, translate(gorm.ErrDuplicatedKey))
	assert.Same(t, ErrDuplicate, translate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))

	err := translate(context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnavailable)

	err = translate(errors.New("connection refused"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	err = translate(&pgconn.PgError{Code: "23503"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTranslate_KeepsOwnKinds(t *testing.T) {
	wrapped := fmt.Errorf("%w: slow", ErrTimeout)
	assert.Same(t, wrapped, translate(wrapped))
	assert.Same(t, ErrNotFound, translate(ErrNotFound))
}

func TestContainsEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%jane%", contains(" jane "))
	assert.Equal(t, `%50\%\_off\\%`, contains(`50%_off\`))
}
