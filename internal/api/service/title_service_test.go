package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/api/dto"
)

func TestCreateTitle_YearInFuture(t *testing.T) {
	svc := NewTitleService(nil, nil, nil)

	req := &dto.CreateTitleDTO{
		Name:  "Yet To Come",
		Year:  time.Now().Year() + 1,
		Genre: []string{"drama"},
	}
	_, err := svc.Create(context.Background(), req)

	assert.Equal(t, ErrYearInFuture, err)
}

func TestCreateTitle_CurrentYearAllowed(t *testing.T) {
	assert.NoError(t, validateYear(time.Now().Year()))
}

func TestCreateTitle_EmptyGenreList(t *testing.T) {
	svc := NewTitleService(nil, nil, nil)

	req := &dto.CreateTitleDTO{
		Name:  "Ungrouped",
		Year:  2001,
		Genre: []string{},
	}
	_, err := svc.Create(context.Background(), req)

	assert.Equal(t, ErrEmptyGenreList, err)
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, validateYear(1895))
	assert.NoError(t, validateYear(time.Now().Year()))
	assert.Equal(t, ErrYearInFuture, validateYear(time.Now().Year()+1))
	assert.Equal(t, ErrYearInFuture, validateYear(0))
	assert.Equal(t, ErrYearInFuture, validateYear(-44))
}
