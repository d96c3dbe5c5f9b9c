package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection so every statement hits the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.TitleGenre{},
		&models.Review{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTitle(t *testing.T, db *gorm.DB, name string, year int, cat *models.Category, genres ...models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: year, Genres: genres}
	if cat != nil {
		title.CategoryID = &cat.ID
	}
	require.NoError(t, db.Create(title).Error)
	return title
}

func TestTitleRepoGetAll_RowsFullyPopulated(t *testing.T) {
	db := newTestDB(t)
	repo := NewTitleRepo(db)

	books := models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, db.Create(&books).Error)
	drama := models.Genre{Name: "Drama", Slug: "drama"}
	scifi := models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	require.NoError(t, db.Create(&drama).Error)
	require.NoError(t, db.Create(&scifi).Error)

	seedTitle(t, db, "Dune", 1965, &books, drama, scifi)
	seedTitle(t, db, "Arrival", 2016, &books, scifi)

	list, total, err := repo.GetAll(context.Background(), dto.TitleFilters{}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Arrival", list[0].Name)

	dune := list[1]
	assert.Equal(t, "Dune", dune.Name)
	assert.Equal(t, 1965, dune.Year)
	require.NotNil(t, dune.Category)
	assert.Equal(t, "books", dune.Category.Slug)
	assert.Len(t, dune.Genres, 2)
}

func TestTitleRepoGetAll_GenreFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewTitleRepo(db)

	drama := models.Genre{Name: "Drama", Slug: "drama"}
	scifi := models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	require.NoError(t, db.Create(&drama).Error)
	require.NoError(t, db.Create(&scifi).Error)

	seedTitle(t, db, "Dune", 1965, nil, drama, scifi)
	seedTitle(t, db, "Hamlet", 1601, nil, drama)

	list, total, err := repo.GetAll(context.Background(), dto.TitleFilters{Genre: "sci-fi"}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Dune", list[0].Name)
	assert.Equal(t, 1965, list[0].Year)
	assert.Len(t, list[0].Genres, 2)
}

func TestTitleRepoGetAll_YearFilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewTitleRepo(db)

	seedTitle(t, db, "Alpha", 2001, nil)
	seedTitle(t, db, "Beta", 2001, nil)
	seedTitle(t, db, "Gamma", 1999, nil)

	list, total, err := repo.GetAll(context.Background(), dto.TitleFilters{Year: 2001}, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Beta", list[0].Name)
}

func TestTitleRepoAverageScore_NilWithoutReviews(t *testing.T) {
	db := newTestDB(t)
	repo := NewTitleRepo(db)

	title := seedTitle(t, db, "Solaris", 1961, nil)

	avg, err := repo.AverageScore(context.Background(), title.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestTitleRepoAverageScore_ExactMean(t *testing.T) {
	db := newTestDB(t)
	repo := NewTitleRepo(db)

	title := seedTitle(t, db, "Solaris", 1961, nil)
	other := seedTitle(t, db, "Stalker", 1979, nil)

	for i, score := range []int{3, 4, 5, 9} {
		author := seedUser(t, db, []string{"ann", "bob", "eve", "dan"}[i])
		require.NoError(t, db.Create(&models.Review{
			TitleID:  title.ID,
			AuthorID: author.ID,
			Text:     "ok",
			Score:    score,
		}).Error)
	}
	outsider := seedUser(t, db, "zed")
	require.NoError(t, db.Create(&models.Review{
		TitleID:  other.ID,
		AuthorID: outsider.ID,
		Text:     "meh",
		Score:    1,
	}).Error)

	avg, err := repo.AverageScore(context.Background(), title.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 5.25, *avg)
}
