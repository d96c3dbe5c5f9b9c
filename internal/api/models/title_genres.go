package models

// explicit join model so the m2m table can be migrated and queried directly;
// columns mirror the association table gorm generates for Title.Genres
type TitleGenre struct {
	TitleID int64 `json:"title_id" gorm:"primaryKey"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
