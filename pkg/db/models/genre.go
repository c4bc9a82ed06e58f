package models

// Genre is a catalog genre keyed by its upstream id.
type Genre struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	ExternalID int    `gorm:"column:external_id;not null;uniqueIndex:genres_external_id_key"`
	Name       string `gorm:"column:name;type:varchar(100);not null;uniqueIndex:genres_name_key"`
}
