package models

import "time"

// Collection document names. Fixed for the life of the data set; there is no
// migration mechanism for persisted records.
const (
	CollectionUsers    = "users"
	CollectionParts    = "parts"
	CollectionRequests = "requests"
)

// CollectionDocument is the storage row for one whole collection, serialized
// as a single JSON array. All record mutation is read-whole, modify,
// write-whole; last writer wins.
type CollectionDocument struct {
	Name      string    `gorm:"type:varchar(64);primaryKey" json:"name"`
	Data      []byte    `gorm:"type:text;not null"          json:"data"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"              json:"updatedAt"`
}

func (CollectionDocument) TableName() string {
	return "collections"
}
