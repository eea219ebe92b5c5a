package models

import "time"

// SnapshotMarker records that a snapshot has been written at least once,
// so an empty table can be told apart from a first run.
type SnapshotMarker struct {
	Name    string    `gorm:"primarykey;type:varchar(64)" json:"name"`
	SavedAt time.Time `json:"saved_at"`
}
