package domain

import "time"

type StateEntry struct {
	Key       string    `gorm:"column:state_key;primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
