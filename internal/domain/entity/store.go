package entity

import "time"

type StoreRecord struct {
	Name           string    `json:"name" db:"name"`
	Domain         string    `json:"domain" db:"domain"`
	TrialExpiresAt time.Time `json:"trial_expires_at" db:"trial_expires_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Existing       bool      `json:"existing" db:"-"`
}
