package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyReview represents one journaling record per calendar week.
// At most one review exists per (user, week start) pair; the week
// begins on Sunday.
type WeeklyReview struct {
	ID                     uuid.UUID `db:"id" json:"id" validate:"required"`
	UserID                 uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	WeekStart              time.Time `db:"week_start" json:"week_start" validate:"required"`
	ShippedOutsideBuilding bool      `db:"shipped_outside_building" json:"shipped_outside_building"`
	Progress               string    `db:"progress" json:"progress"`
	Wins                   string    `db:"wins" json:"wins"`
	Losses                 string    `db:"losses" json:"losses"`
	Reflections            string    `db:"reflections" json:"reflections"`
	NextWeekPriorities     string    `db:"next_week_priorities" json:"next_week_priorities"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// WeekStartFor normalizes any timestamp to the Sunday 00:00 UTC that
// starts its calendar week. Lookups are exact-match on this date.
func WeekStartFor(t time.Time) time.Time {
	utc := t.UTC()
	daysSinceSunday := int(utc.Weekday())
	sunday := utc.AddDate(0, 0, -daysSinceSunday)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, time.UTC)
}

// EmptyReviewFor returns a blank draft for the week containing t,
// used when no review has been saved yet.
func EmptyReviewFor(userID uuid.UUID, t time.Time) *WeeklyReview {
	return &WeeklyReview{
		ID:        uuid.New(),
		UserID:    userID,
		WeekStart: WeekStartFor(t),
	}
}
