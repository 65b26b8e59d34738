package entity

import "time"

type EventStatus string

const (
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

type Event struct {
	Base
	Name     string      `db:"name"`
	Venue    string      `db:"venue"`
	StartsAt time.Time   `db:"starts_at"`
	Status   EventStatus `db:"status"`
}
