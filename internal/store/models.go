package store

import "database/sql"

// Dates are stored as "2006-01-02" strings, clock times as "15:04", and
// absolute timestamps as RFC 3339 UTC strings, so lexicographic order matches
// chronological order everywhere.

type Field struct {
	ID        int64
	OwnerID   int64
	Name      string
	Address   string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	FieldType string
	FieldInfo string
	Services  string
	CreatedAt string
	UpdatedAt string
}

type WeeklyAvailability struct {
	ID                 int64
	FieldID            int64
	DayOfWeek          int64
	StartTime          string
	EndTime            string
	Price              float64
	AvailableDurations string
}

type BlockedInterval struct {
	ID        int64
	FieldID   int64
	StartTime string
	EndTime   string
	Reason    string
}

type Reservation struct {
	ID              int64
	FieldID         int64
	UserID          int64
	ReservationDate string
	StartTime       string
	EndTime         string
	Price           float64
	Status          string
	CreatedAt       string
}

type League struct {
	ID        int64
	Name      string
	FieldID   int64
	OwnerID   int64
	StartDate string
	EndDate   string
	GameDays  string
	GameTimes string
	Status    string
}

type Team struct {
	ID       int64
	LeagueID int64
	Name     string
	OwnerID  int64
}

type Player struct {
	ID     int64
	TeamID int64
	Name   string
	Dni    string
	Dorsal int64
	Phone  string
}

type Match struct {
	ID         int64
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	FieldID    int64
	MatchDate  string
	MatchTime  string
	Status     string
	HomeScore  sql.NullInt64
	AwayScore  sql.NullInt64
}

type Standing struct {
	ID           int64
	LeagueID     int64
	TeamID       int64
	Played       int64
	Won          int64
	Drawn        int64
	Lost         int64
	GoalsFor     int64
	GoalsAgainst int64
	Points       int64
}

type LeagueLink struct {
	ID        int64
	LeagueID  int64
	Link      string
	LinkDate  string
	ExpiresAt string
}
