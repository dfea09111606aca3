package models

import "time"

type Position string

const (
	PositionFirst  Position = "first"
	PositionSecond Position = "second"
	PositionThird  Position = "third"
)

func (p Position) Valid() bool {
	return p == PositionFirst || p == PositionSecond || p == PositionThird
}

// PerformanceGrade is the judge's grade for a single result, independent of the event tier.
type PerformanceGrade string

const (
	PerformanceA PerformanceGrade = "A"
	PerformanceB PerformanceGrade = "B"
	PerformanceC PerformanceGrade = "C"
)

func (g PerformanceGrade) Valid() bool {
	return g == PerformanceA || g == PerformanceB || g == PerformanceC
}

type AttendanceStatus string

const (
	AttendancePending AttendanceStatus = "pending"
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

func (a AttendanceStatus) Valid() bool {
	return a == AttendancePending || a == AttendancePresent || a == AttendanceAbsent
}

// Participation links a team (and, for individual events, a student) to an event.
// PointsEarned is derived from ResultPosition and stored for query efficiency.
type Participation struct {
	ID               int               `json:"id" db:"id"`
	StudentID        *int              `json:"student_id,omitempty" db:"student_id"`
	TeamID           int               `json:"team_id" db:"team_id"`
	EventID          int               `json:"event_id" db:"event_id"`
	ResultPosition   *Position         `json:"result_position,omitempty" db:"result_position"`
	PerformanceGrade *PerformanceGrade `json:"performance_grade,omitempty" db:"performance_grade"`
	Attendance       AttendanceStatus  `json:"attendance" db:"attendance"`
	PointsEarned     int               `json:"points_earned" db:"points_earned"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}

// ParticipationDetail is a participation joined with its event, student and team name.
// It is the row shape the scoring package works on.
type ParticipationDetail struct {
	Participation
	Event    Event    `json:"event"`
	Student  *Student `json:"student,omitempty"`
	TeamName string   `json:"team_name"`
}

func (d ParticipationDetail) HasPosition(p Position) bool {
	return d.ResultPosition != nil && *d.ResultPosition == p
}
