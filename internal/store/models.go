package store

import "time"

type User struct {
	ID        string
	Email     string
	Username  string
	Role      string
	CreatedAt time.Time
}

type Profile struct {
	UserID       string
	DisplayName  string
	Level        int
	XP           int
	Credits      int
	Streak       int
	LastActivity time.Time
}

type Question struct {
	ID            int64
	Subject       string
	Difficulty    int
	Type          string
	Question      string
	Options       string
	CorrectAnswer string
	Explanation   string
	Hint          string
}

type Pod struct {
	ID          int64
	Name        string
	Description string
	Subject     string
	CreatorID   string
	CreatorName string
	MaxMembers  int
	MemberCount int
	CreatedAt   time.Time
}

type PodMessage struct {
	ID       int64
	PodID    int64
	UserID   string
	Username string
	Message  string
	SentAt   time.Time
}

type Tournament struct {
	ID              int64
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	Participants    int
	MaxParticipants int
	PrizePool       int
	Joined          bool
}

type DailyChallenge struct {
	ID        int64
	Type      string
	Completed bool
	Score     int
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AssessmentResult struct {
	Type           string
	Subject        string
	Score          int
	TotalQuestions int
	TimeTaken      int
	AnswersJSON    string
}

type AssessmentStats struct {
	Total        int
	AverageScore float64
	BestScore    int
	TotalTime    int
}

type SubjectStat struct {
	Subject      string
	Count        int
	AverageScore float64
}

type ActivityEvent struct {
	Type      string
	Data      string
	CreatedAt time.Time
}
