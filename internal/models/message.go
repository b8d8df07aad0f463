package models

import "time"

// Статусы сообщения чата.
const (
	MessageStatusSent     = "sent"
	MessageStatusAnswered = "answered"
	MessageStatusResolved = "resolved"
)

// Solution — ответ генератора решений.
type Solution struct {
	Answer     string   `json:"answer"`
	Steps      []string `json:"steps"`
	References []string `json:"references"`
}

// SimilarCase — ссылка на похожее обращение.
type SimilarCase struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// GeneratedSolution — полный результат генератора.
type GeneratedSolution struct {
	Solution     Solution      `json:"solution"`
	Confidence   float64       `json:"confidence"`
	SimilarCases []SimilarCase `json:"similar_cases"`
}

// Feedback — оценка пользователем полученного решения.
type Feedback struct {
	Rating   int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment  string `json:"comment,omitempty" validate:"max=2000,nonul"`
	Resolved bool   `json:"resolved"`
}

// Message — сохранённый обмен пользователя с генератором решений.
type Message struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Content    string             `json:"content"`
	Category   string             `json:"category"`
	Type       string             `json:"type"`
	Solution   *GeneratedSolution `json:"solution"`
	Context    map[string]any     `json:"context"`
	Feedback   *Feedback          `json:"feedback,omitempty"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
	ResolvedAt *time.Time         `json:"resolved_at,omitempty"`
}

// Metrics — сводка для администратора.
type Metrics struct {
	TotalUsers     int     `json:"total_users"`
	TotalMessages  int     `json:"total_messages"`
	ResolvedIssues int     `json:"resolved_issues"`
	ResolutionRate float64 `json:"resolution_rate"`
}
