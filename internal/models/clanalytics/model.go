package clanalytics

import "time"

// PageView est une vue de page enregistrée de façon asynchrone
type PageView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Page      string    `gorm:"index;not null" json:"page"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	Country   string    `json:"country,omitempty"`
	SessionID string    `gorm:"index" json:"sessionId,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (PageView) TableName() string {
	return "page_views"
}

// Interaction est un événement utilisateur (clic, soumission, navigation)
type Interaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Type      string    `gorm:"index;not null" json:"type"`
	Element   string    `json:"element,omitempty"`
	Page      string    `json:"page"`
	Data      string    `gorm:"type:text" json:"data,omitempty"`
	SessionID string    `gorm:"index" json:"sessionId,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Interaction) TableName() string {
	return "user_interactions"
}

// ChatbotSession trace une conversation avec l'assistant Neury
type ChatbotSession struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	SessionID    string     `gorm:"uniqueIndex;not null" json:"sessionId"`
	Messages     int        `gorm:"default:0" json:"messages"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Satisfaction *int       `json:"satisfaction,omitempty"`
}

func (ChatbotSession) TableName() string {
	return "chatbot_sessions"
}
