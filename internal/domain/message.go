package domain

import (
	"fmt"
	"time"
)

// Creator 消息创建者的去范式化快照（不随用户后续改名变化）
type Creator struct {
	UserID    string `gorm:"size:36" json:"userId"`
	Name      string `gorm:"size:255;not null" json:"name"`
	AvatarURL string `gorm:"size:255" json:"avatarUrl,omitempty"`
}

type Geo struct {
	CountryName string `gorm:"size:255" json:"country_name,omitempty"`
	Region      string `gorm:"size:255" json:"region,omitempty"`
	City        string `gorm:"size:255" json:"city,omitempty"`
	TimeZone    string `gorm:"size:255" json:"time_zone,omitempty"`
}

type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Creator   Creator   `gorm:"embedded;embeddedPrefix:creator_" json:"creator"`
	Text      string    `gorm:"size:255;not null" json:"text"`
	Geo       Geo       `gorm:"embedded;embeddedPrefix:geo_" json:"geo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Message) TableName() string { return "messages" }

// RelativeAge 按固定阈值把消息年龄映射为人类可读字符串；随 now 变化，不落库
func (m *Message) RelativeAge(now time.Time) string {
	delta := int64(now.Sub(m.CreatedAt) / time.Second)
	if delta < 0 {
		delta = 0
	}
	switch {
	case delta < 30:
		return "just now"
	case delta < 60:
		return fmt.Sprintf("%d seconds ago", delta)
	case delta < 120:
		return "a minute ago"
	case delta < 3600:
		return fmt.Sprintf("%d minutes ago", delta/60)
	case delta/3600 == 1:
		return "1 hour ago"
	case delta < 86400:
		return fmt.Sprintf("%d hours ago", delta/3600)
	case delta < 2*86400:
		return "yesterday"
	case delta < 7*86400:
		return fmt.Sprintf("%d days ago", delta/86400)
	default:
		return "a long time ago"
	}
}

// Location 优先时区，其次 city/country，否则为空
func (m *Message) Location() string {
	if m.Geo.TimeZone != "" {
		return m.Geo.TimeZone
	}
	if m.Geo.City != "" && m.Geo.CountryName != "" {
		return m.Geo.City + "/" + m.Geo.CountryName
	}
	return ""
}

func (m *Message) Footer(now time.Time) string {
	age := m.RelativeAge(now)
	if loc := m.Location(); loc != "" {
		return age + ", " + loc
	}
	return age
}

type MessageRepository interface {
	Create(m *Message) error
	FindByID(id string) (*Message, error)
	List(offset, limit int) ([]Message, int64, error)
}
