package domain

import (
	"strings"
	"time"
)

const DefaultAvatarURL = "/images/avatar-default.png"

type PassportType string

const (
	PassportLocal    PassportType = "local"
	PassportFacebook PassportType = "facebook"
	PassportGoogle   PassportType = "google"
)

func (t PassportType) Valid() bool {
	switch t {
	case PassportLocal, PassportFacebook, PassportGoogle:
		return true
	}
	return false
}

// Passport 用户的一种登录方式：local 存密码（入库前替换为摘要），社交类型只存 token/profile
type Passport struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"index;size:36" json:"-"`
	Type        PassportType `gorm:"size:16;not null" json:"type"`
	Password    string       `gorm:"size:191" json:"-"`
	AccessToken string       `gorm:"size:255" json:"-"`
	ProfileID   string       `gorm:"size:255" json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// 本次保存是否改过密码；从 DB 加载时为 false，避免对已有摘要重复哈希
	dirty bool `gorm:"-"`
}

// SetPassword 写入明文并打脏标记；只有脏密码会在保存时被哈希
func (p *Passport) SetPassword(plaintext string) {
	p.Password = plaintext
	p.dirty = true
}

func (p *Passport) PasswordChanged() bool { return p.dirty }

// ReplaceWithDigest 哈希完成后回写摘要并清除脏标记
func (p *Passport) ReplaceWithDigest(digest string) {
	p.Password = digest
	p.dirty = false
}

func NewLocalPassport(plaintext string) Passport {
	p := Passport{Type: PassportLocal}
	p.SetPassword(plaintext)
	return p
}

func NewSocialPassport(t PassportType, accessToken, profileID string) Passport {
	return Passport{Type: t, AccessToken: accessToken, ProfileID: profileID}
}

type User struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:31;not null" json:"username"`
	Name      string     `gorm:"size:63" json:"name"`
	AvatarURL string     `gorm:"size:255" json:"avatarUrl"`
	Passports []Passport `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (User) TableName() string     { return "users" }
func (Passport) TableName() string { return "passports" }

// PublicUser 对外视图：重命名 id，永远不携带 passports
type PublicUser struct {
	Id        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientView 纯投影，无副作用
func (u *User) ClientView() PublicUser {
	avatar := u.AvatarURL
	if avatar == "" {
		avatar = DefaultAvatarURL
	}
	return PublicUser{
		Id:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		AvatarURL: avatar,
		CreatedAt: u.CreatedAt,
	}
}

// NormalizedUsername 去除首尾空白后的用户名（校验与查找都用它）
func (u *User) NormalizedUsername() string { return strings.TrimSpace(u.Username) }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByUsername(username string) (*User, error)
	List(offset, limit int) ([]User, int64, error)
	Save(u *User) error
}
