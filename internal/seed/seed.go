package seed

import (
	"go.uber.org/zap"

	"minichat/internal/domain"
)

const (
	GuestUsername = "guestuser"
	guestPassword = "guestuser"
	welcomeText   = "Welcome to minichat!"
)

// EnsureDefaults 启动引导：保证 guestuser 存在（带 local passport），
// 消息表为空时种一条默认消息。可重复执行。
func EnsureDefaults(users domain.UserRepository, messages domain.MessageRepository, log *zap.Logger) error {
	guest, err := users.FindByUsername(GuestUsername)
	if err != nil {
		return err
	}
	if guest == nil {
		guest = &domain.User{
			Username:  GuestUsername,
			Passports: []domain.Passport{domain.NewLocalPassport(guestPassword)},
		}
		if err := users.Create(guest); err != nil {
			return err
		}
		log.Info("seeded default user", zap.String("username", GuestUsername))
	}

	_, total, err := messages.List(0, 1)
	if err != nil {
		return err
	}
	if total == 0 {
		msg := &domain.Message{
			Creator: domain.Creator{
				UserID:    guest.ID,
				Name:      guest.Name,
				AvatarURL: guest.AvatarURL,
			},
			Text: welcomeText,
		}
		if err := messages.Create(msg); err != nil {
			return err
		}
		log.Info("seeded default message", zap.String("id", msg.ID))
	}
	return nil
}
