package identity

import (
	"fmt"

	"go.uber.org/zap"

	"minichat/internal/domain"
)

// Service 身份核心：字段校验 + 保存前不变式 + 密码校验
// 依赖显式注入，不走全局注册表
type Service struct {
	hasher *Hasher
	log    *zap.Logger
}

func NewService(h *Hasher, l *zap.Logger) *Service {
	if h == nil {
		h = NewHasher(DefaultHashCost)
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{hasher: h, log: l}
}

func (s *Service) Hasher() *Hasher { return s.hasher }

// ValidateAndPrepare 保存前管道，由存储层在每次写之前显式调用：
//  1. 字段规则（聚合全部违规）
//  2. name 为空时回填 username
//  3. 必须有 local passport
//  4. local passport 必须有密码
//  5. 密码本次被改动才哈希；摘要回写后清脏标记，重存不会二次哈希
//
// 结构性失败（3/4）在进入哈希之前短路；哈希失败不在本层重试
func (s *Service) ValidateAndPrepare(u *domain.User) error {
	if err := Validate(u); err != nil {
		return err
	}

	u.Username = u.NormalizedUsername()
	if u.Name == "" {
		u.Name = u.Username
	}
	if u.AvatarURL == "" {
		u.AvatarURL = domain.DefaultAvatarURL
	}

	local := PassportByType(u.Passports, domain.PassportLocal)
	if local == nil {
		return ErrMissingLocalPassport
	}
	if local.Password == "" {
		return ErrMissingPassword
	}

	if local.PasswordChanged() {
		digest, err := s.hasher.Hash(local.Password)
		if err != nil {
			// 错误链里只有 bcrypt 的失败原因，不含明文
			return fmt.Errorf("%w: %v", ErrHashingFailed, err)
		}
		local.ReplaceWithDigest(digest)
		s.log.Debug("local passport password hashed", zap.String("username", u.Username))
	}
	return nil
}
