package identity

import "minichat/internal/domain"

// PassportByType 按类型取第一个匹配的 passport；同类型多条时首条为准
func PassportByType(passports []domain.Passport, t domain.PassportType) *domain.Passport {
	for i := range passports {
		if passports[i].Type == t {
			return &passports[i]
		}
	}
	return nil
}

// VerifyPassword 定位 local passport 并校验明文
// passport 缺失或明文为空直接返回 false，不触发 bcrypt（省掉计算，也避免和空摘要比较）
func (s *Service) VerifyPassword(u *domain.User, plaintext string) bool {
	if u == nil || plaintext == "" {
		return false
	}
	local := PassportByType(u.Passports, domain.PassportLocal)
	if local == nil || local.Password == "" {
		return false
	}
	return s.hasher.Verify(plaintext, local.Password)
}

// VerifyPasswordAsync 同 VerifyPassword，但把 bcrypt 计算放到独立 goroutine，
// 不阻塞调用方所在的并发请求；快速失败路径直接回 false
func (s *Service) VerifyPasswordAsync(u *domain.User, plaintext string) <-chan bool {
	if u == nil || plaintext == "" {
		ch := make(chan bool, 1)
		ch <- false
		return ch
	}
	local := PassportByType(u.Passports, domain.PassportLocal)
	if local == nil || local.Password == "" {
		ch := make(chan bool, 1)
		ch <- false
		return ch
	}
	return s.hasher.VerifyAsync(plaintext, local.Password)
}
