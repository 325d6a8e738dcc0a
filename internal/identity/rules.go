package identity

import (
	"unicode/utf8"

	"minichat/internal/domain"
)

const maskedValue = "****"

// rule 字段校验三元组：规则是数据，不是代码
// value 返回 (字段值, 是否适用)；redact 为 true 时错误里只出现掩码
type rule struct {
	field   string
	value   func(u *domain.User) (string, bool)
	check   func(string) bool
	message string
	redact  bool
}

// 长度按字符数算，不是字节数；和 gin binding 的 max 语义保持一致
func lengthBetween(min, max int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= min && n <= max
	}
}

var userRules = []rule{
	{
		field:   "username",
		value:   func(u *domain.User) (string, bool) { return u.NormalizedUsername(), true },
		check:   lengthBetween(1, 31),
		message: "must be 1 to 31 characters",
	},
	{
		field:   "name",
		value:   func(u *domain.User) (string, bool) { return u.Name, u.Name != "" },
		check:   lengthBetween(1, 63),
		message: "must be 1 to 63 characters",
	},
}

type passportRule struct {
	field   string
	value   func(p *domain.Passport) (string, bool)
	check   func(string) bool
	message string
	redact  bool
}

var passportRules = []passportRule{
	{
		field:   "passport.type",
		value:   func(p *domain.Passport) (string, bool) { return string(p.Type), true },
		check:   func(s string) bool { return domain.PassportType(s).Valid() },
		message: "must be one of local, facebook, google",
	},
	{
		// 只校验本次保存新写入的明文；缺失交给保存管道报 ErrMissingPassword，
		// 已哈希的摘要也不再套明文长度规则
		field: "passport.password",
		value: func(p *domain.Passport) (string, bool) {
			return p.Password, p.PasswordChanged() && p.Password != ""
		},
		check:   lengthBetween(1, 63),
		message: "must be 1 to 63 characters",
		redact:  true,
	},
}

// Validate 跑完整张规则表，聚合每一个违规字段；合法时返回 nil
func Validate(u *domain.User) error {
	var errs ValidationErrors
	for _, r := range userRules {
		v, ok := r.value(u)
		if !ok {
			continue
		}
		if !r.check(v) {
			if r.redact {
				v = maskedValue
			}
			errs = append(errs, ValidationError{Field: r.field, Value: v, Message: r.message})
		}
	}
	for i := range u.Passports {
		p := &u.Passports[i]
		for _, r := range passportRules {
			v, ok := r.value(p)
			if !ok {
				continue
			}
			if !r.check(v) {
				if r.redact {
					v = maskedValue
				}
				errs = append(errs, ValidationError{Field: r.field, Value: v, Message: r.message})
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
