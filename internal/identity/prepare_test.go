package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"minichat/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewHasher(bcrypt.MinCost), nil)
}

func validUser() *domain.User {
	return &domain.User{
		Username:  "alice",
		Passports: []domain.Passport{domain.NewLocalPassport("s3cret")},
	}
}

func TestValidate_UsernameLengthBounds(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 40; n++ {
		u := validUser()
		u.Username = strings.Repeat("a", n)
		err := Validate(u)
		if n >= 1 && n <= 31 {
			assert.NoError(t, err, "len=%d", n)
			continue
		}
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs, "len=%d", n)
		assert.True(t, verrs.Has("username"), "len=%d", n)
	}
}

func TestValidate_LengthsCountCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 20 个西里尔字符 = 40 字节，按字符数必须通过
	u := validUser()
	u.Username = strings.Repeat("ж", 20)
	assert.NoError(t, Validate(u))

	// 32 个多字节字符照样越界
	u.Username = strings.Repeat("ж", 32)
	var verrs ValidationErrors
	require.ErrorAs(t, Validate(u), &verrs)
	assert.True(t, verrs.Has("username"))

	// name / password 同理
	u = validUser()
	u.Name = strings.Repeat("雨", 63)
	assert.NoError(t, Validate(u))

	u = validUser()
	u.Passports = []domain.Passport{domain.NewLocalPassport(strings.Repeat("雨", 63))}
	assert.NoError(t, Validate(u))

	u.Passports = []domain.Passport{domain.NewLocalPassport(strings.Repeat("雨", 64))}
	require.ErrorAs(t, Validate(u), &verrs)
	assert.True(t, verrs.Has("passport.password"))
}

func TestValidate_UsernameTrimmedBeforeCheck(t *testing.T) {
	t.Parallel()

	u := validUser()
	u.Username = "   \t  "
	var verrs ValidationErrors
	require.ErrorAs(t, Validate(u), &verrs)
	assert.True(t, verrs.Has("username"))

	u.Username = "  bob  "
	assert.NoError(t, Validate(u))
}

func TestValidate_AggregatesAllViolations(t *testing.T) {
	t.Parallel()

	u := &domain.User{
		Username: "",
		Name:     strings.Repeat("n", 64),
		Passports: []domain.Passport{
			{Type: "twitter"},
		},
	}
	p := domain.NewLocalPassport(strings.Repeat("p", 70))
	u.Passports = append(u.Passports, p)

	var verrs ValidationErrors
	require.ErrorAs(t, Validate(u), &verrs)
	assert.True(t, verrs.Has("username"))
	assert.True(t, verrs.Has("name"))
	assert.True(t, verrs.Has("passport.type"))
	assert.True(t, verrs.Has("passport.password"))

	// 错误文本不得泄露密码
	assert.NotContains(t, verrs.Error(), "ppp")
	assert.Contains(t, verrs.Error(), maskedValue)
}

func TestValidateAndPrepare_MissingLocalPassport(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	u := &domain.User{Username: "alice"}
	assert.ErrorIs(t, s.ValidateAndPrepare(u), ErrMissingLocalPassport)

	u = &domain.User{
		Username:  "alice",
		Passports: []domain.Passport{domain.NewSocialPassport(domain.PassportFacebook, "tok", "pid")},
	}
	assert.ErrorIs(t, s.ValidateAndPrepare(u), ErrMissingLocalPassport)
}

func TestValidateAndPrepare_MissingPassword(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	u := &domain.User{
		Username:  "alice",
		Passports: []domain.Passport{{Type: domain.PassportLocal}},
	}
	assert.ErrorIs(t, s.ValidateAndPrepare(u), ErrMissingPassword)
}

func TestValidateAndPrepare_AliceExample(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	u := validUser()
	require.NoError(t, s.ValidateAndPrepare(u))

	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, domain.DefaultAvatarURL, u.AvatarURL)

	local := PassportByType(u.Passports, domain.PassportLocal)
	require.NotNil(t, local)
	assert.NotEmpty(t, local.Password)
	assert.NotEqual(t, "s3cret", local.Password)
	assert.True(t, s.VerifyPassword(u, "s3cret"))
	assert.False(t, s.VerifyPassword(u, "wrong"))
}

func TestValidateAndPrepare_KeepsExplicitName(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	u := validUser()
	u.Name = "Alice In Chains"
	require.NoError(t, s.ValidateAndPrepare(u))
	assert.Equal(t, "Alice In Chains", u.Name)
}

func TestValidateAndPrepare_NoRehashOnResave(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	u := validUser()
	require.NoError(t, s.ValidateAndPrepare(u))
	first := PassportByType(u.Passports, domain.PassportLocal).Password

	// 第二次保存没有改密码，摘要必须原样保留
	require.NoError(t, s.ValidateAndPrepare(u))
	second := PassportByType(u.Passports, domain.PassportLocal).Password
	assert.Equal(t, first, second)
	assert.True(t, s.VerifyPassword(u, "s3cret"))
}

func TestValidateAndPrepare_LoadedUserNotRehashed(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	digest, err := s.Hasher().Hash("stored")
	require.NoError(t, err)

	// 模拟从 DB 加载：密码字段已是摘要，脏标记为 false
	u := &domain.User{
		Username:  "bob",
		Name:      "bob",
		Passports: []domain.Passport{{Type: domain.PassportLocal, Password: digest}},
	}
	require.NoError(t, s.ValidateAndPrepare(u))
	assert.Equal(t, digest, u.Passports[0].Password)
}

func TestValidateAndPrepare_RehashAfterPasswordChange(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	u := validUser()
	require.NoError(t, s.ValidateAndPrepare(u))

	local := PassportByType(u.Passports, domain.PassportLocal)
	local.SetPassword("new-secret")
	require.NoError(t, s.ValidateAndPrepare(u))

	assert.True(t, s.VerifyPassword(u, "new-secret"))
	assert.False(t, s.VerifyPassword(u, "s3cret"))
}

func TestValidateAndPrepare_ValidationShortCircuitsBeforeStructure(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	// 字段违规时不应继续到 MissingLocalPassport
	u := &domain.User{Username: strings.Repeat("x", 40)}
	err := s.ValidateAndPrepare(u)
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.False(t, errors.Is(err, ErrMissingLocalPassport))
}
