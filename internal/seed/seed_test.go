package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"minichat/internal/domain"
	"minichat/internal/identity"
	"minichat/pkg/utils"
)

// 内存仓库：和 gorm 实现一样，写之前先过 ValidateAndPrepare
type memUsers struct {
	idn   *identity.Service
	items map[string]*domain.User
}

func newMemUsers(idn *identity.Service) *memUsers {
	return &memUsers{idn: idn, items: map[string]*domain.User{}}
}

func (m *memUsers) Create(u *domain.User) error {
	if err := m.idn.ValidateAndPrepare(u); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	cp := *u
	m.items[u.Username] = &cp
	return nil
}

func (m *memUsers) FindByID(id string) (*domain.User, error) {
	for _, u := range m.items {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByUsername(username string) (*domain.User, error) {
	return m.items[username], nil
}

func (m *memUsers) List(offset, limit int) ([]domain.User, int64, error) {
	return nil, int64(len(m.items)), nil
}

func (m *memUsers) Save(u *domain.User) error {
	if err := m.idn.ValidateAndPrepare(u); err != nil {
		return err
	}
	cp := *u
	m.items[u.Username] = &cp
	return nil
}

type memMessages struct {
	items []domain.Message
}

func (m *memMessages) Create(msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = utils.NewID()
	}
	m.items = append(m.items, *msg)
	return nil
}

func (m *memMessages) FindByID(id string) (*domain.Message, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, nil
}

func (m *memMessages) List(offset, limit int) ([]domain.Message, int64, error) {
	return m.items, int64(len(m.items)), nil
}

func TestEnsureDefaults(t *testing.T) {
	t.Parallel()

	idn := identity.NewService(identity.NewHasher(bcrypt.MinCost), nil)
	users := newMemUsers(idn)
	messages := &memMessages{}

	require.NoError(t, EnsureDefaults(users, messages, zap.NewNop()))

	guest, err := users.FindByUsername(GuestUsername)
	require.NoError(t, err)
	require.NotNil(t, guest)
	assert.Equal(t, GuestUsername, guest.Name)

	// 密码已哈希且可校验
	local := identity.PassportByType(guest.Passports, domain.PassportLocal)
	require.NotNil(t, local)
	assert.NotEqual(t, "guestuser", local.Password)
	assert.True(t, idn.VerifyPassword(guest, "guestuser"))

	require.Len(t, messages.items, 1)
	assert.Equal(t, guest.ID, messages.items[0].Creator.UserID)
	assert.NotEmpty(t, messages.items[0].Text)
}

func TestEnsureDefaults_Idempotent(t *testing.T) {
	t.Parallel()

	idn := identity.NewService(identity.NewHasher(bcrypt.MinCost), nil)
	users := newMemUsers(idn)
	messages := &memMessages{}

	require.NoError(t, EnsureDefaults(users, messages, zap.NewNop()))
	guest1, _ := users.FindByUsername(GuestUsername)
	digest1 := identity.PassportByType(guest1.Passports, domain.PassportLocal).Password

	require.NoError(t, EnsureDefaults(users, messages, zap.NewNop()))
	guest2, _ := users.FindByUsername(GuestUsername)
	digest2 := identity.PassportByType(guest2.Passports, domain.PassportLocal).Password

	assert.Equal(t, guest1.ID, guest2.ID)
	assert.Equal(t, digest1, digest2, "re-seeding must not re-hash")
	assert.Len(t, messages.items, 1)
}
