package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"minichat/internal/core/cache"
	"minichat/internal/domain"
	"minichat/internal/identity"
	httpez "minichat/internal/transport/http/ez"
)

// 用户注册 / 查询 / 登录校验
func mountUserActions(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	ez := httpez.New(api)

	// --- POST /users 注册 ---
	type registerIn struct {
		Username string `json:"username" binding:"required"`
		Name     string `json:"name"     binding:"omitempty,max=63"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[registerIn, domain.PublicUser](ez, db, httpez.Action[registerIn, domain.PublicUser]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *registerIn) (domain.PublicUser, error) {
			u := domain.User{
				Username:  in.Username,
				Name:      strings.TrimSpace(in.Name),
				Passports: []domain.Passport{domain.NewLocalPassport(in.Password)},
			}
			if err := deps.Users.Create(&u); err != nil {
				return domain.PublicUser{}, mapIdentityErr(err)
			}
			return u.ClientView(), nil
		},
	})

	// --- GET /users/:username ---
	ez.GET("/users/:username", func(c *gin.Context) (any, error) {
		username := c.Param("username")
		load := func() (*domain.PublicUser, error) {
			u, err := deps.Users.FindByUsername(username)
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if u == nil {
				return nil, httpez.NotFound("user not found")
			}
			view := u.ClientView()
			return &view, nil
		}
		if deps.Cache != nil {
			view, err := cache.GetOrLoadJSON[domain.PublicUser](deps.Cache, c, "users:view:"+username, 30*time.Second,
				func(context.Context) (*domain.PublicUser, error) { return load() })
			if err != nil {
				return nil, err
			}
			return view, nil
		}
		return load()
	})

	// --- GET /users 列表 ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type listOut struct {
		Items []domain.PublicUser `json:"items"`
		Total int64               `json:"total"`
	}
	httpez.RegisterAction[listQ, listOut](ez, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) (listOut, error) {
			users, total, err := deps.Users.List(in.Offset, in.Limit)
			if err != nil {
				return listOut{}, httpez.Internal("db error", err)
			}
			items := make([]domain.PublicUser, 0, len(users))
			for i := range users {
				items = append(items, users[i].ClientView())
			}
			return listOut{Items: items, Total: total}, nil
		},
	})

	// --- POST /auth/check 密码校验（只校验，不发任何令牌） ---
	type checkIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type checkOut struct {
		OK bool `json:"ok"`
	}
	httpez.RegisterAction[checkIn, checkOut](ez, db, httpez.Action[checkIn, checkOut]{
		Method: http.MethodPost,
		Path:   "/auth/check",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *checkIn) (checkOut, error) {
			u, err := deps.Users.FindByUsername(strings.TrimSpace(in.Username))
			if err != nil {
				return checkOut{}, httpez.Internal("db error", err)
			}
			// 用户不存在和密码错误对外同样表现，避免枚举用户名
			ok := <-deps.Identity.VerifyPasswordAsync(u, in.Password)
			return checkOut{OK: ok}, nil
		},
	})
}

// mapIdentityErr 身份核心错误 → 统一响应码
func mapIdentityErr(err error) error {
	var verrs identity.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return httpez.BadRequest(verrs.Error())
	case errors.Is(err, identity.ErrMissingLocalPassport),
		errors.Is(err, identity.ErrMissingPassword):
		return httpez.BadRequest(err.Error())
	case errors.Is(err, identity.ErrHashingFailed):
		return httpez.Internal("could not store credentials", err)
	case isDupKey(err):
		return httpez.Conflict("username already taken")
	}
	return httpez.Internal("db error", err)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异导致漏判
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
