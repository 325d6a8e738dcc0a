package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"minichat/internal/domain"
	httpez "minichat/internal/transport/http/ez"
)

// 消息列表 / 发布；相对时间、位置、footer 都在读取时现算，不落库
func mountMessageActions(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	ez := httpez.New(api)

	type messageOut struct {
		ID          string         `json:"id"`
		Creator     domain.Creator `json:"creator"`
		Text        string         `json:"text"`
		Geo         domain.Geo     `json:"geo"`
		CreatedAt   time.Time      `json:"createdAt"`
		RelativeAge string         `json:"relativeAge"`
		Location    string         `json:"location,omitempty"`
		Footer      string         `json:"footer"`
	}
	render := func(m *domain.Message, now time.Time) messageOut {
		return messageOut{
			ID:          m.ID,
			Creator:     m.Creator,
			Text:        m.Text,
			Geo:         m.Geo,
			CreatedAt:   m.CreatedAt,
			RelativeAge: m.RelativeAge(now),
			Location:    m.Location(),
			Footer:      m.Footer(now),
		}
	}

	// --- GET /messages ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type listOut struct {
		Items []messageOut `json:"items"`
		Total int64        `json:"total"`
	}
	httpez.RegisterAction[listQ, listOut](ez, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/messages",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) (listOut, error) {
			msgs, total, err := deps.Messages.List(in.Offset, in.Limit)
			if err != nil {
				return listOut{}, httpez.Internal("db error", err)
			}
			now := time.Now()
			items := make([]messageOut, 0, len(msgs))
			for i := range msgs {
				items = append(items, render(&msgs[i], now))
			}
			return listOut{Items: items, Total: total}, nil
		},
	})

	// --- GET /messages/:id ---
	ez.GET("/messages/:id", func(c *gin.Context) (any, error) {
		m, err := deps.Messages.FindByID(c.Param("id"))
		if err != nil {
			return nil, httpez.Internal("db error", err)
		}
		if m == nil {
			return nil, httpez.NotFound("message not found")
		}
		return render(m, time.Now()), nil
	})

	// --- POST /messages ---
	type createIn struct {
		Username string     `json:"username" binding:"required"`
		Text     string     `json:"text"     binding:"required,max=255"`
		Geo      domain.Geo `json:"geo"      binding:"omitempty"`
	}
	httpez.RegisterAction[createIn, messageOut](ez, db, httpez.Action[createIn, messageOut]{
		Method: http.MethodPost,
		Path:   "/messages",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *createIn) (messageOut, error) {
			u, err := deps.Users.FindByUsername(in.Username)
			if err != nil {
				return messageOut{}, httpez.Internal("db error", err)
			}
			if u == nil {
				return messageOut{}, httpez.NotFound("user not found")
			}
			view := u.ClientView()
			m := domain.Message{
				Creator: domain.Creator{UserID: view.Id, Name: view.Name, AvatarURL: view.AvatarURL},
				Text:    in.Text,
				Geo:     in.Geo,
			}
			if err := deps.Messages.Create(&m); err != nil {
				return messageOut{}, httpez.Internal("db error", err)
			}
			return render(&m, time.Now()), nil
		},
	})
}
