package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"kalibracloud/internal/models"
	"kalibracloud/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers map[uint]*models.User

var errStoreDown = errors.New("connection refused")

func (f fakeUsers) CurrentUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		if u == nil {
			return nil, errStoreDown
		}
		return u, nil
	}
	return nil, store.ErrNotFound
}

func newEngine(users fakeUsers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("secret"))))
	r.Use(InjectUser(users, zap.NewNop()))

	r.GET("/as/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		u, ok := users[uint(id)]
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		if err := SignIn(c, u); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.String(http.StatusOK, "signed in")
	})
	r.GET("/lab-only", RequireAuth(), RequireRole(models.RoleLab), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.String(http.StatusOK, u.Name)
	})
	return r
}

func serve(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(RequestIDHeader, "req-1")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Name: "Lab Tangerang", Role: models.RoleLab},
		2: {ID: 2, Name: "PT Petro", Role: models.RoleClient},
	}
	r := newEngine(users)

	t.Run("anonymous", func(t *testing.T) {
		w := serve(r, "/lab-only", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	})

	t.Run("lab", func(t *testing.T) {
		w := serve(r, "/as/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = serve(r, "/lab-only", w.Result().Cookies())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Lab Tangerang", w.Body.String())
	})

	t.Run("client", func(t *testing.T) {
		w := serve(r, "/as/2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = serve(r, "/lab-only", w.Result().Cookies())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown user in session", func(t *testing.T) {
		w := serve(r, "/as/2", nil)
		cookies := w.Result().Cookies()
		delete(users, 2)

		w = serve(r, "/lab-only", cookies)
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("store error keeps the session", func(t *testing.T) {
		w := serve(r, "/as/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()

		lab := users[1]
		users[1] = nil
		w = serve(r, "/lab-only", cookies)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Empty(t, w.Result().Cookies())

		users[1] = lab
		w = serve(r, "/lab-only", cookies)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
