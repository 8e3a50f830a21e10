package reports

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/internal/auth"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
	"github.com/senecapartners/seneca-cms-backend/middleware"
)

type staffRepo struct{ users []*auth.StaffUser }

func (r *staffRepo) Create(_ context.Context, u *auth.StaffUser) error {
	u.ID = uint(len(r.users) + 1)
	r.users = append(r.users, u)
	return nil
}

func (r *staffRepo) FindByUsername(_ context.Context, username string) (*auth.StaffUser, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *staffRepo) FindByID(_ context.Context, id uint) (*auth.StaffUser, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestDataIntegrityPageWithSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc := auth.NewService(&staffRepo{}, "secret", time.Hour)
	_, err := authSvc.CreateStaff(context.Background(), "ops", "Ops", "password123")
	require.NoError(t, err)

	block := &inventory.Block{ID: 1, Name: "A"}
	repo := &fakeRepo{
		floors: []inventory.Floor{{ID: 2, BlockID: 1, Level: inventory.Level2, Label: "2 этаж", Block: block}},
	}

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("data_integrity.html").Parse(
		`{{range .Report.FloorsMissingPlan}}<li>{{.Block.Name}} - {{.Label}}</li>{{end}}`)))
	r.POST("/admin/auth/login", auth.NewHandler(authSvc).Login)
	admin := r.Group("/admin", middleware.StaffAuth(authSvc))
	admin.GET("/reports/data-integrity", NewHandler(NewService(repo, NewLinkChecker(time.Second))).DataIntegrity)

	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login", strings.NewReader(`{"username":"ops","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.CookieName {
			session = ck
		}
	}
	require.NotNil(t, session)

	// a plain link click: no Authorization header, only the cookie
	req = httptest.NewRequest(http.MethodGet, "/admin/reports/data-integrity", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<li>A - 2 этаж</li>")

	req = httptest.NewRequest(http.MethodGet, "/admin/reports/data-integrity", nil)
	req.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}
