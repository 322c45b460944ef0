package views

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deptportal/internal/domain/dashboard"
	"deptportal/internal/domain/department"
	"deptportal/internal/session"
)

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range []string{"login", "signup", "notice", "employee", "manager", "error"} {
		assert.Contains(t, r.pages, name)
	}
	assert.NotContains(t, r.pages, "layout")
}

func TestRenderNoticeWithRefresh(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "notice", Page{
		Title:   "Login",
		Flashes: []session.Flash{{Kind: session.FlashSuccess, Message: "Login successful!"}},
		Refresh: &Refresh{URL: "/manager-dashboard", Delay: 2 * time.Second},
		Data:    "Login successful!",
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, `<meta http-equiv="refresh" content="2;url=/manager-dashboard">`)
	assert.Contains(t, body, `<div class="toast success">Login successful!</div>`)
}

func TestRenderEscapesData(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusBadGateway, "error", Page{Title: "Error", Data: "<script>x</script>"}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>x")
	assert.NotContains(t, rec.Body.String(), "http-equiv")
}

func TestRenderManagerPager(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	view := dashboard.ManagerView{
		Pager: department.Pager{Current: 1, Total: 2},
	}
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "manager", Page{Title: "Manager Dashboard", Data: view}))

	body := rec.Body.String()
	assert.Contains(t, body, "Page 1 of 2")
	assert.Contains(t, body, `href="/manager-dashboard?page=2"`)
	assert.Contains(t, body, "Add New Department")
	assert.Contains(t, body, `aria-disabled="true">&lsaquo; Prev`)
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "missing", Page{}))
	assert.Zero(t, rec.Body.Len())
}

func TestNewFromFSReportsBrokenTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"t/layout.html": {Data: []byte(`{{template "content" .}}`)},
		"t/bad.html":    {Data: []byte(`{{define "content"}}{{.Title}{{end}}`)},
	}
	_, err := NewFromFS(fsys, "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.html")
}
