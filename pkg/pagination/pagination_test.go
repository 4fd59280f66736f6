package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(url string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		limit  int
		offset int
	}{
		{"defaults when absent", "/v1/residents", DefaultLimit, 0},
		{"explicit values pass through", "/v1/residents?limit=50&offset=40", 50, 40},
		{"oversized limit clamped", "/v1/residents?limit=5000", MaxLimit, 0},
		{"zero limit gets default", "/v1/residents?limit=0", DefaultLimit, 0},
		{"negative limit gets default", "/v1/residents?limit=-5", DefaultLimit, 0},
		{"negative offset floored", "/v1/residents?offset=-10", DefaultLimit, 0},
		{"garbage falls back to defaults", "/v1/residents?limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paramsFor(tc.url)
			assert.Equal(t, tc.limit, p.Limit)
			assert.Equal(t, tc.offset, p.Offset)
		})
	}
}

func TestClamp(t *testing.T) {
	p := Clamp(250, -1)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = Clamp(0, 60)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 60, p.Offset)
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b"}
	resp := NewResponse(data, Params{Limit: 20, Offset: 40}, 2)

	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 40, resp.Offset)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, data, resp.Data)
}
