package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseURL(target string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		target string
		want   Params
	}{
		{"/x", Params{Page: 1, Limit: 20}},
		{"/x?page=3&limit=5&q=+smith+", Params{Page: 3, Limit: 5, Query: "smith"}},
		{"/x?page=0&limit=-1", Params{Page: 1, Limit: 20}},
		{"/x?page=abc&limit=500", Params{Page: 1, Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, parseURL(tt.target))
		})
	}
}

func TestWrap(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	page := p.Wrap([]string{"a"}, 11)

	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, []string{"a"}, page.Items)
}
