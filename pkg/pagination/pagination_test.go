package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryParams(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/users?"+query, nil)
	return FromQuery(c)
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		query      string
		want       Params
		wantOffset int
	}{
		{"", Params{Page: 1, Limit: DefaultLimit}, 0},
		{"page=3&limit=10", Params{Page: 3, Limit: 10}, 20},
		{"page=0&limit=0", Params{Page: 1, Limit: DefaultLimit}, 0},
		{"page=-2&limit=-5", Params{Page: 1, Limit: DefaultLimit}, 0},
		{"page=abc&limit=500", Params{Page: 1, Limit: MaxLimit}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := queryParams(tt.query)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestTotalPages(t *testing.T) {
	p := New(1, 10)
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 3, p.TotalPages(21))
	assert.Equal(t, 0, Params{}.TotalPages(5))
}
