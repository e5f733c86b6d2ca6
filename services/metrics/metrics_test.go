package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/students/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/metrics", echo.WrapHandler(Handler()))

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/api/students/:id", "204"))
	for _, id := range []string{"1", "2", "0"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/"+id, nil))
	}
	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/api/students/:id", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/api/students/:id", "404")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tatame_http_requests_total"))
}
