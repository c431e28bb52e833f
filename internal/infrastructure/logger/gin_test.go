package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success logs info", http.StatusOK, zapcore.InfoLevel},
		{"client error logs warn", http.StatusConflict, zapcore.WarnLevel},
		{"server error logs error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := observed()
			r := gin.New()
			r.Use(func(c *gin.Context) {
				ctx := WithRequestID(c.Request.Context(), "req-1")
				c.Request = c.Request.WithContext(WithActorID(ctx, "u-100"))
				c.Next()
			})
			r.Use(GinMiddleware(l))
			r.GET("/bills", func(c *gin.Context) {
				FromContext(c.Request.Context()).Debug("handler")
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills?status=PENDING", nil))

			require.Equal(t, 2, logs.Len())
			handler := logs.All()[0]
			assert.Equal(t, "req-1", handler.ContextMap()["request_id"])

			entry := logs.All()[1]
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "u-100", fields["actor_id"])
			assert.Equal(t, "status=PENDING", fields["query"])
		})
	}
}

func TestRecovery(t *testing.T) {
	l, logs := observed()
	r := gin.New()
	r.Use(Recovery(l))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}
