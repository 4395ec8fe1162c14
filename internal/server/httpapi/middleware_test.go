package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/memory"
)

func TestRequestLogger_NamesSpanAfterRoute(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	token := registerAndLogin(t, r, "span@example.com", "secret12")
	item := createTodo(t, r, token, "milk")

	sr := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)).Tracer("test")

	for _, path := range []string{"/todos/" + item.ID, "/todos/00000000-0000-4000-8000-000000000000"} {
		ctx, span := tracer.Start(t.Context(), "GET")
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
		req.Header.Set(common.AuthHeaderName, token)
		r.ServeHTTP(httptest.NewRecorder(), req)
		span.End()
	}

	spans := sr.Ended()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "GET /todos/:id", s.Name())
		assert.Contains(t, s.Attributes(), attribute.String("http.route", "/todos/:id"))
	}
}
