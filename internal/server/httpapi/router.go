package httpapi

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
)

func init() {
	// Report validation failures under the JSON field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Handler serves the API routes. All fields are required.
type Handler struct {
	Users  *services.UserService
	Todos  *services.TodoService
	Auth   *auth.Authenticator
	Logger logging.Logger
}

// NewRouter wires middleware and routes onto a fresh gin engine. An empty
// origins list disables CORS; "*" allows any origin.
func NewRouter(h *Handler, origins []string) *gin.Engine {
	router := gin.New()
	router.Use(recovery(h.Logger), requestLogger(h.Logger))
	if c, ok := corsConfig(origins); ok {
		router.Use(cors.New(c))
	}

	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Todo API Root") })
	router.GET("/health", handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/users", h.register)
	router.POST("/users/login", h.login)

	protected := router.Group("")
	protected.Use(h.Auth.RequireAuth())
	{
		protected.DELETE("/users/login", h.logout)

		protected.GET("/todos", h.listTodos)
		protected.POST("/todos", h.createTodo)
		protected.GET("/todos/:id", h.getTodo)
		protected.PUT("/todos/:id", h.updateTodo)
		protected.DELETE("/todos/:id", h.deleteTodo)
	}

	return router
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.DefaultConfig()
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", common.AuthHeaderName}
	c.ExposeHeaders = []string{common.AuthHeaderName}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
