// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/reqid"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/router"
)

// RegisterAPI mounts the API surface on r.
//
// Middleware order matters: metrics wraps everything, the request id must
// exist before the logger tags it, and recovery sits outside the logger so
// panics are still logged with the request id.
func RegisterAPI(r *router.Router, pc *controllers.ProductController, cc *controllers.CategoryController) {
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	api := r.Group("/api")

	api.Get("/products", "products.index", pc.List)
	api.Post("/products", "products.store", pc.Create, middleware.AdminGate)
	api.Get("/products/{slug}", "products.show", pc.Show)
	api.Get("/categories", "categories.index", cc.List)

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())
}
