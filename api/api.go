package api

import (
	"context"
	"net/http"

	"courselibrary/api/middleware"
	"courselibrary/api/web"
	"courselibrary/core/author"
	"courselibrary/core/course"
	"courselibrary/rate"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin  string
	Log         logrus.FieldLogger
	DB          *sqlx.DB
	RateLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.RateLimiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.RateLimiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	// The parenthesized id-set route shares a segment shape with the
	// single-author route, so it must be registered first.
	a.Handle(http.MethodGet, "/authors/({ids})", author.HandleShowCollection(cfg.DB))
	a.Handle(http.MethodGet, "/authors/{author_id}", author.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/authors", author.HandleList(cfg.DB))
	a.Handle(http.MethodPost, "/authors", author.HandleCreate(cfg.DB))
	a.Handle(http.MethodDelete, "/authors/{author_id}", author.HandleDelete(cfg.DB))

	a.Handle(http.MethodPost, "/authorcollections", author.HandleCreateCollection(cfg.DB))

	a.Handle(http.MethodGet, "/authors/{author_id}/courses", course.HandleListByAuthor(cfg.DB))
	a.Handle(http.MethodGet, "/authors/{author_id}/courses/{course_id}", course.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/authors/{author_id}/courses", course.HandleCreate(cfg.DB))
	a.Handle(http.MethodPut, "/authors/{author_id}/courses/{course_id}", course.HandleUpsert(cfg.DB))
	a.Handle(http.MethodPatch, "/authors/{author_id}/courses/{course_id}", course.HandlePatch(cfg.DB))
	a.Handle(http.MethodDelete, "/authors/{author_id}/courses/{course_id}", course.HandleDelete(cfg.DB))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
