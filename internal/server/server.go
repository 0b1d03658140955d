package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/version-tracker-api/internal/handler"
	"github.com/BuzzLyutic/version-tracker-api/internal/monitoring"
	"github.com/BuzzLyutic/version-tracker-api/internal/service"
	"github.com/BuzzLyutic/version-tracker-api/internal/web"
	"github.com/BuzzLyutic/version-tracker-api/pkg/respond"
)

// UIPath - префикс, под которым монтируется браузерный интерфейс
const UIPath = "/ui"

// NewRouter собирает роутер API. ui может быть nil, тогда /ui не монтируется.
func NewRouter(svc *service.VersionService, ui *web.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(monitoring.Middleware)

	h := handler.NewVersionHandler(svc)

	r.Get("/", h.Root)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/versions", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
		r.Get("/chart", h.Chart)
	})

	if ui != nil {
		r.Mount(UIPath, ui.Routes())
	}
	return r
}

// NewUIRouter serves only the browser UI, e.g. against a remote API.
func NewUIRouter(ui *web.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, UIPath, http.StatusFound)
	})
	r.Mount(UIPath, ui.Routes())
	return r
}

// RequestLogger кладет в контекст логгер с request_id и пишет строку лога
// на каждый запрос.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
			ctx := zapctx.WithLogger(r.Context(), reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqLogger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// New returns an http.Server with the read/write timeouts used in production.
func New(addr string, h http.Handler) *http.Server {
	return &http.Server{ // Создаем сервер
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped successfully!")
	return nil
}
