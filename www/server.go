package www

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/config"
	"github.com/angas/junegloom/database"
	"github.com/angas/junegloom/goes"
	"github.com/angas/junegloom/metrics"
	"github.com/angas/junegloom/notify"
	"github.com/angas/junegloom/task"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionMaxAge = 365 * 24 * 60 * 60

type Server struct {
	logger  *slog.Logger
	config  config.AppConfigApi
	store   *climate.Store
	metrics *metrics.Metrics
	router  *mux.Router
	hub     *Hub
	tm      *TemplateManager
	built   chan notify.Notice
}

//go:embed static
var embeddedStaticDir embed.FS

func NewServer(
	db *database.Database,
	store *climate.Store,
	goesCache *goes.Cache,
	tasks *task.Tasks,
	m *metrics.Metrics,
	cnfg *config.AppConfig,
) (*Server, error) {
	logger := slog.Default().With("module", "www")
	tm, err := NewTemplateManager(logger, cnfg.Api.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("template manager initialization: %w", err)
	}

	s := &Server{
		logger:  logger,
		config:  cnfg.Api,
		store:   store,
		metrics: m,
		router:  mux.NewRouter(),
		hub:     NewHub(logger, m.WebsocketClients),
		tm:      tm,
		built:   make(chan notify.Notice, 1),
	}

	handlerLogger := func(name string) *slog.Logger {
		return logger.With(slog.String("handler", name))
	}
	paths := cnfg.Images.GetPaths()

	r := s.router
	r.Use(s.logReqMW, s.metricsMW)

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/dataset", NewDatasetHandler(handlerLogger("dataset"), store, tasks.DatasetTask)).
		Methods(http.MethodGet, http.MethodPost)
	api.Handle("/climatology/{scenario}", NewClimatologyHandler(handlerLogger("climatology"), store)).
		Methods(http.MethodGet)
	api.Handle("/days", NewDaysHandler(handlerLogger("days"), store)).
		Methods(http.MethodGet)
	api.Handle("/days/{date}/images", NewImagesHandler(handlerLogger("images"), paths, store)).
		Methods(http.MethodGet)
	api.Handle("/cities", NewCitiesHandler(handlerLogger("cities"), store)).
		Methods(http.MethodGet)
	api.Handle("/cities/{name}", NewCityHandler(handlerLogger("cities"), store)).
		Methods(http.MethodGet)
	api.Handle("/rank", NewRankHandler(handlerLogger("rank"), cnfg.Ranker, store)).
		Methods(http.MethodGet)
	api.Handle("/search", NewSearchHandler(handlerLogger("search"), store)).
		Methods(http.MethodGet)
	api.Handle("/extremes", NewExtremesHandler(handlerLogger("extremes"), paths, store)).
		Methods(http.MethodGet)
	api.Handle("/words", NewWordsHandler(handlerLogger("words"), db, newSessionStore(logger, cnfg.Api.SessionKey), m)).
		Methods(http.MethodGet, http.MethodPost)
	api.Handle("/goes", NewGoesHandler(handlerLogger("goes"), goesCache)).
		Methods(http.MethodGet)
	api.Handle("/builds", NewBuildsHandler(handlerLogger("builds"), db, s.currentId)).
		Methods(http.MethodGet)

	r.Handle("/chart", NewChartHandler(handlerLogger("chart"), store)).Methods(http.MethodGet)
	r.Handle("/log", NewLogHandler(handlerLogger("log"), db, tm)).Methods(http.MethodGet)
	r.Handle("/qr", NewQrHandler(handlerLogger("qr"), cnfg.Api.GetPublicUrl())).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWs)
	r.PathPrefix("/").Handler(staticFilesHandler(cnfg.Api.WwwDir)).Methods(http.MethodGet, http.MethodHead)

	return s, nil
}

// Handler is the complete http surface, compressed where the client allows.
func (s *Server) Handler() http.Handler {
	return handlers.CompressHandler(s.router)
}

func (s *Server) logReqMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.String("remoteAddr", r.RemoteAddr))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}

		route := "unknown"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tmpl, err := cr.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		snoop := httpsnoop.CaptureMetrics(next, w, r)
		s.metrics.HttpRequests.WithLabelValues(route, strconv.Itoa(snoop.Code)).Inc()
		s.metrics.HttpDuration.WithLabelValues(route).Observe(snoop.Duration.Seconds())
	})
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	name := r.Header.Get("User-Agent")
	client, err := NewClient(s.hub, w, r, name)
	if err != nil {
		s.logger.Error("new websocket client failed", slog.Any("error", err))
		return
	}

	select {
	case s.hub.Register <- client:
	case <-s.hub.done:
		client.conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) currentId() string {
	if ds := s.store.Current(); ds != nil {
		return ds.ID
	}
	return ""
}

// Notify queues a notice of ds for the connected pages. Only the newest
// pending notice is kept.
func (s *Server) Notify(ds *climate.Dataset) {
	n := notify.NoticeFrom(ds)
	for {
		select {
		case s.built <- n:
			return
		default:
		}
		select {
		case <-s.built:
		default:
		}
	}
}

func (s *Server) broadcast(ctx context.Context, n notify.Notice) {
	buf, err := s.tm.Execute("build_notice.html", n)
	if err != nil {
		s.logger.Error("template execution failed", slog.Any("error", err))
		return
	}

	select {
	case s.hub.Broadcast <- buf.Bytes():
	case <-ctx.Done():
	}
}

func (s *Server) Run(ctx context.Context) {
	go s.hub.Run(ctx)

	s.logger.Info("staring server...", "port", s.config.Port)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("server error", slog.Any("error", err))
			}
			return

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return

		case n := <-s.built:
			s.broadcast(ctx, n)
		}
	}
}

// newSessionStore signs the word cloud cookie with key, or with a random key
// that only lives as long as the process.
func newSessionStore(logger *slog.Logger, key *string) *sessions.CookieStore {
	var secret []byte
	if key != nil && *key != "" {
		secret = []byte(*key)
	} else {
		logger.Warn("no api.session_key configured, word cloud sessions end on restart")
		secret = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func staticFilesHandler(extDir *string) http.Handler {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
