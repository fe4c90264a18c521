package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/blog"
	"github.com/frostwarlord/portal/core/chat"
	"github.com/frostwarlord/portal/core/event"
	"github.com/frostwarlord/portal/core/match"
	"github.com/frostwarlord/portal/core/upload"
	"github.com/frostwarlord/portal/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    user.Service
		BlogSvc    blog.Service
		EventSvc   event.Service
		MatchSvc   match.Service
		UploadSvc  upload.Service
		ChatSvc    chat.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() chan error
		ShutdownSignal() chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		room     *Room
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.room = NewRoom(deps.Logger)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	v1 := s.app.Group("/v1")
	registerUserAPI(v1, jwt, s.deps)
	registerBlogAPI(v1, jwt, s.deps)
	registerEventAPI(v1, jwt, s.deps)
	registerMatchAPI(v1, jwt, s.deps)
	registerUploadAPI(v1, jwt, s.deps)
	registerChatAPI(v1, s.room, s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	s.room.CloseAll()
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() chan error { return s.errors }

func (s *server) ShutdownSignal() chan os.Signal { return s.shutdown }

// signalShutdown sends a SIGTERM down the shutdown channel when a
// non-recoverable error is caught by the error handler.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Frost Warlords API!")
}
