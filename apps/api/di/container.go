package di

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/frostwarlord/portal/apps/api/echo"
	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/blog"
	"github.com/frostwarlord/portal/core/chat"
	"github.com/frostwarlord/portal/core/event"
	"github.com/frostwarlord/portal/core/match"
	"github.com/frostwarlord/portal/core/upload"
	"github.com/frostwarlord/portal/core/user"
	emailsvc "github.com/frostwarlord/portal/services/email"
	logsvc "github.com/frostwarlord/portal/services/logger"
	"github.com/frostwarlord/portal/storage/database"
	sqlxrepos "github.com/frostwarlord/portal/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, *sqlx.DB) {
	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, sqlx.NewDb(db, "postgres")
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	userSvc user.Service,
	blogSvc blog.Service,
	eventSvc event.Service,
	matchSvc match.Service,
	uploadSvc upload.Service,
	chatSvc chat.Service,
	validate *validator.Validate,
	translator ut.Translator,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    userSvc,
		BlogSvc:    blogSvc,
		EventSvc:   eventSvc,
		MatchSvc:   matchSvc,
		UploadSvc:  uploadSvc,
		ChatSvc:    chatSvc,
		Validate:   validate,
		Translator: translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewBlogRepository, dig.As(new(blog.Repository))))
	must(c.Provide(sqlxrepos.NewEventRepository, dig.As(new(event.Repository))))
	must(c.Provide(sqlxrepos.NewMatchRepository, dig.As(new(match.Repository))))
	must(c.Provide(sqlxrepos.NewUploadRepository, dig.As(new(upload.Repository))))
	must(c.Provide(sqlxrepos.NewChatRepository, dig.As(new(chat.Repository))))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(user.NewService))
	must(c.Provide(blog.NewService))
	must(c.Provide(event.NewService))
	must(c.Provide(match.NewService))
	must(c.Provide(upload.NewService))
	must(c.Provide(chat.NewService))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
