package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/book-management/docs"
	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	md "github.com/Astemirdum/book-management/pkg/middleware"
	"github.com/Astemirdum/book-management/pkg/validate"
)

type Handler struct {
	librarySvc LibraryService
	uploadDir  string
	log        *zap.Logger
}

func New(librarySvc LibraryService, uploadDir string, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		uploadDir:  uploadDir,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/borrow", h.Borrow)
	api.PUT("/return", h.Return)
	api.POST("/borrows/return", h.Return)
	api.GET("/borrows", h.ListBorrows)

	api.GET("/books/search", h.SearchBooks)
	api.POST("/books", h.CreateBook)
	api.GET("/books/:id", h.GetBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)

	api.GET("/readers", h.ListReaders)
	api.POST("/readers", h.CreateReader)
	api.GET("/readers/:id", h.GetReader)
	api.PUT("/readers/:id", h.UpdateReader)
	api.DELETE("/readers/:id", h.DeleteReader)

	api.GET("/export/books", h.ExportBooks)
	api.GET("/export/readers", h.ExportReaders)
	api.GET("/export/all", h.ExportAll)
	api.POST("/import/readers", h.ImportReaders)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func ok(c echo.Context, data interface{}, msg string) error {
	return c.JSON(http.StatusOK, model.OK(data, msg))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, model.Err(http.StatusBadRequest, msg))
}

// fail maps the error taxonomy onto the response envelope. Business-rule
// violations come back as 400 with their own message; anything unexpected is
// logged in full and reported with a generic retry-later message.
func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrReaderNotFound),
		errors.Is(err, errs.ErrBookNotFound),
		errors.Is(err, errs.ErrCategoryNotFound),
		errors.Is(err, errs.ErrBorrowNotFound),
		errors.Is(err, errs.ErrNoAvailable),
		errors.Is(err, errs.ErrHasOutstanding),
		errors.Is(err, errs.ErrDuplicate):
		return badRequest(c, err.Error())
	case errors.Is(err, errs.ErrLockTimeout):
		return c.JSON(http.StatusInternalServerError,
			model.Err(http.StatusInternalServerError, errs.ErrLockTimeout.Error()))
	default:
		h.log.Error("internal error", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError,
			model.Err(http.StatusInternalServerError, "operation failed, please retry later"))
	}
}
