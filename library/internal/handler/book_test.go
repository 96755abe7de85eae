package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/handler"
	"github.com/Astemirdum/book-management/library/internal/model"
	"github.com/Astemirdum/book-management/pkg/validate"

	service_mocks "github.com/Astemirdum/book-management/library/internal/handler/mocks"
)

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	stock := 5
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			body: `{"title":"The Go Programming Language","author":"Donovan","stock":5,"category_id":1}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(context.Background(), model.CreateBookRequest{
						Title:      "The Go Programming Language",
						Author:     "Donovan",
						Stock:      &stock,
						CategoryID: 1,
					}).
					Return(model.Book{
						BookID:       10,
						Title:        "The Go Programming Language",
						Author:       "Donovan",
						Stock:        5,
						Available:    5,
						CategoryID:   1,
						CategoryName: "Technology",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"code":200,"data":{"book_id":10,"title":"The Go Programming Language","author":"Donovan","isbn":null,"publisher":null,"publish_date":null,"stock":5,"available":5,"category_id":1,"category_name":"Technology","description":null},"msg":"book created"}`,
			},
		},
		{
			name: "err. unknown category",
			body: `{"title":"The Go Programming Language","author":"Donovan","stock":5,"category_id":99}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(context.Background(), model.CreateBookRequest{
						Title:      "The Go Programming Language",
						Author:     "Donovan",
						Stock:      &stock,
						CategoryID: 99,
					}).
					Return(model.Book{}, errs.ErrCategoryNotFound)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"code":400,"data":null,"msg":"book category not found"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, "", log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/books", h.CreateBook)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_SearchBooks(t *testing.T) {
	t.Parallel()
	var (
		anyInStock = 0
		atLeastTwo = 2
	)
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name:   "ok. stock=0 means any copy on the shelf",
			target: "/api/v1/books/search?stock=0",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					SearchBooks(context.Background(), model.BookFilter{Stock: &anyInStock, Page: 1, PageSize: 10}).
					Return(model.ListBooks{Total: 0, List: []model.Book{}, Page: 1, PageSize: 10}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"code":200,"data":{"total":0,"list":[],"page":1,"pageSize":10},"msg":"query ok"}`,
			},
		},
		{
			name:   "ok. stock=2 means at least two copies",
			target: "/api/v1/books/search?stock=2&title=go",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					SearchBooks(context.Background(), model.BookFilter{Title: "go", Stock: &atLeastTwo, Page: 1, PageSize: 10}).
					Return(model.ListBooks{Total: 0, List: []model.Book{}, Page: 1, PageSize: 10}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"code":200,"data":{"total":0,"list":[],"page":1,"pageSize":10},"msg":"query ok"}`,
			},
		},
		{
			name:   "ok. no stock param leaves the filter unset",
			target: "/api/v1/books/search?author=donovan",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					SearchBooks(context.Background(), model.BookFilter{Author: "donovan", Page: 1, PageSize: 10}).
					Return(model.ListBooks{Total: 0, List: []model.Book{}, Page: 1, PageSize: 10}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"code":200,"data":{"total":0,"list":[],"page":1,"pageSize":10},"msg":"query ok"}`,
			},
		},
		{
			name:         "err. negative stock",
			target:       "/api/v1/books/search?stock=-1",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"code":400,"data":null,"msg":"invalid stock"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, "", log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/api/v1/books/search", h.SearchBooks)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name:   "ok",
			target: "/api/v1/books/10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					GetBook(context.Background(), 10).
					Return(model.Book{
						BookID:       10,
						Title:        "The Go Programming Language",
						Author:       "Donovan",
						Stock:        5,
						Available:    4,
						CategoryID:   1,
						CategoryName: "Technology",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"code":200,"data":{"book_id":10,"title":"The Go Programming Language","author":"Donovan","isbn":null,"publisher":null,"publish_date":null,"stock":5,"available":4,"category_id":1,"category_name":"Technology","description":null},"msg":"query ok"}`,
			},
		},
		{
			name:   "err. not found",
			target: "/api/v1/books/77",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					GetBook(context.Background(), 77).
					Return(model.Book{}, errs.ErrBookNotFound)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"code":400,"data":null,"msg":"book not found"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. invalid id",
			target:       "/api/v1/books/abc",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"code":400,"data":null,"msg":"invalid id"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, "", log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/api/v1/books/:id", h.GetBook)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name:   "ok",
			target: "/api/v1/books/10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteBook(context.Background(), 10).Return(nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"code":200,"data":null,"msg":"book deleted"}`,
			},
		},
		{
			name:   "err. outstanding borrows",
			target: "/api/v1/books/10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteBook(context.Background(), 10).Return(errs.ErrHasOutstanding)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"code":400,"data":null,"msg":"outstanding borrows exist"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, "", log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.DELETE("/api/v1/books/:id", h.DeleteBook)

			r := httptest.NewRequest(http.MethodDelete, tt.target, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
