package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/book-management/library/internal/model"
)

// SearchBooks godoc
//
//	@Summary	Combined catalog search
//	@Router		/api/v1/books/search [get]
func (h *Handler) SearchBooks(c echo.Context) error {
	page, pageSize, err := paging(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	f := model.BookFilter{
		Category:  c.QueryParam("category"),
		Title:     c.QueryParam("title"),
		Author:    c.QueryParam("author"),
		Publisher: c.QueryParam("publisher"),
		Page:      page,
		PageSize:  pageSize,
	}
	if v := c.QueryParam("stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return badRequest(c, "invalid stock")
		}
		f.Stock = &n
	}

	ctx := c.Request().Context()
	list, err := h.librarySvc.SearchBooks(ctx, f)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, list, "query ok")
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	book, err := h.librarySvc.GetBook(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, book, "query ok")
}

// CreateBook godoc
//
//	@Summary	Add a catalog entry
//	@Router		/api/v1/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	book, err := h.librarySvc.CreateBook(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, book, "book created")
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	book, err := h.librarySvc.UpdateBook(ctx, id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, book, "book updated")
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if err := h.librarySvc.DeleteBook(ctx, id); err != nil {
		return h.fail(c, err)
	}
	return ok(c, nil, "book deleted")
}
