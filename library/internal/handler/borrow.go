package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/book-management/library/internal/model"
)

// Borrow godoc
//
//	@Summary	Borrow a book
//	@Router		/api/v1/borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.BookID <= 0 || req.ReaderID <= 0 {
		return badRequest(c, "missing required params: book_id or reader_id")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	borrow, err := h.librarySvc.Borrow(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, borrow, "borrow ok")
}

// Return godoc
//
//	@Summary	Return a borrowed book
//	@Router		/api/v1/return [put]
func (h *Handler) Return(c echo.Context) error {
	var req model.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.BorrowID <= 0 || req.ReaderID <= 0 {
		return badRequest(c, "missing required params: borrow_id or reader_id")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	resp, err := h.librarySvc.Return(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, resp, "return ok")
}

// ListBorrows godoc
//
//	@Summary	List borrow records with the overdue projection
//	@Router		/api/v1/borrows [get]
func (h *Handler) ListBorrows(c echo.Context) error {
	page, pageSize, err := paging(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	readerID := 0
	if v := c.QueryParam("reader_id"); v != "" {
		if readerID, err = strconv.Atoi(v); err != nil || readerID <= 0 {
			return badRequest(c, "invalid reader_id")
		}
	}

	f := model.BorrowFilter{
		Status:     c.QueryParam("status"),
		ReaderID:   readerID,
		IsOverdue:  c.QueryParam("is_overdue") == "true",
		NotOverdue: c.QueryParam("not_overdue") == "true",
		Page:       page,
		PageSize:   pageSize,
	}

	ctx := c.Request().Context()
	list, err := h.librarySvc.ListBorrows(ctx, f)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, list, "query ok")
}

// paging defaults to page 1 with pageSize 10, capped at 100.
func paging(c echo.Context) (page, pageSize int, err error) {
	page, pageSize = 1, 10
	if v := c.QueryParam("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid page")
		}
	}
	if v := c.QueryParam("pageSize"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid pageSize")
		}
	}
	if page < 1 || pageSize < 1 || pageSize > 100 {
		return 0, 0, fmt.Errorf("invalid paging params")
	}
	return page, pageSize, nil
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
