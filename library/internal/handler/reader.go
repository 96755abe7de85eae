package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/book-management/library/internal/model"
)

// ListReaders godoc
//
//	@Summary	List readers with optional keyword search
//	@Router		/api/v1/readers [get]
func (h *Handler) ListReaders(c echo.Context) error {
	page, pageSize, err := paging(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	f := model.ReaderFilter{
		Keyword:  c.QueryParam("keyword"),
		Page:     page,
		PageSize: pageSize,
	}

	ctx := c.Request().Context()
	list, err := h.librarySvc.ListReaders(ctx, f)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, list, "query ok")
}

func (h *Handler) GetReader(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	reader, err := h.librarySvc.GetReader(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, reader, "query ok")
}

func (h *Handler) CreateReader(c echo.Context) error {
	var req model.CreateReaderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	reader, err := h.librarySvc.CreateReader(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, reader, "reader created")
}

func (h *Handler) UpdateReader(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateReaderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	reader, err := h.librarySvc.UpdateReader(ctx, id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return ok(c, reader, "reader updated")
}

// DeleteReader refuses while the reader has outstanding borrows.
func (h *Handler) DeleteReader(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	if err := h.librarySvc.DeleteReader(ctx, id); err != nil {
		return h.fail(c, err)
	}
	return ok(c, nil, "reader deleted")
}
