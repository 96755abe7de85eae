package handler

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ExportBooks(c echo.Context) error {
	return h.export(c, h.librarySvc.ExportBooks, "books.xlsx")
}

func (h *Handler) ExportReaders(c echo.Context) error {
	return h.export(c, h.librarySvc.ExportReaders, "readers.xlsx")
}

func (h *Handler) ExportAll(c echo.Context) error {
	return h.export(c, h.librarySvc.ExportAll, "library.xlsx")
}

func (h *Handler) export(c echo.Context, build func(ctx context.Context) ([]byte, error), filename string) error {
	ctx := c.Request().Context()
	data, err := build(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// ImportReaders accepts a multipart xlsx upload. The upload is spooled into
// the uploads dir first; stale spool files get removed by the sweeper.
func (h *Handler) ImportReaders(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file upload")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer src.Close() //nolint:errcheck

	var r io.Reader = src
	if h.uploadDir != "" {
		tmp, err := h.spool(src)
		if err != nil {
			return h.fail(c, err)
		}
		defer tmp.Close() //nolint:errcheck
		r = tmp
	}

	ctx := c.Request().Context()
	res, err := h.librarySvc.ImportReaders(ctx, r)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return ok(c, res, "import finished")
}

func (h *Handler) spool(src io.Reader) (*os.File, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(h.uploadDir, "import-*.xlsx")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close() //nolint:errcheck
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close() //nolint:errcheck
		return nil, err
	}
	return tmp, nil
}
