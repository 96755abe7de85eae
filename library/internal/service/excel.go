package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/book-management/library/internal/model"
	"github.com/Astemirdum/book-management/pkg/excel"
)

var (
	bookHeaders   = []string{"book_id", "title", "author", "isbn", "publisher", "publish_date", "category", "stock", "available"}
	readerHeaders = []string{"reader_id", "name", "email", "phone", "student_id", "type"}
)

func (s *Service) ExportBooks(ctx context.Context) ([]byte, error) {
	books, err := s.repo.SearchBooks(ctx, model.BookFilter{})
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	if err := buildBookSheet(f, "Sheet1", books.List); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

func (s *Service) ExportReaders(ctx context.Context) ([]byte, error) {
	readers, err := s.repo.ListReaders(ctx, model.ReaderFilter{})
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	if err := buildReaderSheet(f, "Sheet1", readers.List); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

// ExportAll builds a workbook with one sheet per entity; the two result sets
// are fetched concurrently.
func (s *Service) ExportAll(ctx context.Context) ([]byte, error) {
	var (
		books   model.ListBooks
		readers model.ListReaders
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.repo.SearchBooks(gctx, model.BookFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		readers, err = s.repo.ListReaders(gctx, model.ReaderFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	if err := buildBookSheet(f, "books", books.List); err != nil {
		return nil, err
	}
	if err := buildReaderSheet(f, "readers", readers.List); err != nil {
		return nil, err
	}
	// Drop the default sheet left over from NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

// ImportReaders reads reader rows (name, email, phone, student_id, type) from
// an xlsx stream. Malformed rows are reported, not fatal: the rest of the
// batch still lands.
func (s *Service) ImportReaders(ctx context.Context, r io.Reader) (model.ImportResult, error) {
	rows, err := excel.ParseRows(r)
	if err != nil {
		return model.ImportResult{}, err
	}

	var res model.ImportResult
	for i, row := range rows {
		req, err := readerRowToRequest(row)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if _, err := s.repo.CreateReader(ctx, req); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		res.Inserted++
	}
	return res, nil
}

func readerRowToRequest(row []string) (model.CreateReaderRequest, error) {
	cell := func(i int) *string {
		if i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return &v
			}
		}
		return nil
	}
	name := cell(0)
	if name == nil {
		return model.CreateReaderRequest{}, fmt.Errorf("name is required")
	}
	req := model.CreateReaderRequest{
		Name:      *name,
		Email:     cell(1),
		Phone:     cell(2),
		StudentID: cell(3),
	}
	if t := cell(4); t != nil {
		req.Type = *t
	}
	return req, nil
}

func buildBookSheet(f *excelize.File, sheet string, books []model.Book) error {
	rows := make([][]interface{}, 0, len(books))
	for _, b := range books {
		rows = append(rows, []interface{}{
			b.BookID, b.Title, b.Author, strVal(b.ISBN), strVal(b.Publisher),
			dateVal(b.PublishDate), b.CategoryName, b.Stock, b.Available,
		})
	}
	return excel.BuildSheet(f, sheet, bookHeaders, rows)
}

func buildReaderSheet(f *excelize.File, sheet string, readers []model.Reader) error {
	rows := make([][]interface{}, 0, len(readers))
	for _, rd := range readers {
		rows = append(rows, []interface{}{
			rd.ReaderID, rd.Name, strVal(rd.Email), strVal(rd.Phone), strVal(rd.StudentID), rd.Type,
		})
	}
	return excel.BuildSheet(f, sheet, readerHeaders, rows)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateVal(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
