package service

import (
	"context"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
)

func (s *Service) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) SearchBooks(ctx context.Context, f model.BookFilter) (model.ListBooks, error) {
	return s.repo.SearchBooks(ctx, f)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, bookID, req)
}

// DeleteBook refuses while any copy is still out.
func (s *Service) DeleteBook(ctx context.Context, bookID int) error {
	outstanding, err := s.repo.OutstandingByBook(ctx, bookID)
	if err != nil {
		return err
	}
	if outstanding > 0 {
		return errs.ErrHasOutstanding
	}
	return s.repo.DeleteBook(ctx, bookID)
}

func (s *Service) GetReader(ctx context.Context, readerID int) (model.Reader, error) {
	return s.repo.GetReader(ctx, readerID)
}

func (s *Service) ListReaders(ctx context.Context, f model.ReaderFilter) (model.ListReaders, error) {
	return s.repo.ListReaders(ctx, f)
}

func (s *Service) CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error) {
	return s.repo.CreateReader(ctx, req)
}

func (s *Service) UpdateReader(ctx context.Context, readerID int, req model.UpdateReaderRequest) (model.Reader, error) {
	return s.repo.UpdateReader(ctx, readerID, req)
}

// DeleteReader refuses while the reader still holds books.
func (s *Service) DeleteReader(ctx context.Context, readerID int) error {
	outstanding, err := s.repo.OutstandingByReader(ctx, readerID)
	if err != nil {
		return err
	}
	if outstanding > 0 {
		return errs.ErrHasOutstanding
	}
	return s.repo.DeleteReader(ctx, readerID)
}
