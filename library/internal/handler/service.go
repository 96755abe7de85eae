package handler

import (
	"context"
	"io"

	"github.com/Astemirdum/book-management/library/internal/model"
	"github.com/Astemirdum/book-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	Borrow(ctx context.Context, req model.BorrowRequest) (model.Borrow, error)
	Return(ctx context.Context, req model.ReturnRequest) (model.ReturnResponse, error)
	ListBorrows(ctx context.Context, f model.BorrowFilter) (model.ListBorrows, error)

	GetBook(ctx context.Context, bookID int) (model.Book, error)
	SearchBooks(ctx context.Context, f model.BookFilter) (model.ListBooks, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID int) error

	GetReader(ctx context.Context, readerID int) (model.Reader, error)
	ListReaders(ctx context.Context, f model.ReaderFilter) (model.ListReaders, error)
	CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error)
	UpdateReader(ctx context.Context, readerID int, req model.UpdateReaderRequest) (model.Reader, error)
	DeleteReader(ctx context.Context, readerID int) error

	ExportBooks(ctx context.Context) ([]byte, error)
	ExportReaders(ctx context.Context) ([]byte, error)
	ExportAll(ctx context.Context) ([]byte, error)
	ImportReaders(ctx context.Context, r io.Reader) (model.ImportResult, error)
}

var _ LibraryService = (*service.Service)(nil)
