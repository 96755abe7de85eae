package repository

import (
	"context"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateBorrow(ctx context.Context, readerID, bookID int, borrowDate, dueDate time.Time) (model.Borrow, error)
	ReturnBorrow(ctx context.Context, borrowID, readerID int, returnDate time.Time) (model.Borrow, error)
	ListBorrows(ctx context.Context, f model.BorrowFilter) (model.ListBorrows, error)
	OutstandingByBook(ctx context.Context, bookID int) (int, error)
	OutstandingByReader(ctx context.Context, readerID int) (int, error)

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
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName      = `books`
	readersTableName    = `readers`
	borrowsTableName    = `borrows`
	categoriesTableName = `book_categories`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn inside one transaction: commit on nil, rollback on any
// error. Every multi-statement write in this package goes through here.
func (r *repository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// classify maps storage-level failures onto the package error taxonomy.
// Lock waits get their own sentinel so callers can decide to retry.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.LockNotAvailable, pgerrcode.DeadlockDetected:
			return errs.ErrLockTimeout
		case pgerrcode.UniqueViolation:
			return errs.ErrDuplicate
		}
	}
	return err
}

func pageClause(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}

func (r *repository) count(ctx context.Context, q sq.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
