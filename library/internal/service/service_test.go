package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	"github.com/Astemirdum/book-management/library/internal/service"

	repo_mocks "github.com/Astemirdum/book-management/library/internal/repository/mocks"
)

func TestOverdue(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name       string
		returnedAt time.Time
		isOverdue  bool
		days       int
	}{
		{
			name:       "before due",
			returnedAt: due.Add(-time.Hour),
			isOverdue:  false,
			days:       0,
		},
		{
			name:       "exactly at due",
			returnedAt: due,
			isOverdue:  false,
			days:       0,
		},
		{
			name:       "one second late counts as a day",
			returnedAt: due.Add(time.Second),
			isOverdue:  true,
			days:       1,
		},
		{
			name:       "exactly one day late",
			returnedAt: due.Add(24 * time.Hour),
			isOverdue:  true,
			days:       1,
		},
		{
			name:       "one day and a second late",
			returnedAt: due.Add(24*time.Hour + time.Second),
			isOverdue:  true,
			days:       2,
		},
		{
			name:       "four days and 23 hours round up to five",
			returnedAt: due.Add(4*24*time.Hour + 23*time.Hour),
			isOverdue:  true,
			days:       5,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isOverdue, days := service.Overdue(due, tt.returnedAt)
			require.Equal(t, tt.isOverdue, isOverdue)
			require.Equal(t, tt.days, days)
		})
	}
}

func TestService_Borrow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.BorrowRequest{BookID: 3, ReaderID: 2}

	t.Run("reader checked before book", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().GetReader(ctx, 2).Return(model.Reader{}, errs.ErrReaderNotFound)

		svc := service.NewService(repo, nil, zap.NewNop())
		_, err := svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrReaderNotFound)
	})

	t.Run("book missing", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().GetReader(ctx, 2).Return(model.Reader{ReaderID: 2}, nil)
		repo.EXPECT().GetBook(ctx, 3).Return(model.Book{}, errs.ErrBookNotFound)

		svc := service.NewService(repo, nil, zap.NewNop())
		_, err := svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookNotFound)
	})

	t.Run("no copies available", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().GetReader(ctx, 2).Return(model.Reader{ReaderID: 2}, nil)
		repo.EXPECT().GetBook(ctx, 3).Return(model.Book{BookID: 3, Stock: 5, Available: 0}, nil)

		svc := service.NewService(repo, nil, zap.NewNop())
		_, err := svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrNoAvailable)
	})

	t.Run("default loan period is 14 days", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().GetReader(ctx, 2).Return(model.Reader{ReaderID: 2}, nil)
		repo.EXPECT().GetBook(ctx, 3).Return(model.Book{BookID: 3, Stock: 5, Available: 1}, nil)
		repo.EXPECT().
			CreateBorrow(ctx, 2, 3, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, readerID, bookID int, borrowDate, dueDate time.Time) (model.Borrow, error) {
				require.Equal(t, borrowDate.AddDate(0, 0, service.DefaultBorrowDays), dueDate)
				return model.Borrow{
					BorrowID:   1,
					ReaderID:   readerID,
					BookID:     bookID,
					BorrowDate: borrowDate,
					DueDate:    dueDate,
					Status:     model.StatusBorrowed,
				}, nil
			})

		svc := service.NewService(repo, nil, zap.NewNop())
		b, err := svc.Borrow(ctx, req)
		require.NoError(t, err)
		require.Equal(t, 1, b.BorrowID)
		require.Equal(t, model.StatusBorrowed, b.Status)
	})

	t.Run("custom loan period", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().GetReader(ctx, 2).Return(model.Reader{ReaderID: 2}, nil)
		repo.EXPECT().GetBook(ctx, 3).Return(model.Book{BookID: 3, Stock: 5, Available: 1}, nil)
		repo.EXPECT().
			CreateBorrow(ctx, 2, 3, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, readerID, bookID int, borrowDate, dueDate time.Time) (model.Borrow, error) {
				require.Equal(t, borrowDate.AddDate(0, 0, 30), dueDate)
				return model.Borrow{BorrowID: 2, ReaderID: readerID, BookID: bookID}, nil
			})

		svc := service.NewService(repo, nil, zap.NewNop())
		_, err := svc.Borrow(ctx, model.BorrowRequest{BookID: 3, ReaderID: 2, BorrowDays: 30})
		require.NoError(t, err)
	})

	t.Run("concurrent decrement loses in repo", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().GetReader(ctx, 2).Return(model.Reader{ReaderID: 2}, nil)
		repo.EXPECT().GetBook(ctx, 3).Return(model.Book{BookID: 3, Stock: 1, Available: 1}, nil)
		repo.EXPECT().
			CreateBorrow(ctx, 2, 3, gomock.Any(), gomock.Any()).
			Return(model.Borrow{}, errs.ErrNoAvailable)

		svc := service.NewService(repo, nil, zap.NewNop())
		_, err := svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrNoAvailable)
	})
}

func TestService_Return(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("on time", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().
			ReturnBorrow(ctx, 1, 2, gomock.Any()).
			DoAndReturn(func(_ context.Context, borrowID, readerID int, returnDate time.Time) (model.Borrow, error) {
				return model.Borrow{
					BorrowID:   borrowID,
					ReaderID:   readerID,
					BookID:     3,
					DueDate:    returnDate.AddDate(0, 0, 7),
					ReturnDate: &returnDate,
					Status:     model.StatusReturned,
				}, nil
			})

		svc := service.NewService(repo, nil, zap.NewNop())
		resp, err := svc.Return(ctx, model.ReturnRequest{BorrowID: 1, ReaderID: 2})
		require.NoError(t, err)
		require.False(t, resp.IsOverdue)
		require.Equal(t, 0, resp.OverdueDays)
		require.Equal(t, model.StatusReturned, resp.Status)
	})

	t.Run("late return reports overdue days", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().
			ReturnBorrow(ctx, 1, 2, gomock.Any()).
			DoAndReturn(func(_ context.Context, borrowID, readerID int, returnDate time.Time) (model.Borrow, error) {
				return model.Borrow{
					BorrowID:   borrowID,
					ReaderID:   readerID,
					BookID:     3,
					DueDate:    returnDate.Add(-(4*24*time.Hour + 23*time.Hour)),
					ReturnDate: &returnDate,
					Status:     model.StatusReturned,
				}, nil
			})

		svc := service.NewService(repo, nil, zap.NewNop())
		resp, err := svc.Return(ctx, model.ReturnRequest{BorrowID: 1, ReaderID: 2})
		require.NoError(t, err)
		require.True(t, resp.IsOverdue)
		require.Equal(t, 5, resp.OverdueDays)
	})

	t.Run("give-back is not capped at stock", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		// Stock may have shrunk while the copy was out. The return path
		// never reads the book row: the only repo call allowed here is
		// ReturnBorrow, whose unconditional increment may push available
		// past the current stock.
		repo.EXPECT().
			ReturnBorrow(ctx, 1, 2, gomock.Any()).
			DoAndReturn(func(_ context.Context, borrowID, readerID int, returnDate time.Time) (model.Borrow, error) {
				return model.Borrow{
					BorrowID:   borrowID,
					ReaderID:   readerID,
					BookID:     3,
					DueDate:    returnDate.AddDate(0, 0, 7),
					ReturnDate: &returnDate,
					Status:     model.StatusReturned,
				}, nil
			})

		svc := service.NewService(repo, nil, zap.NewNop())
		resp, err := svc.Return(ctx, model.ReturnRequest{BorrowID: 1, ReaderID: 2})
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, resp.Status)
	})

	t.Run("no outstanding borrow", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().
			ReturnBorrow(ctx, 1, 9, gomock.Any()).
			Return(model.Borrow{}, errs.ErrBorrowNotFound)

		svc := service.NewService(repo, nil, zap.NewNop())
		_, err := svc.Return(ctx, model.ReturnRequest{BorrowID: 1, ReaderID: 9})
		require.ErrorIs(t, err, errs.ErrBorrowNotFound)
	})
}

func TestService_DeleteGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("book with outstanding borrows", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().OutstandingByBook(ctx, 3).Return(2, nil)

		svc := service.NewService(repo, nil, zap.NewNop())
		err := svc.DeleteBook(ctx, 3)
		require.ErrorIs(t, err, errs.ErrHasOutstanding)
	})

	t.Run("book without outstanding borrows", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().OutstandingByBook(ctx, 3).Return(0, nil)
		repo.EXPECT().DeleteBook(ctx, 3).Return(nil)

		svc := service.NewService(repo, nil, zap.NewNop())
		require.NoError(t, svc.DeleteBook(ctx, 3))
	})

	t.Run("reader with outstanding borrows", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().OutstandingByReader(ctx, 2).Return(1, nil)

		svc := service.NewService(repo, nil, zap.NewNop())
		err := svc.DeleteReader(ctx, 2)
		require.ErrorIs(t, err, errs.ErrHasOutstanding)
	})

	t.Run("repo failure propagates", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		repo.EXPECT().OutstandingByReader(ctx, 2).Return(0, errors.New("db internal"))

		svc := service.NewService(repo, nil, zap.NewNop())
		require.Error(t, svc.DeleteReader(ctx, 2))
	})
}
