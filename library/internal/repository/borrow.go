package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	"go.uber.org/zap"
)

const borrowColumns = `borrow_id, reader_id, book_id, borrow_date, due_date, return_date, status`

// CreateBorrow inserts the borrow row and decrements the book's available
// count as one atomic unit. The decrement is conditional on available > 0,
// so two concurrent borrows of the last copy cannot both commit.
func (r *repository) CreateBorrow(ctx context.Context, readerID, bookID int, borrowDate, dueDate time.Time) (model.Borrow, error) {
	var b model.Borrow
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		q := fmt.Sprintf(`insert into %s (reader_id, book_id, borrow_date, due_date, status)
	values (@reader_id, @book_id, @borrow_date, @due_date, @status)
	returning %s`, borrowsTableName, borrowColumns)
		args := pgx.NamedArgs{
			"reader_id":   readerID,
			"book_id":     bookID,
			"borrow_date": borrowDate,
			"due_date":    dueDate,
			"status":      model.StatusBorrowed,
		}
		rows, err := tx.Query(ctx, q, args)
		if err != nil {
			return err
		}
		b, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			fmt.Sprintf(`update %s set available = available - 1 where book_id = $1 and available > 0`, booksTableName),
			bookID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrNoAvailable
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errs.ErrNoAvailable) {
			r.log.Error("CreateBorrow", zap.Int("bookID", bookID), zap.Error(err))
		}
		return model.Borrow{}, classify(err)
	}
	return b, nil
}

// ReturnBorrow closes an outstanding borrow and gives the copy back. The
// update matches on reader_id as well: a return naming the wrong reader for
// a valid borrow id is rejected, not silently corrected. The increment is
// deliberately uncapped at stock (stock may have been reduced since issue).
func (r *repository) ReturnBorrow(ctx context.Context, borrowID, readerID int, returnDate time.Time) (model.Borrow, error) {
	var b model.Borrow
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		q := fmt.Sprintf(`update %s
	set status = @returned, return_date = @return_date
	where borrow_id = @borrow_id and reader_id = @reader_id and status in (@borrowed, @overdue)
	returning %s`, borrowsTableName, borrowColumns)
		args := pgx.NamedArgs{
			"returned":    model.StatusReturned,
			"return_date": returnDate,
			"borrow_id":   borrowID,
			"reader_id":   readerID,
			"borrowed":    model.StatusBorrowed,
			"overdue":     model.StatusOverdue,
		}
		rows, err := tx.Query(ctx, q, args)
		if err != nil {
			return err
		}
		b, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ErrBorrowNotFound
			}
			return err
		}

		_, err = tx.Exec(ctx,
			fmt.Sprintf(`update %s set available = available + 1 where book_id = $1`, booksTableName),
			b.BookID)
		return err
	})
	if err != nil {
		if !errors.Is(err, errs.ErrBorrowNotFound) {
			r.log.Error("ReturnBorrow", zap.Int("borrowID", borrowID), zap.Error(err))
		}
		return model.Borrow{}, classify(err)
	}
	return b, nil
}

// Projection expressions shared by listing and counting. The stored status
// column is never trusted for display: a past-due 'borrowed' row reads as
// overdue until something durably promotes it.
const (
	overdueCond    = `(b.status = 'borrowed' and b.due_date < now()) or b.status = 'overdue'`
	notOverdueCond = `b.status = 'borrowed' and b.due_date >= now()`
)

func (r *repository) ListBorrows(ctx context.Context, f model.BorrowFilter) (model.ListBorrows, error) {
	base := qb.Select().
		From(borrowsTableName + " b").
		Join(fmt.Sprintf("%s r on b.reader_id = r.reader_id", readersTableName)).
		Join(fmt.Sprintf("%s bk on b.book_id = bk.book_id", booksTableName))

	if f.Status != "" && f.Status != "all" {
		base = base.Where(sq.Eq{"b.status": f.Status})
	}
	if f.ReaderID != 0 {
		base = base.Where(sq.Eq{"b.reader_id": f.ReaderID})
	}
	if f.IsOverdue {
		base = base.Where("(" + overdueCond + ")")
	}
	if f.NotOverdue {
		base = base.Where(notOverdueCond)
	}

	total, err := r.count(ctx, base.Columns("count(*)"))
	if err != nil {
		return model.ListBorrows{}, err
	}

	q := base.Columns(
		"b.borrow_id", "b.reader_id", "r.name as reader_name",
		"b.book_id", "bk.title as book_title",
		"b.borrow_date", "b.due_date", "b.return_date", "b.status",
		fmt.Sprintf("case when %s then true else false end as is_overdue", overdueCond),
		"case when b.status = 'borrowed' and b.due_date < now() then 'overdue' else b.status end as actual_status",
		"case when b.status = 'borrowed' and b.due_date < now() then ceil(extract(epoch from now() - b.due_date) / 86400)::int else 0 end as overdue_days",
	).OrderBy("b.borrow_date desc")
	q = pageClause(q, f.Page, f.PageSize)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBorrows{}, err
	}
	r.log.Debug("ListBorrows", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBorrows{}, err
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowListItem])
	if err != nil {
		return model.ListBorrows{}, errors.Wrap(err, "pgx.CollectRows")
	}

	return model.ListBorrows{
		Total:    total,
		List:     items,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

func (r *repository) OutstandingByBook(ctx context.Context, bookID int) (int, error) {
	return r.outstanding(ctx, "book_id", bookID)
}

func (r *repository) OutstandingByReader(ctx context.Context, readerID int) (int, error) {
	return r.outstanding(ctx, "reader_id", readerID)
}

func (r *repository) outstanding(ctx context.Context, column string, id int) (int, error) {
	q := fmt.Sprintf(`select count(*) from %s where %s = $1 and status in ($2, $3)`,
		borrowsTableName, column)
	var count int
	if err := r.db.QueryRow(ctx, q, id, model.StatusBorrowed, model.StatusOverdue).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
