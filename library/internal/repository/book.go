package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	"go.uber.org/zap"
)

const bookColumns = `b.book_id, b.title, b.author, b.isbn, b.publisher, b.publish_date,
	b.stock, b.available, b.category_id, bc.name as category_name, b.description`

func (r *repository) bookBase() sq.SelectBuilder {
	return qb.Select().
		From(booksTableName + " b").
		Join(fmt.Sprintf("%s bc on b.category_id = bc.category_id", categoriesTableName))
}

func (r *repository) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	query, args, err := r.bookBase().
		Columns(bookColumns).
		Where(sq.Eq{"b.book_id": bookID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) SearchBooks(ctx context.Context, f model.BookFilter) (model.ListBooks, error) {
	base := r.bookBase()
	if f.Category != "" {
		base = base.Where(sq.Eq{"bc.name": f.Category})
	}
	if f.Title != "" {
		base = base.Where(sq.ILike{"b.title": "%" + f.Title + "%"})
	}
	if f.Author != "" {
		base = base.Where(sq.ILike{"b.author": "%" + f.Author + "%"})
	}
	if f.Publisher != "" {
		base = base.Where(sq.ILike{"b.publisher": "%" + f.Publisher + "%"})
	}
	if f.Stock != nil {
		if *f.Stock > 0 {
			base = base.Where(sq.GtOrEq{"b.available": *f.Stock})
		} else {
			base = base.Where(sq.Gt{"b.available": 0})
		}
	}

	total, err := r.count(ctx, base.Columns("count(*)"))
	if err != nil {
		return model.ListBooks{}, err
	}

	q := pageClause(base.Columns(bookColumns).OrderBy("b.book_id"), f.Page, f.PageSize)
	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("SearchBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBooks{}, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.ListBooks{}, errors.Wrap(err, "pgx.CollectRows")
	}

	return model.ListBooks{
		Total:    total,
		List:     books,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// CreateBook initialises available to stock: a new catalog entry has every
// copy on the shelf.
func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q := fmt.Sprintf(`insert into %s (title, author, isbn, publisher, publish_date, stock, available, category_id, description)
	values (@title, @author, @isbn, @publisher, @publish_date, @stock, @stock, @category_id, @description)
	returning book_id`, booksTableName)
	args := pgx.NamedArgs{
		"title":        req.Title,
		"author":       req.Author,
		"isbn":         req.ISBN,
		"publisher":    req.Publisher,
		"publish_date": datePtr(req.PublishDate),
		"stock":        *req.Stock,
		"category_id":  req.CategoryID,
		"description":  req.Description,
	}

	var bookID int
	if err := r.db.QueryRow(ctx, q, args).Scan(&bookID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return model.Book{}, errs.ErrCategoryNotFound
		}
		r.log.Error("CreateBook", zap.String("title", req.Title), zap.Error(err))
		return model.Book{}, classify(err)
	}
	return r.GetBook(ctx, bookID)
}

func (r *repository) UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) (model.Book, error) {
	upd := qb.Update(booksTableName)
	set := false
	if req.Title != nil {
		upd, set = upd.Set("title", *req.Title), true
	}
	if req.Author != nil {
		upd, set = upd.Set("author", *req.Author), true
	}
	if req.ISBN != nil {
		upd, set = upd.Set("isbn", *req.ISBN), true
	}
	if req.Publisher != nil {
		upd, set = upd.Set("publisher", *req.Publisher), true
	}
	if req.PublishDate != nil {
		upd, set = upd.Set("publish_date", req.PublishDate.Time), true
	}
	if req.CategoryID != nil {
		upd, set = upd.Set("category_id", *req.CategoryID), true
	}
	if req.Description != nil {
		upd, set = upd.Set("description", *req.Description), true
	}
	if !set {
		return r.GetBook(ctx, bookID)
	}

	query, args, err := upd.Where(sq.Eq{"book_id": bookID}).ToSql()
	if err != nil {
		return model.Book{}, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return model.Book{}, errs.ErrCategoryNotFound
		}
		return model.Book{}, classify(err)
	}
	if tag.RowsAffected() == 0 {
		return model.Book{}, errs.ErrBookNotFound
	}
	return r.GetBook(ctx, bookID)
}

func (r *repository) DeleteBook(ctx context.Context, bookID int) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"book_id": bookID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

func datePtr(d *model.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}
