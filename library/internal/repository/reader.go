package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	"go.uber.org/zap"
)

const readerColumns = `reader_id, name, email, phone, student_id, type, created_at`

func (r *repository) GetReader(ctx context.Context, readerID int) (model.Reader, error) {
	query, args, err := qb.Select(readerColumns).
		From(readersTableName).
		Where(sq.Eq{"reader_id": readerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reader{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Reader{}, err
	}
	defer rows.Close()

	reader, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reader])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Reader{}, errs.ErrReaderNotFound
		}
		return model.Reader{}, err
	}
	return reader, nil
}

func (r *repository) ListReaders(ctx context.Context, f model.ReaderFilter) (model.ListReaders, error) {
	base := qb.Select().From(readersTableName)
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		base = base.Where(sq.Or{
			sq.ILike{"name": kw},
			sq.ILike{"email": kw},
			sq.ILike{"phone": kw},
		})
	}

	total, err := r.count(ctx, base.Columns("count(*)"))
	if err != nil {
		return model.ListReaders{}, err
	}

	q := pageClause(base.Columns(readerColumns).OrderBy("reader_id"), f.Page, f.PageSize)
	query, args, err := q.ToSql()
	if err != nil {
		return model.ListReaders{}, err
	}
	r.log.Debug("ListReaders", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListReaders{}, err
	}
	defer rows.Close()

	readers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Reader])
	if err != nil {
		return model.ListReaders{}, errors.Wrap(err, "pgx.CollectRows")
	}

	return model.ListReaders{
		Total:    total,
		List:     readers,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

func (r *repository) CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error) {
	readerType := req.Type
	if readerType == "" {
		readerType = "student"
	}
	q := fmt.Sprintf(`insert into %s (name, email, phone, student_id, type)
	values (@name, @email, @phone, @student_id, @type)
	returning %s`, readersTableName, readerColumns)
	args := pgx.NamedArgs{
		"name":       req.Name,
		"email":      req.Email,
		"phone":      req.Phone,
		"student_id": req.StudentID,
		"type":       readerType,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Reader{}, classify(err)
	}
	reader, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reader])
	if err != nil {
		r.log.Error("CreateReader", zap.String("name", req.Name), zap.Error(err))
		return model.Reader{}, classify(err)
	}
	return reader, nil
}

func (r *repository) UpdateReader(ctx context.Context, readerID int, req model.UpdateReaderRequest) (model.Reader, error) {
	upd := qb.Update(readersTableName)
	set := false
	if req.Name != nil {
		upd, set = upd.Set("name", *req.Name), true
	}
	if req.Email != nil {
		upd, set = upd.Set("email", *req.Email), true
	}
	if req.Phone != nil {
		upd, set = upd.Set("phone", *req.Phone), true
	}
	if req.StudentID != nil {
		upd, set = upd.Set("student_id", *req.StudentID), true
	}
	if req.Type != nil {
		upd, set = upd.Set("type", *req.Type), true
	}
	if !set {
		return r.GetReader(ctx, readerID)
	}

	query, args, err := upd.Where(sq.Eq{"reader_id": readerID}).ToSql()
	if err != nil {
		return model.Reader{}, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return model.Reader{}, classify(err)
	}
	if tag.RowsAffected() == 0 {
		return model.Reader{}, errs.ErrReaderNotFound
	}
	return r.GetReader(ctx, readerID)
}

func (r *repository) DeleteReader(ctx context.Context, readerID int) error {
	query, args, err := qb.Delete(readersTableName).Where(sq.Eq{"reader_id": readerID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrReaderNotFound
	}
	return nil
}
