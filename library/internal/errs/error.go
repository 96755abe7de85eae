package errs

import (
	"errors"
)

var (
	ErrReaderNotFound   = errors.New("reader not found")
	ErrBookNotFound     = errors.New("book not found")
	ErrCategoryNotFound = errors.New("book category not found")

	// ErrNoAvailable rejects a borrow when every copy is out.
	ErrNoAvailable = errors.New("no copies available")

	// ErrBorrowNotFound rejects a return when no outstanding borrow matches
	// both the borrow id and the reader who took it out.
	ErrBorrowNotFound = errors.New("no such outstanding borrow for this reader")

	// ErrHasOutstanding blocks deleting a reader or book with open borrows.
	ErrHasOutstanding = errors.New("outstanding borrows exist")

	ErrDuplicate = errors.New("email or student_id already exists")

	// ErrLockTimeout is reported separately from other storage failures so
	// callers may choose to retry.
	ErrLockTimeout = errors.New("system busy, please retry later")
)
