package model

import (
	"net/http"
	"time"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

func OK(data interface{}, msg string) Response {
	return Response{Code: http.StatusOK, Data: data, Msg: msg}
}

func Err(code int, msg string) Response {
	return Response{Code: code, Data: nil, Msg: msg}
}

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

type Book struct {
	BookID       int        `json:"book_id" db:"book_id"`
	Title        string     `json:"title" db:"title"`
	Author       string     `json:"author" db:"author"`
	ISBN         *string    `json:"isbn" db:"isbn"`
	Publisher    *string    `json:"publisher" db:"publisher"`
	PublishDate  *time.Time `json:"publish_date" db:"publish_date"`
	Stock        int        `json:"stock" db:"stock"`
	Available    int        `json:"available" db:"available"`
	CategoryID   int        `json:"category_id" db:"category_id"`
	CategoryName string     `json:"category_name" db:"category_name"`
	Description  *string    `json:"description" db:"description"`
}

type Reader struct {
	ReaderID  int       `json:"reader_id" db:"reader_id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	StudentID *string   `json:"student_id" db:"student_id"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Borrow struct {
	BorrowID   int        `json:"borrow_id" db:"borrow_id"`
	ReaderID   int        `json:"reader_id" db:"reader_id"`
	BookID     int        `json:"book_id" db:"book_id"`
	BorrowDate time.Time  `json:"borrow_date" db:"borrow_date"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty" db:"return_date"`
	Status     Status     `json:"status" db:"status"`
}

type BorrowRequest struct {
	BookID     int `json:"book_id" validate:"required,gt=0"`
	ReaderID   int `json:"reader_id" validate:"required,gt=0"`
	BorrowDays int `json:"borrow_days" validate:"omitempty,gt=0"`
}

type ReturnRequest struct {
	BorrowID int `json:"borrow_id" validate:"required,gt=0"`
	ReaderID int `json:"reader_id" validate:"required,gt=0"`
}

// ReturnResponse is the returned Borrow plus the overdue verdict computed at
// return time.
type ReturnResponse struct {
	Borrow      `json:",inline"`
	IsOverdue   bool `json:"is_overdue"`
	OverdueDays int  `json:"overdue_days"`
}

// BorrowListItem carries the read-time projection: actual_status and
// overdue_days come from the query, never from the stored status column.
type BorrowListItem struct {
	BorrowID     int        `json:"borrow_id" db:"borrow_id"`
	ReaderID     int        `json:"reader_id" db:"reader_id"`
	ReaderName   string     `json:"reader_name" db:"reader_name"`
	BookID       int        `json:"book_id" db:"book_id"`
	BookTitle    string     `json:"book_title" db:"book_title"`
	BorrowDate   time.Time  `json:"borrow_date" db:"borrow_date"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	ReturnDate   *time.Time `json:"return_date" db:"return_date"`
	Status       Status     `json:"status" db:"status"`
	IsOverdue    bool       `json:"is_overdue" db:"is_overdue"`
	ActualStatus Status     `json:"actual_status" db:"actual_status"`
	OverdueDays  int        `json:"overdue_days" db:"overdue_days"`
}

type BorrowFilter struct {
	Status     string
	ReaderID   int
	IsOverdue  bool
	NotOverdue bool
	Page       int
	PageSize   int
}

type ListBorrows struct {
	Total    int              `json:"total"`
	List     []BorrowListItem `json:"list"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// BookFilter narrows a catalog search. Stock filters on availability: 0
// means any copy on the shelf, a positive value means at least that many.
type BookFilter struct {
	Category  string
	Title     string
	Author    string
	Publisher string
	Stock     *int
	Page      int
	PageSize  int
}

type ListBooks struct {
	Total    int    `json:"total"`
	List     []Book `json:"list"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	ISBN        *string `json:"isbn"`
	Publisher   *string `json:"publisher"`
	PublishDate *Date   `json:"publish_date"`
	Stock       *int    `json:"stock" validate:"required,gte=0"`
	CategoryID  int     `json:"category_id" validate:"required,gt=0"`
	Description *string `json:"description"`
}

// UpdateBookRequest covers catalog fields only; stock and available are owned
// by the borrow lifecycle.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	ISBN        *string `json:"isbn"`
	Publisher   *string `json:"publisher"`
	PublishDate *Date   `json:"publish_date"`
	CategoryID  *int    `json:"category_id"`
	Description *string `json:"description"`
}

type ReaderFilter struct {
	Keyword  string
	Page     int
	PageSize int
}

type ListReaders struct {
	Total    int      `json:"total"`
	List     []Reader `json:"list"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

type CreateReaderRequest struct {
	Name      string  `json:"name" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	StudentID *string `json:"student_id"`
	Type      string  `json:"type" validate:"omitempty,oneof=student teacher staff other"`
}

type UpdateReaderRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	StudentID *string `json:"student_id"`
	Type      *string `json:"type" validate:"omitempty,oneof=student teacher staff other"`
}

// ImportResult reports a reader import: malformed rows are collected, not
// fatal to the batch.
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Date accepts bare yyyy-mm-dd values in JSON bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}
	t, err := time.Parse(`"`+time.DateOnly+`"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}
