package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-management/library/internal/errs"
	"github.com/Astemirdum/book-management/library/internal/model"
	"github.com/Astemirdum/book-management/library/internal/repository"
	"github.com/Astemirdum/book-management/pkg/kafka"
)

// DefaultBorrowDays is the loan period applied when the caller does not
// supply one.
const DefaultBorrowDays = 14

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	producer sarama.SyncProducer
}

// NewService wires the loan lifecycle over the repository. producer may be
// nil; event publishing is then skipped.
func NewService(repo repository.Repository, producer sarama.SyncProducer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		producer: producer,
	}
}

// Borrow validates fail-fast (reader, then book, then stock) and creates the
// borrow inside one transaction. The repository re-checks stock with a
// conditional decrement, so a concurrent borrow of the last copy loses there
// rather than overselling.
func (s *Service) Borrow(ctx context.Context, req model.BorrowRequest) (model.Borrow, error) {
	if _, err := s.repo.GetReader(ctx, req.ReaderID); err != nil {
		return model.Borrow{}, err
	}
	book, err := s.repo.GetBook(ctx, req.BookID)
	if err != nil {
		return model.Borrow{}, err
	}
	if book.Available <= 0 {
		return model.Borrow{}, errs.ErrNoAvailable
	}

	days := req.BorrowDays
	if days == 0 {
		days = DefaultBorrowDays
	}
	now := time.Now().UTC().Truncate(time.Second)

	b, err := s.repo.CreateBorrow(ctx, req.ReaderID, req.BookID, now, now.AddDate(0, 0, days))
	if err != nil {
		return model.Borrow{}, err
	}
	s.publish(kafka.EventBorrow, b)
	return b, nil
}

// Return closes the matching outstanding borrow and computes the overdue
// verdict against the wall clock at return time.
func (s *Service) Return(ctx context.Context, req model.ReturnRequest) (model.ReturnResponse, error) {
	now := time.Now().UTC().Truncate(time.Second)
	b, err := s.repo.ReturnBorrow(ctx, req.BorrowID, req.ReaderID, now)
	if err != nil {
		return model.ReturnResponse{}, err
	}
	isOverdue, overdueDays := Overdue(b.DueDate, now)
	s.publish(kafka.EventReturn, b)
	return model.ReturnResponse{
		Borrow:      b,
		IsOverdue:   isOverdue,
		OverdueDays: overdueDays,
	}, nil
}

func (s *Service) ListBorrows(ctx context.Context, f model.BorrowFilter) (model.ListBorrows, error) {
	return s.repo.ListBorrows(ctx, f)
}

// Overdue reports whether returnedAt is past due and how many days late,
// rounded up: one second past due already counts as one full day.
func Overdue(due, returnedAt time.Time) (bool, int) {
	if !returnedAt.After(due) {
		return false, 0
	}
	d := returnedAt.Sub(due)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return true, days
}

func (s *Service) publish(eventType kafka.EventType, b model.Borrow) {
	if s.producer == nil {
		return
	}
	ev := kafka.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		BorrowID:  b.BorrowID,
		BookID:    b.BookID,
		ReaderID:  b.ReaderID,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("marshal borrow event", zap.Error(err))
		return
	}
	if _, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: kafka.BorrowTopic,
		Value: sarama.ByteEncoder(payload),
	}); err != nil {
		// The event feed is best-effort: never fail the request over it.
		s.log.Error("publish borrow event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
