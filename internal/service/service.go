package service

import (
	"log"
	"time"

	"messageboard/internal/ident"
	"messageboard/internal/models"
)

type UserRepository interface {
	CreateUser(user models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
}

type MessageRepository interface {
	CreateMessage(msg models.Message) error
	ListMessages() ([]models.Message, error)
	ListMessagesByUser(userID string) ([]models.Message, error)
	CountMessagesByUser(userID string) (int, error)
	PreviousMessage(msg models.Message) (*models.Message, error)
	NextMessage(msg models.Message) (*models.Message, error)
}

// RateLimiter decides whether a user may post at a given instant and records
// the post when allowed. Check and record must be a single atomic operation.
type RateLimiter interface {
	CheckAndRecord(userID string, now time.Time) bool
}

// PostedCache receives a write-through record of every successful post.
// Cache failures are logged and otherwise ignored.
type PostedCache interface {
	StorePostedMessage(id string, creationDate string) error
}

type BoardService struct {
	users    UserRepository
	messages MessageRepository
	limiter  RateLimiter
	cache    PostedCache
}

// NewBoardService wires the message board. cache may be nil.
func NewBoardService(users UserRepository, messages MessageRepository, limiter RateLimiter, cache PostedCache) *BoardService {
	return &BoardService{users: users, messages: messages, limiter: limiter, cache: cache}
}

// CreateUser registers a new user. The email lookup runs before the insert,
// and the repository maps a unique-constraint violation to the same error,
// so concurrent duplicate submissions cannot both land.
func (s *BoardService) CreateUser(name string, email string) (*models.User, error) {
	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	user := models.User{
		ID:           ident.NewID(),
		Name:         name,
		Email:        email,
		CreationDate: ident.Now(),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PostMessage validates the user, consults the rate limiter, and persists the
// message. On any failure nothing is written and nothing is recorded in the
// limiter; on success there is exactly one store write.
func (s *BoardService) PostMessage(userID string, body string) (*models.Message, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrPostUserNotFound
	}

	if !s.limiter.CheckAndRecord(userID, time.Now().UTC()) {
		return nil, ErrRateLimited
	}

	msg := models.Message{
		ID:           ident.NewID(),
		UserID:       userID,
		Body:         body,
		CreationDate: ident.Now(),
	}
	if err := s.messages.CreateMessage(msg); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.StorePostedMessage(msg.ID, msg.CreationDate); err != nil {
			log.Printf("Error caching posted message %s: %v", msg.ID, err)
		}
	}
	return &msg, nil
}

func (s *BoardService) ListUsers() ([]models.User, error) {
	return s.users.ListUsers()
}

func (s *BoardService) ListAllMessages() ([]models.Message, error) {
	return s.messages.ListMessages()
}

func (s *BoardService) ListMessagesForUser(userID string) ([]models.Message, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.messages.ListMessagesByUser(userID)
}

func (s *BoardService) NumberOfPosts(userID string) (int, error) {
	return s.messages.CountMessagesByUser(userID)
}

// UserForMessage resolves the owning user of a message.
func (s *BoardService) UserForMessage(msg models.Message) (*models.User, error) {
	user, err := s.users.GetUserByID(msg.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Neighbors returns the chronological predecessor and successor of msg among
// the owning user's messages. Either may be nil at a boundary.
func (s *BoardService) Neighbors(msg models.Message) (prev *models.Message, next *models.Message, err error) {
	prev, err = s.messages.PreviousMessage(msg)
	if err != nil {
		return nil, nil, err
	}
	next, err = s.messages.NextMessage(msg)
	if err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}
