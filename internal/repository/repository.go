package repository

import (
	"database/sql"
	"fmt"

	"messageboard/internal/models"
	"messageboard/internal/service"

	"github.com/lib/pq"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(connStr string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	bootstrap := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		creationDate TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		userId TEXT NOT NULL REFERENCES users(id),
		body TEXT NOT NULL,
		creationDate TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS messages_user_order
		ON messages (userId, creationDate, id);
	`
	if _, err = db.Exec(bootstrap); err != nil {
		return nil, fmt.Errorf("failed to ensure schema exists: %w", err)
	}
	return &PostgresRepo{db: db}, nil
}

var _ service.UserRepository = (*PostgresRepo)(nil)
var _ service.MessageRepository = (*PostgresRepo)(nil)

func (r *PostgresRepo) CreateUser(user models.User) error {
	query := `INSERT INTO users (id, name, email, creationDate)
	          VALUES ($1, $2, $3, $4);`
	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, user.CreationDate)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return service.ErrDuplicateEmail
	}
	return err
}

func (r *PostgresRepo) GetUserByID(id string) (*models.User, error) {
	query := `SELECT id, name, email, creationDate FROM users WHERE id = $1;`
	return r.scanUser(r.db.QueryRow(query, id))
}

func (r *PostgresRepo) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, name, email, creationDate FROM users WHERE email = $1;`
	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *PostgresRepo) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreationDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepo) ListUsers() ([]models.User, error) {
	query := `SELECT id, name, email, creationDate FROM users
	          ORDER BY creationDate ASC, id ASC;`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreationDate); err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *PostgresRepo) CreateMessage(msg models.Message) error {
	query := `INSERT INTO messages (id, userId, body, creationDate)
	          VALUES ($1, $2, $3, $4);`
	_, err := r.db.Exec(query, msg.ID, msg.UserID, msg.Body, msg.CreationDate)
	return err
}

func (r *PostgresRepo) ListMessages() ([]models.Message, error) {
	query := `SELECT id, userId, body, creationDate FROM messages
	          ORDER BY creationDate ASC, id ASC;`
	return r.queryMessages(query)
}

func (r *PostgresRepo) ListMessagesByUser(userID string) ([]models.Message, error) {
	query := `SELECT id, userId, body, creationDate FROM messages
	          WHERE userId = $1
	          ORDER BY creationDate ASC, id ASC;`
	return r.queryMessages(query, userID)
}

func (r *PostgresRepo) CountMessagesByUser(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE userId = $1;`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// PreviousMessage returns the chronological predecessor of msg among the same
// user's messages, using (creationDate, id) as the total order. Row-value
// comparison keeps the lookup on the (userId, creationDate, id) index.
func (r *PostgresRepo) PreviousMessage(msg models.Message) (*models.Message, error) {
	query := `SELECT id, userId, body, creationDate FROM messages
	          WHERE userId = $1 AND (creationDate, id) < ($2, $3)
	          ORDER BY creationDate DESC, id DESC
	          LIMIT 1;`
	return r.scanMessage(r.db.QueryRow(query, msg.UserID, msg.CreationDate, msg.ID))
}

// NextMessage is the mirror of PreviousMessage.
func (r *PostgresRepo) NextMessage(msg models.Message) (*models.Message, error) {
	query := `SELECT id, userId, body, creationDate FROM messages
	          WHERE userId = $1 AND (creationDate, id) > ($2, $3)
	          ORDER BY creationDate ASC, id ASC
	          LIMIT 1;`
	return r.scanMessage(r.db.QueryRow(query, msg.UserID, msg.CreationDate, msg.ID))
}

func (r *PostgresRepo) scanMessage(row *sql.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.UserID, &m.Body, &m.CreationDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepo) queryMessages(query string, args ...interface{}) ([]models.Message, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Body, &m.CreationDate); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
