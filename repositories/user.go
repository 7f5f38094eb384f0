//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"dm-lab/domain"
	"dm-lab/errors"

	"github.com/dgraph-io/badger/v4"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "email:"
)

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string) (User, error)
	GetUserByUsername(username string) (User, bool, error)
	GetUsersExcluding(username string) ([]User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the storage representation of an account. It is the only place
// the password hash lives; ToDomain strips it before anything leaves the
// repository layer.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) ToDomain() domain.User {
	return domain.User{
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// CreateUser persists a new account. Uniqueness of both username and email
// is enforced inside a single transaction: the user record sits under
// "user:<username>" and a separate "email:<email>" index key reserves the
// address. Both conflicts are reported together so the caller can attribute
// each one to its field.
func (r UserRepository) CreateUser(username, email, hashedPassword string) (User, error) {
	user := User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		userKey := []byte(userKeyPrefix + username)
		emailKey := []byte(emailKeyPrefix + email)

		var conflict error
		if _, err := txn.Get(userKey); err == nil {
			conflict = errors.ErrUsernameTaken
		}
		if _, err := txn.Get(emailKey); err == nil {
			conflict = stderrors.Join(conflict, errors.ErrEmailTaken)
		}
		if conflict != nil {
			return conflict
		}

		if err := txn.Set(userKey, data); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(username))
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

// GetUserByUsername retrieves a user record. The boolean result is false
// when no such user exists.
func (r UserRepository) GetUserByUsername(username string) (User, bool, error) {
	var user User

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})

	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}

	return user, true, nil
}

// GetUsersExcluding returns every user except the named one, in username
// order (the natural key order of the prefix scan).
func (r UserRepository) GetUsersExcluding(username string) ([]User, error) {
	var users []User

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user User
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				return err
			}
			if user.Username == username {
				continue
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}
