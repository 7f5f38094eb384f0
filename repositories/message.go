//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dm-lab/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const messageKeyPrefix = "dm:"

type IMessageRepository interface {
	CreateMessage(from, to, content string) (domain.Message, error)
	GetMessagesInvolving(username string) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) IMessageRepository {
	return &MessageRepository{db: db, log: log}
}

// Message is the storage representation of a direct message.
type Message struct {
	ID        uuid.UUID `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (m Message) ToDomain() domain.Message {
	return domain.Message{
		ID:        m.ID,
		From:      m.From,
		To:        m.To,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// CreateMessage persists a message and returns it with its generated ID and
// timestamp. The key is formatted as "dm:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func (m MessageRepository) CreateMessage(from, to, content string) (domain.Message, error) {
	message := Message{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	key := fmt.Sprintf("%s%019d:%s",
		messageKeyPrefix,
		message.CreatedAt.UnixNano(),
		message.ID,
	)

	data, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return domain.Message{}, err
	}

	return message.ToDomain(), nil
}

// GetMessagesInvolving returns every message sent or received by the user,
// newest first. Thanks to the padded timestamp in the key, a reverse prefix
// scan yields messages already sorted by creation time descending.
func (m MessageRepository) GetMessagesInvolving(username string) ([]domain.Message, error) {
	var messages []domain.Message

	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(messageKeyPrefix)
		// Seek past the newest possible timestamp so the reverse scan
		// starts at the most recent message.
		seekKey := []byte(messageKeyPrefix + "9999999999999999999")

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			var stored Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				return err
			}
			if stored.From != username && stored.To != username {
				continue
			}
			messages = append(messages, stored.ToDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Debug("fetched messages", "user", username, "count", len(messages))
	return messages, nil
}
