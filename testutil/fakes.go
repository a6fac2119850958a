package testutil

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/princinho/dealsbackend/mailer"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/gorm"
)

// Mailer records sent messages. Set Err to make Send fail.
type Mailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *Mailer) Last() (mailer.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return mailer.Message{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// ObjectStore keeps uploads in memory under https://objects.test/<name>.
type ObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	Err     error
}

const objectStoreBase = "https://objects.test/"

func NewObjectStore() *ObjectStore {
	return &ObjectStore{Objects: map[string][]byte{}}
}

func (s *ObjectStore) Upload(_ context.Context, objectName, _ string, body io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[objectName] = b
	return objectStoreBase + objectName, nil
}

func (s *ObjectStore) Delete(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, objectName)
	s.Deleted = append(s.Deleted, objectName)
	return nil
}

func (s *ObjectStore) ObjectName(publicURL string) (string, error) {
	if !strings.HasPrefix(publicURL, objectStoreBase) {
		return "", errors.New("url not served by this store")
	}
	return strings.TrimPrefix(publicURL, objectStoreBase), nil
}

// MessageRepository is an in-memory stand-in for the mongo collection.
type MessageRepository struct {
	mu       sync.Mutex
	messages []models.Message
}

func (r *MessageRepository) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = bson.NewObjectID()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *MessageRepository) Conversation(_ context.Context, a, b uint) ([]models.Message, error) {
	return r.filter(func(m models.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}, true), nil
}

func (r *MessageRepository) ListForUser(_ context.Context, userID uint) ([]models.Message, error) {
	return r.filter(func(m models.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	}, false), nil
}

func (r *MessageRepository) ListAll(_ context.Context) ([]models.Message, error) {
	return r.filter(func(models.Message) bool { return true }, false), nil
}

func (r *MessageRepository) filter(keep func(models.Message) bool, ascending bool) []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Message, 0)
	for _, m := range r.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	return out
}

// CreateUser inserts a verified user holding the named roles, creating
// roles that do not exist yet.
func CreateUser(t testing.TB, db *gorm.DB, email, password string, roles ...string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Email: email, PasswordHash: hash, IsEmailVerified: true}
	for _, name := range roles {
		var r models.Role
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&r).Error; err != nil {
			t.Fatalf("create role %s: %v", name, err)
		}
		u.Roles = append(u.Roles, r)
	}
	if err := db.Omit("Roles.*").Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
