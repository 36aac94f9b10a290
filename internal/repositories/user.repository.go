package repositories

import (
	"context"
	"strings"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetAll(ctx context.Context) ([]User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Add(ctx context.Context, user User) error
	Verify(ctx context.Context, username, password string) (*User, error)
}

type userRepository struct {
	store CollectionStore
	log   logger.Logger
}

func NewUser(store CollectionStore) UserRepository {
	return &userRepository{
		store: store,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetAll(ctx context.Context) ([]User, error) {
	log := r.log.Function("GetAll")

	var users []User
	found, err := r.store.Get(ctx, CollectionUsers, &users)
	if err != nil {
		return nil, log.Err("failed to get users collection", err)
	}
	if !found {
		return []User{}, nil
	}

	return users, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Username == username {
			return &user, nil
		}
	}

	return nil, nil
}

// Add appends a user to the collection. On a username collision the
// collection is written back unchanged and ErrDuplicateIdentity is returned.
func (r *userRepository) Add(ctx context.Context, user User) error {
	log := r.log.Function("Add")

	users, err := r.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, existing := range users {
		if existing.Username == user.Username {
			log.Warn("username already exists", "username", user.Username)
			return ErrDuplicateIdentity
		}
	}

	users = append(users, user)
	if err := r.store.Put(ctx, CollectionUsers, users); err != nil {
		return log.Err("failed to write users collection", err, "username", user.Username)
	}

	return nil
}

// Verify matches credentials against the users collection. Stored secrets
// are compared exactly, except bcrypt hashes which are compared with bcrypt
// so a deployment can migrate off plaintext without an API change.
func (r *userRepository) Verify(ctx context.Context, username, password string) (*User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Username != username {
			continue
		}
		if passwordMatches(user.Password, password) {
			return &user, nil
		}
		return nil, nil
	}

	return nil, nil
}

func passwordMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}
