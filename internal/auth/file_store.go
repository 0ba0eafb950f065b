package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// FileStore keeps users in a JSON file, loaded whole and rewritten on
// every change. User counts are small enough that this is fine.
type FileStore struct {
	path  string
	users map[string]*User
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:  path,
		users: make(map[string]*User),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user file %s: %w", path, err)
	}

	var users []*User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse user file %s: %w", path, err)
	}

	for _, u := range users {
		fs.users[u.Username] = u
	}
	return fs, nil
}

func (fs *FileStore) save() error {
	users := fs.Users()

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return fmt.Errorf("write user file %s: %w", fs.path, err)
	}
	return nil
}

// Empty reports whether the store has no users. An empty store means access
// control is off.
func (fs *FileStore) Empty() bool {
	return len(fs.users) == 0
}

func (fs *FileStore) GetUser(username string) (*User, error) {
	u, ok := fs.users[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", username, ErrUserNotFound)
	}
	return u, nil
}

func (fs *FileStore) CreateUser(u *User) error {
	if _, ok := fs.users[u.Username]; ok {
		return fmt.Errorf("%s: %w", u.Username, ErrUserExists)
	}
	fs.users[u.Username] = u
	return fs.save()
}

func (fs *FileStore) DeleteUser(username string) error {
	if _, ok := fs.users[username]; !ok {
		return fmt.Errorf("%s: %w", username, ErrUserNotFound)
	}
	delete(fs.users, username)
	return fs.save()
}

// Users returns every user sorted by name.
func (fs *FileStore) Users() []*User {
	users := make([]*User, 0, len(fs.users))
	for _, u := range fs.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}
