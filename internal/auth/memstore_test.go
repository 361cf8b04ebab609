package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"volunteer-backend/internal/models"
	"volunteer-backend/internal/notify"
	"volunteer-backend/internal/storage"
)

// memStore is an AccountStore with a unique email constraint and
// all-or-nothing transactions.
type memStore struct {
	mu          sync.Mutex
	nextUser    int64
	nextOrg     int64
	users       map[int64]models.User
	orgs        map[int64]models.Organization
	roles       []models.Role
	credentials map[int64]string

	// failCredential makes InsertCredential fail inside the transaction.
	failCredential bool
	// afterLookup runs after FindUserByEmail returns, to widen race windows.
	afterLookup func()
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]models.User{},
		orgs:        map[int64]models.Organization{},
		credentials: map[int64]string{},
	}
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	var found *models.User
	for _, u := range m.users {
		if u.Email == email {
			u := u
			found = &u
			break
		}
	}
	m.mu.Unlock()

	if m.afterLookup != nil {
		m.afterLookup()
	}
	return found, nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memStore) FindCredentialByUser(_ context.Context, userID int64) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, ok := m.credentials[userID]
	if !ok {
		return nil, nil
	}
	return &models.Credential{UserID: userID, HashedPassword: hash}, nil
}

func (m *memStore) UpdateCredentialPassword(_ context.Context, userID int64, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[userID]; !ok {
		return false, nil
	}
	m.credentials[userID] = hash
	return true, nil
}

func (m *memStore) HasAdminRole(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.UserID == userID && r.PermissionLevel == models.PermissionAdmin {
			return true, nil
		}
	}
	return false, nil
}

// RunInTx serializes transactions and applies staged writes only when fn
// succeeds.
func (m *memStore) RunInTx(ctx context.Context, fn func(w storage.AccountWriter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, nextUser: m.nextUser, nextOrg: m.nextOrg}
	if err := fn(tx); err != nil {
		return err
	}

	for _, u := range tx.users {
		m.users[u.ID] = u
	}
	for _, o := range tx.orgs {
		m.orgs[o.ID] = o
	}
	m.roles = append(m.roles, tx.roles...)
	for id, hash := range tx.credentials {
		m.credentials[id] = hash
	}
	m.nextUser = tx.nextUser
	m.nextOrg = tx.nextOrg
	return nil
}

func (m *memStore) deleteUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.credentials, id)
}

func (m *memStore) grantAdmin(userID, orgID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = append(m.roles, models.Role{UserID: userID, OrganizationID: orgID, PermissionLevel: models.PermissionAdmin})
}

func (m *memStore) counts() (users, credentials, roles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), len(m.credentials), len(m.roles)
}

type memTx struct {
	store       *memStore
	nextUser    int64
	nextOrg     int64
	users       []models.User
	orgs        []models.Organization
	roles       []models.Role
	credentials map[int64]string
}

func (t *memTx) InsertUser(_ context.Context, user *models.User) error {
	for _, u := range t.store.users {
		if u.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	t.nextUser++
	user.ID = t.nextUser
	user.CreatedAt = time.Now()
	t.users = append(t.users, *user)
	return nil
}

func (t *memTx) InsertOrganization(_ context.Context, org *models.Organization) error {
	t.nextOrg++
	org.ID = t.nextOrg
	t.orgs = append(t.orgs, *org)
	return nil
}

func (t *memTx) InsertRole(_ context.Context, role models.Role) error {
	t.roles = append(t.roles, role)
	return nil
}

func (t *memTx) InsertCredential(_ context.Context, userID int64, hash string) error {
	if t.store.failCredential {
		return errors.New("credentials table unavailable")
	}
	if t.credentials == nil {
		t.credentials = map[int64]string{}
	}
	t.credentials[userID] = hash
	return nil
}

// captureNotifier records delivered reset notices.
type captureNotifier struct {
	mu      sync.Mutex
	notices []notify.ResetNotice
	err     error
}

func (c *captureNotifier) PasswordReset(_ context.Context, n notify.ResetNotice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
	return c.err
}

func (c *captureNotifier) last() (notify.ResetNotice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.notices) == 0 {
		return notify.ResetNotice{}, false
	}
	return c.notices[len(c.notices)-1], true
}
