package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-notes-server/users"
)

var (
	_ users.UserRepo = (*FakeUserRepo)(nil)
	_ users.Store    = (*FakeStore)(nil)
)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
	nowFunc  func() time.Time
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
		nowFunc:  time.Now,
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	return ur.insert(user)
}

func (ur *FakeUserRepo) insert(user *users.User) (*users.User, error) {
	if _, ok := ur.emailIds[user.Email]; ok {
		return nil, users.ErrEmailExists
	}
	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = ur.nowFunc().UTC()
	}
	ur.users[stored.ID] = &stored
	ur.emailIds[stored.Email] = stored.ID

	out := stored
	return &out, nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	out := *ur.users[id]
	return &out, nil
}

func (ur *FakeUserRepo) List(_ context.Context, offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		u := *v
		userList = append(userList, &u)
	}

	sort.Slice(userList, func(i, j int) bool {
		if userList[i].CreatedAt.Equal(userList[j].CreatedAt) {
			return userList[i].Email < userList[j].Email
		}
		return userList[i].CreatedAt.Before(userList[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(userList) {
		return []*users.User{}, nil
	}
	end := len(userList)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userList[offset:end], nil
}

// FakeStore is an in-memory users.Store. Units of work are serialised and
// buffer their writes until fn succeeds.
type FakeStore struct {
	repo   *FakeUserRepo
	txLock sync.Mutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{repo: NewFakeUserRepo()}
}

func (s *FakeStore) Users() users.UserRepo {
	return s.repo
}

func (s *FakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, repo users.UserRepo) error) error {
	s.txLock.Lock()
	defer s.txLock.Unlock()

	tx := &fakeTx{base: s.repo, pending: make(map[string]*users.User)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.repo.lock.Lock()
	defer s.repo.lock.Unlock()
	for _, u := range tx.order {
		if _, err := s.repo.insert(tx.pending[u]); err != nil {
			return err
		}
	}
	return nil
}

type fakeTx struct {
	base    *FakeUserRepo
	pending map[string]*users.User // email to staged user
	order   []string
}

func (tx *fakeTx) Create(ctx context.Context, user *users.User) (*users.User, error) {
	if _, ok := tx.pending[user.Email]; ok {
		return nil, users.ErrEmailExists
	}
	if _, err := tx.base.GetByEmail(ctx, user.Email); err == nil {
		return nil, users.ErrEmailExists
	}
	staged := *user
	if staged.ID == "" {
		staged.ID = uuid.New().String()
	}
	if staged.CreatedAt.IsZero() {
		staged.CreatedAt = tx.base.nowFunc().UTC()
	}
	tx.pending[staged.Email] = &staged
	tx.order = append(tx.order, staged.Email)

	out := staged
	return &out, nil
}

func (tx *fakeTx) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if u, ok := tx.pending[email]; ok {
		out := *u
		return &out, nil
	}
	return tx.base.GetByEmail(ctx, email)
}

func (tx *fakeTx) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	return tx.base.List(ctx, offset, limit)
}
