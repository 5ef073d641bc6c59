package accounts

import (
	"context"
	"sort"
	"sync"

	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/server/models"
)

// MemoryRepository keeps accounts in a map. It hands out copies, so changes
// made by a caller only become visible after Save.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[int64]models.Account
	nextID   int64
}

// NewMemoryRepository returns a repository holding seed. Seeded accounts
// without an id get one assigned as if saved.
func NewMemoryRepository(seed ...models.Account) *MemoryRepository {
	r := &MemoryRepository{accounts: make(map[int64]models.Account)}
	for _, a := range seed {
		if a.ID == 0 {
			_, _ = r.Save(context.Background(), &a)
			continue
		}
		r.accounts[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *MemoryRepository) FindActiveByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.sortedIDs() {
		a := r.accounts[id]
		if a.Active && a.Credentials.Username == username {
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Account, 0, len(r.accounts))
	for _, id := range r.sortedIDs() {
		a := r.accounts[id]
		result = append(result, &a)
	}
	return result, nil
}

// Save inserts accounts with a zero id and replaces existing ones.
func (r *MemoryRepository) Save(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == 0 {
		r.nextID++
		account.ID = r.nextID
	} else if _, ok := r.accounts[account.ID]; !ok {
		return nil, common.ErrorNotFound
	}

	r.accounts[account.ID] = *account
	return account, nil
}

// Len reports how many accounts are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *MemoryRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
