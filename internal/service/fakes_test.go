package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nexium/recipe-service/internal/domain"
)

type memoryRecipeRepo struct {
	mu      sync.Mutex
	recipes []domain.Recipe
	err     error
}

func (r *memoryRecipeRepo) FindRecipesByOwner(_ context.Context, owner string) ([]domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Recipe{}
	for _, rec := range r.recipes {
		if rec.Owner == owner {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryRecipeRepo) FindRecipeByID(_ context.Context, id string) (*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recipes {
		if rec.ID == id {
			found := rec
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRecipeRepo) CreateRecipe(_ context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	created := *recipe
	created.ID = fmt.Sprintf("recipe-%d", len(r.recipes)+1)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.recipes = append(r.recipes, created)
	return &created, nil
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users []domain.User
	// beforeCreate runs inside CreateUser before the uniqueness check
	beforeCreate func()
	creates      int
}

func (r *memoryUserRepo) FindUserByProviderID(_ context.Context, providerID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ProviderID == providerID {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	for _, u := range r.users {
		if u.ProviderID == user.ProviderID || u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrConflict
		}
	}
	created := *user
	created.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	r.users = append(r.users, created)
	return &created, nil
}

type fakeWorkflow struct {
	payload map[string]any
	err     error
	gotBody []byte
	ping    json.RawMessage
}

func (f *fakeWorkflow) GenerateRecipe(_ context.Context, body []byte) (map[string]any, error) {
	f.gotBody = body
	return f.payload, f.err
}

func (f *fakeWorkflow) Ping(context.Context) (json.RawMessage, error) {
	return f.ping, f.err
}

type fakeImages struct {
	url        string
	err        error
	prompts    []string
	editInputs []string
	uploads    []string
}

func (f *fakeImages) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.url, f.err
}

func (f *fakeImages) GenerateFromImage(_ context.Context, prompt, input string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.editInputs = append(f.editInputs, input)
	return f.url, f.err
}

func (f *fakeImages) UploadRaw(_ context.Context, dataURI string) (string, error) {
	f.uploads = append(f.uploads, dataURI)
	return f.url, f.err
}

type fakeProfiles struct {
	profile domain.Profile
	err     error
	calls   int
}

func (f *fakeProfiles) FetchProfile(_ context.Context, providerID string) (domain.Profile, error) {
	f.calls++
	p := f.profile
	p.ProviderID = providerID
	return p, f.err
}
