package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	replies map[string][]domain.TicketReply
	nextID  int

	createErr error
	updateErr error
	getErr    error
	markErr   map[string]error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[string]domain.Ticket),
		replies: make(map[string][]domain.TicketReply),
		markErr: make(map[string]error),
	}
}

func (f *fakeTicketRepo) seed(ticket domain.Ticket) domain.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket.ID == "" {
		f.nextID++
		ticket.ID = fmt.Sprintf("ticket-%d", f.nextID)
	}
	f.tickets[ticket.ID] = ticket
	return ticket
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", f.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, t := range f.tickets {
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if t.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTicketRepo) ListSLACandidates(_ context.Context, updatedBefore time.Time) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, t := range f.tickets {
		switch t.Status {
		case domain.TicketStatusOpen, domain.TicketStatusTriaged, domain.TicketStatusWaitingHuman:
		default:
			continue
		}
		if t.SLABreached || !t.UpdatedAt.Before(updatedBefore) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTicketRepo) MarkSLABreached(_ context.Context, ticketID string, at time.Time) error {
	if err := f.markErr[ticketID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.SLABreached = true
	ticket.SLABreachedAt = &at
	f.tickets[ticketID] = ticket
	return nil
}

func (f *fakeTicketRepo) AppendReply(_ context.Context, reply *domain.TicketReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply.ID = fmt.Sprintf("reply-%d", len(f.replies[reply.TicketID])+1)
	reply.CreatedAt = time.Now()
	f.replies[reply.TicketID] = append(f.replies[reply.TicketID], *reply)
	return nil
}

func (f *fakeTicketRepo) ListReplies(_ context.Context, ticketID string) ([]domain.TicketReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TicketReply(nil), f.replies[ticketID]...), nil
}

func (f *fakeTicketRepo) get(id string) domain.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickets[id]
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeKBRepo struct {
	articles   map[string]domain.KBArticle
	searchRefs []domain.KBArticleRef
	searchErr  error
	lastQuery  string
}

func newFakeKBRepo(refs ...domain.KBArticleRef) *fakeKBRepo {
	return &fakeKBRepo{articles: make(map[string]domain.KBArticle), searchRefs: refs}
}

func (f *fakeKBRepo) Create(_ context.Context, article *domain.KBArticle) error {
	article.ID = fmt.Sprintf("kb-%d", len(f.articles)+1)
	f.articles[article.ID] = *article
	return nil
}

func (f *fakeKBRepo) Update(_ context.Context, article *domain.KBArticle) error {
	if _, ok := f.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.articles[article.ID] = *article
	return nil
}

func (f *fakeKBRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeKBRepo) GetByID(_ context.Context, id string) (*domain.KBArticle, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := article
	return &copied, nil
}

func (f *fakeKBRepo) List(_ context.Context, filter repository.KBFilter) ([]domain.KBArticle, error) {
	var out []domain.KBArticle
	for _, a := range f.articles {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeKBRepo) Search(_ context.Context, query string, limit int) ([]domain.KBArticleRef, error) {
	f.lastQuery = query
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if strings.TrimSpace(query) == "" {
		return []domain.KBArticleRef{}, nil
	}
	if limit > 0 && len(f.searchRefs) > limit {
		return f.searchRefs[:limit], nil
	}
	return f.searchRefs, nil
}

type fakeConfigRepo struct {
	cfg domain.AgentConfig
	err error
}

func (f *fakeConfigRepo) Get(_ context.Context) (domain.AgentConfig, error) {
	if f.err != nil {
		return domain.AgentConfig{}, f.err
	}
	return f.cfg, nil
}

func (f *fakeConfigRepo) Update(_ context.Context, cfg domain.AgentConfig) (domain.AgentConfig, error) {
	if f.err != nil {
		return domain.AgentConfig{}, f.err
	}
	cfg.UpdatedAt = time.Now()
	f.cfg = cfg
	return cfg, nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []domain.AuditLogEntry
	createErr error
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLogEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AuditLogEntry
	for _, e := range f.entries {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) steps() []domain.AuditStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.AuditStep, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Step)
	}
	return out
}

type fakeNotifier struct {
	mu      sync.Mutex
	updates []notify.TicketUpdate
}

func (f *fakeNotifier) NotifyTicketUpdate(_ context.Context, update notify.TicketUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
}

func (f *fakeNotifier) sent() []notify.TicketUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.TicketUpdate(nil), f.updates...)
}
