package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/session"

	"gorm.io/gorm"
)

// Filter narrows a listing of activity logs. Zero values match everything.
type Filter struct {
	Resource string
	Action   models.ActivityAction
	UserID   int
	EntityID int
	Limit    int
}

// Store keeps activity logs.
type Store interface {
	Create(ctx context.Context, l *models.ActivityLog) error
	List(ctx context.Context, f Filter) ([]models.ActivityLog, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, l *models.ActivityLog) error {
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("activity log could not be saved: %w", err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]models.ActivityLog, error) {
	dbq := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if f.Resource != "" {
		dbq = dbq.Where("resource = ?", f.Resource)
	}
	if f.Action != "" {
		dbq = dbq.Where("action = ?", f.Action)
	}
	if f.UserID > 0 {
		dbq = dbq.Where("user_id = ?", f.UserID)
	}
	if f.EntityID > 0 {
		dbq = dbq.Where("entity_id = ?", f.EntityID)
	}
	if f.Limit > 0 {
		dbq = dbq.Limit(f.Limit)
	}

	var logs []models.ActivityLog
	if err := dbq.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("activity logs could not be listed: %w", err)
	}
	return logs, nil
}

// MemoryStore keeps logs in process, for runs without a database.
type MemoryStore struct {
	mu   sync.Mutex
	next uint
	logs []models.ActivityLog
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Create(_ context.Context, l *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	l.ID = s.next
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.logs = append(s.logs, *l)
	return nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ActivityLog{}
	for _, l := range s.logs {
		if (f.Resource == "" || l.Resource == f.Resource) &&
			(f.Action == "" || l.Action == f.Action) &&
			(f.UserID == 0 || l.UserID == f.UserID) &&
			(f.EntityID == 0 || l.EntityID == f.EntityID) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Recorder writes one activity log per mutation. Failures are logged and
// never reach the caller.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, sessionID string, ident session.Identity, m listing.Mutation) {
	payload := "null"
	if m.Draft != nil {
		if b, err := json.Marshal(m.Draft); err == nil {
			payload = string(b)
		}
	}

	entry := models.ActivityLog{
		SessionID:   sessionID,
		UserID:      ident.UserID,
		UserName:    ident.Username,
		Resource:    m.Resource,
		EntityID:    m.ID,
		Action:      models.ActivityAction(m.Action),
		Description: describe(m),
		Payload:     payload,
	}
	// outlive the request
	ctx = context.WithoutCancel(ctx)
	if err := r.store.Create(ctx, &entry); err != nil {
		log.Printf("[WARN] %v", err)
	}
}

func describe(m listing.Mutation) string {
	var verb string
	switch m.Action {
	case listing.ActionCreate:
		verb = "Created"
	case listing.ActionUpdate:
		verb = "Updated"
	case listing.ActionDelete:
		verb = "Deleted"
	default:
		verb = string(m.Action)
	}
	if m.ID == 0 {
		return fmt.Sprintf("%s %s", verb, m.Resource)
	}
	return fmt.Sprintf("%s %s #%d", verb, m.Resource, m.ID)
}
