package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/session"

	"github.com/gofiber/fiber/v2"
)

var hana = session.Identity{UserID: 3, Username: "hana", Role: "Finance"}

func TestRecorderWritesSnapshot(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store)

	rec.Record(context.Background(), "s1", hana, listing.Mutation{
		Resource: "income",
		Action:   listing.ActionUpdate,
		ID:       12,
		Draft:    map[string]any{"source": "Shop"},
	})
	rec.Record(context.Background(), "s1", hana, listing.Mutation{Resource: "income", Action: listing.ActionDelete, ID: 12})

	logs, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs = %+v", logs)
	}
	del, upd := logs[0], logs[1]
	if upd.Payload != `{"source":"Shop"}` || upd.Description != "Updated income #12" || upd.UserName != "hana" || upd.SessionID != "s1" {
		t.Errorf("update log = %+v", upd)
	}
	if del.Payload != "null" || del.Action != models.ActivityDelete {
		t.Errorf("delete log = %+v", del)
	}
}

type failingStore struct{ MemoryStore }

func (*failingStore) Create(context.Context, *models.ActivityLog) error {
	return errors.New("db down")
}

func TestRecorderSwallowsFailures(t *testing.T) {
	rec := NewRecorder(&failingStore{})
	rec.Record(context.Background(), "s1", hana, listing.Mutation{Resource: "income", Action: listing.ActionCreate})
}

func TestRecorderOutlivesRequest(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewRecorder(store).Record(ctx, "s1", hana, listing.Mutation{Resource: "sales record", Action: listing.ActionCreate, ID: 4})
	logs, _ := store.List(context.Background(), Filter{})
	if len(logs) != 1 || logs[0].Description != "Created sales record #4" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestListActivityHandler(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store)
	ctx := context.Background()
	rec.Record(ctx, "s1", hana, listing.Mutation{Resource: "income", Action: listing.ActionCreate, ID: 1})
	rec.Record(ctx, "s1", hana, listing.Mutation{Resource: "expense", Action: listing.ActionCreate, ID: 2})
	rec.Record(ctx, "s1", hana, listing.Mutation{Resource: "income", Action: listing.ActionDelete, ID: 1})

	app := fiber.New()
	app.Get("/activity", ListActivityHandler(store))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/activity?resource=income", nil))
	if err != nil {
		t.Fatal(err)
	}
	var got []ActivityLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Action != models.ActivityDelete {
		t.Errorf("income activity = %+v", got)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/activity?action=create&limit=1", nil))
	got = nil
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Resource != "expense" {
		t.Errorf("limited = %+v", got)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/activity?action=undo", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown action = %d", resp.StatusCode)
	}
}
