package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/frostwarlord/portal/core/event"
)

func Test_eventApi(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)
	token := env.getToken(t, usr)

	req, rec := newRequest(http.MethodGet, "/v1/events")
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)

	req, rec = newRequest(http.MethodPost, "/v1/events", []byte(`{}`))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	now := time.Now().UTC()
	seed := []event.NewEvent{
		{Title: "Spring Tournament", StartTime: now.Add(48 * time.Hour), EndTime: now.Add(54 * time.Hour), EventType: "tournament"},
		{Title: "Scrim", StartTime: now.Add(2 * time.Hour), EndTime: now.Add(4 * time.Hour), EventType: "practice"},
		{Title: "Last Week's Scrim", StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-46 * time.Hour), EventType: "practice"},
	}
	for _, ne := range seed {
		req, rec = newAuthRequest(http.MethodPost, "/v1/events", token, marchallObj(t, &ne))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %q code = %v; body %s", ne.Title, rec.Code, rec.Body.String())
		}
		var evt event.Event
		if err := json.Unmarshal(rec.Body.Bytes(), &evt); err != nil {
			t.Fatalf("unmarshaling event: %v", err)
		}
		if evt.CreatedBy != usr.ID {
			t.Errorf("CreatedBy = %q, want %q", evt.CreatedBy, usr.ID)
		}
		if !evt.IsPublic {
			t.Errorf("%q: IsPublic = false, want default true", ne.Title)
		}
	}

	// end before start
	bad := event.NewEvent{Title: "Bad", StartTime: now.Add(4 * time.Hour), EndTime: now.Add(2 * time.Hour), EventType: "practice"}
	req, rec = newAuthRequest(http.MethodPost, "/v1/events", token, marchallObj(t, &bad))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create with end before start code = %v, want 400", rec.Code)
	}

	// only upcoming events, soonest first
	req, rec = newRequest(http.MethodGet, "/v1/events")
	env.app.ServeHTTP(rec, req)
	var events []event.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("unmarshaling events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %v, want 2 (past events excluded)", len(events))
	}
	if events[0].Title != "Scrim" || events[1].Title != "Spring Tournament" {
		t.Errorf("wrong order: %q, %q", events[0].Title, events[1].Title)
	}
}
