package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/planner/internal/adapters/http"
	"github.com/samirrijal/planner/internal/core/domain"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/core/usecases"
)

const (
	tripUUID        = "3b8f41a2-97a4-4cbb-a3bb-e4d0c9a2f001"
	participantUUID = "5d1c7e09-2f3a-47d8-9f6e-b7a8c1d2e002"
)

// ---- Mock repositories ----

type mockTripRepo struct {
	createFn     func(ctx context.Context, input domain.NewTripInput) (string, error)
	getByIDFn    func(ctx context.Context, id string) (*domain.Trip, error)
	getPendingFn func(ctx context.Context, id string) (*domain.Trip, error)
	confirmFn    func(ctx context.Context, id string) (bool, error)
}

func (m *mockTripRepo) CreateWithParticipants(ctx context.Context, input domain.NewTripInput) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return tripUUID, nil
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Trip{ID: id}, nil
}
func (m *mockTripRepo) GetWithPendingParticipants(ctx context.Context, id string) (*domain.Trip, error) {
	if m.getPendingFn != nil {
		return m.getPendingFn(ctx, id)
	}
	return &domain.Trip{ID: id}, nil
}
func (m *mockTripRepo) Confirm(ctx context.Context, id string) (bool, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, id)
	}
	return true, nil
}

type mockParticipantRepo struct {
	createFn     func(ctx context.Context, tripID, email string) (string, error)
	getByIDFn    func(ctx context.Context, id string) (*domain.Participant, error)
	listByTripFn func(ctx context.Context, tripID string) ([]domain.Participant, error)
	confirmFn    func(ctx context.Context, id string) (bool, error)
}

func (m *mockParticipantRepo) Create(ctx context.Context, tripID, email string) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, tripID, email)
	}
	return participantUUID, nil
}
func (m *mockParticipantRepo) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Participant{ID: id, TripID: tripUUID}, nil
}
func (m *mockParticipantRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Participant, error) {
	if m.listByTripFn != nil {
		return m.listByTripFn(ctx, tripID)
	}
	return nil, nil
}
func (m *mockParticipantRepo) Confirm(ctx context.Context, id string) (bool, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, id)
	}
	return true, nil
}

type mockMailer struct {
	mu     sync.Mutex
	sent   []ports.Message
	sendFn func(ctx context.Context, msg ports.Message) error
}

func (m *mockMailer) Send(ctx context.Context, msg ports.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(ctx, msg)
	}
	return nil
}

// ---- Test helpers ----

var testLinks = usecases.Links{APIBase: "http://api.test", WebBase: "http://web.test"}

type mocks struct {
	trips  *mockTripRepo
	parts  *mockParticipantRepo
	mailer *mockMailer
}

func setupApp(m *mocks) *fiber.App {
	mail := usecases.Mail{
		Sender: ports.Address{Name: "Equipe plann.er", Email: "equipe@plann.er"},
		Links:  testLinks,
	}
	deps := &handler.Dependencies{
		Trips:         usecases.NewTripService(m.trips, m.parts, m.mailer, nil, nil, mail),
		Invites:       usecases.NewInviteService(m.trips, m.parts, m.mailer, nil, nil, mail),
		Confirmations: usecases.NewConfirmationService(m.trips, m.mailer, nil, nil, mail, usecases.FanoutFail),
		Participants:  usecases.NewParticipantService(m.parts, nil, nil),
		Links:         testLinks,
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func defaultMocks() *mocks {
	return &mocks{
		trips:  &mockTripRepo{},
		parts:  &mockParticipantRepo{},
		mailer: &mockMailer{},
	}
}

func tripBody(mutate func(map[string]interface{})) string {
	m := map[string]interface{}{
		"destination":      "Florianópolis",
		"starts_at":        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"ends_at":          time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"owner_name":       "John Doe",
		"owner_email":      "john@example.com",
		"emails_to_invite": []string{"mary@example.com"},
	}
	if mutate != nil {
		mutate(m)
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

// ---- Trip creation ----

func TestCreateTrip_Success(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("POST", "/trips", strings.NewReader(tripBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result struct {
		TripID string `json:"tripId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.TripID != tripUUID {
		t.Errorf("expected %s, got %s", tripUUID, result.TripID)
	}
}

func TestCreateTrip_InvalidDate(t *testing.T) {
	app := setupApp(defaultMocks())

	body := tripBody(func(m map[string]interface{}) { m["starts_at"] = "next tuesday" })
	req := httptest.NewRequest("POST", "/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %s", apiErr.Code)
	}
}

func TestCreateTrip_InvalidOwnerEmail(t *testing.T) {
	app := setupApp(defaultMocks())

	body := tripBody(func(m map[string]interface{}) { m["owner_email"] = "not-an-email" })
	req := httptest.NewRequest("POST", "/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateTrip_InvalidInviteEmail(t *testing.T) {
	app := setupApp(defaultMocks())

	body := tripBody(func(m map[string]interface{}) { m["emails_to_invite"] = []string{"ok@example.com", "nope"} })
	req := httptest.NewRequest("POST", "/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateTrip_ShortDestination(t *testing.T) {
	app := setupApp(defaultMocks())

	body := tripBody(func(m map[string]interface{}) { m["destination"] = "Rio" })
	req := httptest.NewRequest("POST", "/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateTrip_MailFailureIs502(t *testing.T) {
	m := defaultMocks()
	m.mailer.sendFn = func(ctx context.Context, msg ports.Message) error {
		return fmt.Errorf("smtp: connection refused")
	}
	app := setupApp(m)

	req := httptest.NewRequest("POST", "/trips", strings.NewReader(tripBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "delivery_error" {
		t.Errorf("expected delivery_error, got %s", apiErr.Code)
	}
}

// ---- Invites ----

func TestCreateInvite_Success(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("POST", "/trips/"+tripUUID+"/invites",
		strings.NewReader(`{"email":"guest@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result struct {
		ParticipantID string `json:"participantId"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.ParticipantID != participantUUID {
		t.Errorf("expected %s, got %s", participantUUID, result.ParticipantID)
	}
}

func TestCreateInvite_TripNotFound(t *testing.T) {
	m := defaultMocks()
	m.trips.getByIDFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return nil, domain.ErrNotFound
	}
	app := setupApp(m)

	req := httptest.NewRequest("POST", "/trips/"+tripUUID+"/invites",
		strings.NewReader(`{"email":"guest@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateInvite_BadTripID(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("POST", "/trips/not-a-uuid/invites",
		strings.NewReader(`{"email":"guest@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateInvite_BadEmail(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("POST", "/trips/"+tripUUID+"/invites",
		strings.NewReader(`{"email":"Guest <guest@example.com>"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Trip confirmation ----

func TestConfirmTrip_RedirectsToTripPage(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("GET", "/trips/"+tripUUID+"/confirm", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	want := "http://web.test/trips/" + tripUUID
	if loc != want {
		t.Errorf("expected Location %s, got %s", want, loc)
	}
}

func TestConfirmTrip_RepeatRedirectsWithoutResend(t *testing.T) {
	m := defaultMocks()
	m.trips.getPendingFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return &domain.Trip{ID: id, IsConfirmed: true}, nil
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/trips/"+tripUUID+"/confirm", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302 on repeat confirmation, got %d", resp.StatusCode)
	}
	if len(m.mailer.sent) != 0 {
		t.Errorf("repeat confirmation must not send mail, sent %d", len(m.mailer.sent))
	}
}

func TestConfirmTrip_NotFound(t *testing.T) {
	m := defaultMocks()
	m.trips.getPendingFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return nil, domain.ErrNotFound
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/trips/"+tripUUID+"/confirm", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestConfirmTrip_FanoutFailureIs502(t *testing.T) {
	m := defaultMocks()
	m.trips.getPendingFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return &domain.Trip{
			ID: id,
			Participants: []domain.Participant{
				{ID: "p1", TripID: id, Email: "mary@example.com"},
			},
		}, nil
	}
	m.mailer.sendFn = func(ctx context.Context, msg ports.Message) error {
		return fmt.Errorf("smtp: rejected")
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/trips/"+tripUUID+"/confirm", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

// ---- Participant confirmation ----

func TestConfirmParticipant_RedirectsToTripPage(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("GET", "/participants/"+participantUUID+"/confirm", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	want := "http://web.test/trips/" + tripUUID
	if loc != want {
		t.Errorf("expected Location %s, got %s", want, loc)
	}
}

func TestConfirmParticipant_NotFound(t *testing.T) {
	m := defaultMocks()
	m.parts.getByIDFn = func(ctx context.Context, id string) (*domain.Participant, error) {
		return nil, domain.ErrNotFound
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/participants/"+participantUUID+"/confirm", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Trip detail ----

func TestGetTrip_Success(t *testing.T) {
	m := defaultMocks()
	m.trips.getByIDFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return &domain.Trip{ID: id, Destination: "Salvador"}, nil
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/trips/"+tripUUID, nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var trip domain.Trip
	json.NewDecoder(resp.Body).Decode(&trip)
	if trip.Destination != "Salvador" {
		t.Errorf("expected Salvador, got %s", trip.Destination)
	}

	cc := resp.Header.Get("Cache-Control")
	if cc != "private, max-age=60" {
		t.Errorf("expected Cache-Control header, got %q", cc)
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	m := defaultMocks()
	m.trips.getByIDFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return nil, domain.ErrNotFound
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/trips/"+tripUUID, nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Participant listing ----

func TestListParticipants_Pagination(t *testing.T) {
	m := defaultMocks()
	m.parts.listByTripFn = func(ctx context.Context, tripID string) ([]domain.Participant, error) {
		list := make([]domain.Participant, 5)
		for i := range list {
			list[i] = domain.Participant{ID: fmt.Sprintf("p%d", i), TripID: tripID}
		}
		return list, nil
	}
	app := setupApp(m)

	req := httptest.NewRequest("GET", "/trips/"+tripUUID+"/participants?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Participant `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 participants in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %s", link)
	}
}

// ---- Health ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("GET", "/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NoDB(t *testing.T) {
	// DB, NATS, Cache are nil → should report not ready
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("GET", "/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

// ---- X-API-Version header ----

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(defaultMocks())

	req := httptest.NewRequest("GET", "/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	v := resp.Header.Get("X-API-Version")
	if v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// ---- GraphQL ----

func TestGraphQL_TripQuery(t *testing.T) {
	m := defaultMocks()
	m.trips.getByIDFn = func(ctx context.Context, id string) (*domain.Trip, error) {
		return &domain.Trip{ID: id, Destination: "Natal"}, nil
	}
	app := setupApp(m)

	body := fmt.Sprintf(`{"query":%q}`, fmt.Sprintf(`{ trip(id: %q) { destination } }`, tripUUID))
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Trip struct {
				Destination string `json:"destination"`
			} `json:"trip"`
		} `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Data.Trip.Destination != "Natal" {
		t.Errorf("expected Natal, got %q", result.Data.Trip.Destination)
	}
}
