package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vet-connect/internal/domain/directory"
	"vet-connect/internal/ports/sms"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	alerts []Alert
}

func (r *testRepo) Create(ctx context.Context, a Alert) error {
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Alert, error) {
	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *testRepo) Count(ctx context.Context) (int, error) {
	return len(r.alerts), nil
}

// -------------------------
// Fakes de directorio y gateway
// -------------------------

type testDirectory struct {
	farmers   []directory.User
	lastQuery directory.FarmerQuery
}

func (d *testDirectory) ListFarmers(ctx context.Context, q directory.FarmerQuery) ([]directory.User, error) {
	d.lastQuery = q

	out := make([]directory.User, 0)
	for _, f := range d.farmers {
		if len(q.IDs) > 0 && !containsID(q.IDs, f.ID) {
			continue
		}
		if q.District != "" && f.Farmer.District != q.District {
			continue
		}
		if q.Sector != "" && f.Farmer.Sector != q.Sector {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// testGateway falla los teléfonos listados en failPhones y registra lo enviado.
type testGateway struct {
	failPhones map[string]string // phone -> error
	sentTo     []string
	message    string
}

func (g *testGateway) Send(ctx context.Context, to, message string) sms.Result {
	g.sentTo = append(g.sentTo, to)
	g.message = message
	if msg, ok := g.failPhones[to]; ok {
		return sms.Result{Phone: to, Success: false, Error: msg}
	}
	return sms.Result{Phone: to, Success: true}
}

func (g *testGateway) SendBulk(ctx context.Context, to []string, message string) []sms.Result {
	out := make([]sms.Result, 0, len(to))
	for _, phone := range to {
		out = append(out, g.Send(ctx, phone, message))
	}
	return out
}

func farmerWithPhone(id, phone, district, sector string) directory.User {
	return directory.User{
		ID:     id,
		Name:   "Farmer " + id,
		Phone:  phone,
		Role:   directory.RoleFarmer,
		Active: true,
		Farmer: &directory.FarmerProfile{District: district, Sector: sector},
	}
}

var testAdmin = directory.User{ID: "admin-1", Role: directory.RoleAdmin, Active: true}

func newAlertFixture(farmers ...directory.User) (*Service, *testRepo, *testDirectory, *testGateway) {
	repo := &testRepo{}
	dir := &testDirectory{farmers: farmers}
	gw := &testGateway{failPhones: map[string]string{}}
	svc := NewService(repo, dir, gw, nil)
	return svc, repo, dir, gw
}

// -------------------------
// Tests
// -------------------------

func TestService_Dispatch_AdminOnly(t *testing.T) {
	svc, _, _, _ := newAlertFixture(farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza"))

	farmer := farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza")
	_, err := svc.Dispatch(context.Background(), farmer, DispatchInput{
		Message:  "hello",
		Audience: Audience{Mode: AudienceAll},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Dispatch_ValidatesMessage(t *testing.T) {
	svc, repo, _, _ := newAlertFixture(farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza"))

	if _, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
		Message:  "   ",
		Audience: Audience{Mode: AudienceAll},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank message, got %v", err)
	}

	// 161 runas multibyte: el tope cuenta caracteres, no bytes
	long := strings.Repeat("é", MaxMessageLen+1)
	if _, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
		Message:  long,
		Audience: Audience{Mode: AudienceAll},
	}); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}

	// exactamente 160 pasa
	ok := strings.Repeat("é", MaxMessageLen)
	if _, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
		Message:  ok,
		Audience: Audience{Mode: AudienceAll},
	}); err != nil {
		t.Fatalf("expected 160-rune message to pass, got %v", err)
	}
	if len(repo.alerts) != 1 {
		t.Fatalf("expected exactly one alert recorded, got %d", len(repo.alerts))
	}
}

func TestService_Dispatch_SkipsPhonelessFarmers(t *testing.T) {
	svc, repo, _, gw := newAlertFixture(
		farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza"),
		farmerWithPhone("f2", "", "Musanze", "Muhoza"),
		farmerWithPhone("f3", "+250788000003", "Musanze", "Muhoza"),
	)

	res, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
		Message:  "vaccination day",
		Audience: Audience{Mode: AudienceAll},
	})
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if res.TotalRecipients != 2 {
		t.Fatalf("expected 2 recipients (f2 has no phone), got %d", res.TotalRecipients)
	}
	if len(gw.sentTo) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(gw.sentTo))
	}

	a := repo.alerts[0]
	if len(a.Recipients) != 2 || a.Recipients[0] != "f1" || a.Recipients[1] != "f3" {
		t.Fatalf("recipients should list only attempted farmers, got %#v", a.Recipients)
	}
}

func TestService_Dispatch_NoRecipients_NoAlertWritten(t *testing.T) {
	svc, repo, _, _ := newAlertFixture(
		farmerWithPhone("f1", "", "Musanze", "Muhoza"),
	)

	_, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
		Message:  "hello",
		Audience: Audience{Mode: AudienceAll},
	})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
	if len(repo.alerts) != 0 {
		t.Fatalf("no alert must be written without recipients, got %d", len(repo.alerts))
	}
}

func TestService_Dispatch_AttributesFailuresByPosition(t *testing.T) {
	svc, repo, _, gw := newAlertFixture(
		farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza"),
		farmerWithPhone("f2", "+250788000002", "Musanze", "Muhoza"),
		farmerWithPhone("f3", "+250788000003", "Musanze", "Muhoza"),
	)
	gw.failPhones["+250788000002"] = "UserInBlacklist"

	res, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
		Message:  "market prices updated",
		Audience: Audience{Mode: AudienceAll},
	})
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if res.SuccessCount != 2 || res.FailureCount != 1 {
		t.Fatalf("expected 2/1, got %d/%d", res.SuccessCount, res.FailureCount)
	}

	a := repo.alerts[0]
	if a.SuccessCount+a.FailureCount != len(a.Recipients) {
		t.Fatalf("count invariant broken: %d+%d != %d", a.SuccessCount, a.FailureCount, len(a.Recipients))
	}
	if len(a.Failed) != 1 {
		t.Fatalf("expected one failed recipient, got %#v", a.Failed)
	}
	if a.Failed[0].UserID != "f2" || a.Failed[0].Phone != "+250788000002" || a.Failed[0].Error != "UserInBlacklist" {
		t.Fatalf("failure attribution wrong: %#v", a.Failed[0])
	}
	if a.Status != StatusSent {
		t.Fatalf("alert status is always sent, got %s", a.Status)
	}
}

func TestService_Dispatch_AudienceModes(t *testing.T) {
	farmers := []directory.User{
		farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza"),
		farmerWithPhone("f2", "+250788000002", "Musanze", "Cyuve"),
		farmerWithPhone("f3", "+250788000003", "Huye", "Ngoma"),
	}

	cases := []struct {
		name      string
		audience  Audience
		wantIDs   []string
		wantType  AlertType
		wantQuery directory.FarmerQuery
	}{
		{
			name:     "all is broadcast",
			audience: Audience{Mode: AudienceAll},
			wantIDs:  []string{"f1", "f2", "f3"},
			wantType: TypeBroadcast,
		},
		{
			name:      "district filters",
			audience:  Audience{Mode: AudienceDistrict, District: "Musanze"},
			wantIDs:   []string{"f1", "f2"},
			wantType:  TypeBroadcast,
			wantQuery: directory.FarmerQuery{District: "Musanze"},
		},
		{
			name:      "sector filters",
			audience:  Audience{Mode: AudienceSector, Sector: "Ngoma"},
			wantIDs:   []string{"f3"},
			wantType:  TypeBroadcast,
			wantQuery: directory.FarmerQuery{Sector: "Ngoma"},
		},
		{
			name:     "single farmer is individual",
			audience: Audience{Mode: AudienceFarmer, FarmerID: "f2"},
			wantIDs:  []string{"f2"},
			wantType: TypeIndividual,
		},
		{
			name:     "farmer list is individual",
			audience: Audience{Mode: AudienceFarmers, FarmerIDs: []string{"f1", "f3"}},
			wantIDs:  []string{"f1", "f3"},
			wantType: TypeIndividual,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, dir, _ := newAlertFixture(farmers...)

			res, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
				Message:  "hello",
				Audience: tc.audience,
			})
			if err != nil {
				t.Fatalf("Dispatch error: %v", err)
			}
			if res.TotalRecipients != len(tc.wantIDs) {
				t.Fatalf("expected %d recipients, got %d", len(tc.wantIDs), res.TotalRecipients)
			}

			a := repo.alerts[0]
			if a.Type != tc.wantType {
				t.Fatalf("expected type %s, got %s", tc.wantType, a.Type)
			}
			for i, id := range tc.wantIDs {
				if a.Recipients[i] != id {
					t.Fatalf("recipient %d: expected %s, got %s", i, id, a.Recipients[i])
				}
			}
			if tc.wantQuery.District != "" && dir.lastQuery.District != tc.wantQuery.District {
				t.Fatalf("expected district query %q, got %q", tc.wantQuery.District, dir.lastQuery.District)
			}
			if tc.wantQuery.Sector != "" && dir.lastQuery.Sector != tc.wantQuery.Sector {
				t.Fatalf("expected sector query %q, got %q", tc.wantQuery.Sector, dir.lastQuery.Sector)
			}
		})
	}
}

func TestService_Dispatch_RejectsEmptyAudienceSelectors(t *testing.T) {
	svc, _, _, _ := newAlertFixture(farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza"))

	bad := []Audience{
		{Mode: AudienceFarmer},
		{Mode: AudienceFarmers, FarmerIDs: []string{"  "}},
		{Mode: AudienceDistrict},
		{Mode: AudienceSector},
		{Mode: AudienceMode("everyone")},
	}
	for _, a := range bad {
		if _, err := svc.Dispatch(context.Background(), testAdmin, DispatchInput{
			Message:  "hello",
			Audience: a,
		}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("audience %#v: expected ErrInvalidInput, got %v", a, err)
		}
	}
}

func TestService_List_AdminOnly_DefaultLimit(t *testing.T) {
	svc, repo, _, _ := newAlertFixture()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		repo.alerts = append(repo.alerts, Alert{ID: "a", Status: StatusSent, CreatedAt: now})
	}

	farmer := farmerWithPhone("f1", "+250788000001", "Musanze", "Muhoza")
	if _, err := svc.List(context.Background(), farmer, ListFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	got, err := svc.List(context.Background(), testAdmin, ListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected default limit 10, got %d", len(got))
	}
}
