package memory

import (
	"context"
	"testing"
	"time"

	"vet-connect/internal/domain/alerts"
	"vet-connect/internal/domain/appointments"
	"vet-connect/internal/domain/directory"
)

func TestAppointmentRepo_ListOrder_DateDescTimeAsc(t *testing.T) {
	repo := NewAppointmentRepo()
	ctx := context.Background()

	d1 := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	seed := []appointments.Appointment{
		{ID: "a1", FarmerID: "f1", Date: d1, Time: "14:00"},
		{ID: "a2", FarmerID: "f1", Date: d2, Time: "10:00"},
		{ID: "a3", FarmerID: "f1", Date: d2, Time: "08:00"},
		{ID: "a4", FarmerID: "f1", Date: d1, Time: "09:00"},
	}
	for _, a := range seed {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %s: %v", a.ID, err)
		}
	}

	got, err := repo.ListByFarmer(ctx, "f1")
	if err != nil {
		t.Fatalf("ListByFarmer: %v", err)
	}

	want := []string{"a3", "a2", "a4", "a1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d appointments, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestUserRepo_ListFarmers_DeterministicOrder(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	seed := []directory.User{
		{ID: "f2", Role: directory.RoleFarmer, Active: true, CreatedAt: base.Add(time.Hour),
			Farmer: &directory.FarmerProfile{District: "Musanze", Sector: "Muhoza"}},
		{ID: "f1", Role: directory.RoleFarmer, Active: true, CreatedAt: base,
			Farmer: &directory.FarmerProfile{District: "Musanze", Sector: "Cyuve"}},
		{ID: "f3", Role: directory.RoleFarmer, Active: false, CreatedAt: base,
			Farmer: &directory.FarmerProfile{District: "Musanze", Sector: "Muhoza"}},
		{ID: "v1", Role: directory.RoleVeterinarian, Active: true, CreatedAt: base,
			Vet: &directory.VetProfile{Specialty: "x", LicenseNumber: "1", Location: "y"}},
	}
	for _, u := range seed {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create %s: %v", u.ID, err)
		}
	}

	got, err := repo.ListFarmers(ctx, directory.FarmerQuery{})
	if err != nil {
		t.Fatalf("ListFarmers: %v", err)
	}
	// solo farmers activos, created_at asc
	if len(got) != 2 || got[0].ID != "f1" || got[1].ID != "f2" {
		t.Fatalf("unexpected farmers: %#v", got)
	}

	got, err = repo.ListFarmers(ctx, directory.FarmerQuery{Sector: "Muhoza"})
	if err != nil {
		t.Fatalf("ListFarmers sector: %v", err)
	}
	if len(got) != 1 || got[0].ID != "f2" {
		t.Fatalf("sector filter wrong: %#v", got)
	}
}

func TestAlertRepo_List_NewestFirst_Paginated(t *testing.T) {
	repo := NewAlertRepo()
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		a := alerts.Alert{ID: id, Status: alerts.StatusSent, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	got, err := repo.List(ctx, alerts.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "mid" {
		t.Fatalf("expected newest first, got %#v", got)
	}

	got, err = repo.List(ctx, alerts.ListFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List offset: %v", err)
	}
	if len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("offset page wrong: %#v", got)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count: got %d, err %v", n, err)
	}
}
