package service

import (
	"context"
	"testing"

	"github.com/clinicpad/clinicpad/internal/seed"
)

func TestEnableIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	user := env.mustRegister(t, "Jane Roe")

	for i := 0; i < 2; i++ {
		if err := env.seedSvc.Enable(ctx); err != nil {
			t.Fatalf("Enable #%d: %v", i+1, err)
		}
	}

	pats, _ := env.patients.GetAll(ctx)
	if want := len(seed.Patients()) + 1; len(pats) != want {
		t.Fatalf("patients = %d, want %d (seed set once plus the user record)", len(pats), want)
	}
	appts, _ := env.appointments.GetAll(ctx)
	if want := len(seed.Appointments()); len(appts) != want {
		t.Fatalf("appointments = %d, want %d", len(appts), want)
	}

	on, _ := env.seedSvc.Enabled(ctx)
	if !on {
		t.Error("toggle not set after Enable")
	}
	if _, err := env.patients.GetByID(ctx, user.ID); err != nil {
		t.Errorf("user record lost by Enable: %v", err)
	}
}

func TestDisableRemovesOnlySeedRecords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	user := env.mustRegister(t, "Jane Roe")
	userAppt := env.mustSchedule(t, user.ID, "2025-06-01", "Checkup")

	if err := env.seedSvc.Enable(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := env.seedSvc.Disable(ctx); err != nil {
			t.Fatalf("Disable #%d: %v", i+1, err)
		}
	}

	pats, _ := env.patients.GetAll(ctx)
	if len(pats) != 1 || pats[0].ID != user.ID {
		t.Fatalf("patients after Disable = %v", pats)
	}
	appts, _ := env.appointments.GetAll(ctx)
	if len(appts) != 1 || appts[0].ID != userAppt.ID {
		t.Fatalf("appointments after Disable = %v", appts)
	}

	on, _ := env.seedSvc.Enabled(ctx)
	if on {
		t.Error("toggle still set after Disable")
	}
}

func TestApplyFirstLaunchSeedsOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	if err := env.seedSvc.ApplyFirstLaunch(ctx, true); err != nil {
		t.Fatal(err)
	}
	pats, _ := env.patients.GetAll(ctx)
	if len(pats) != len(seed.Patients()) {
		t.Fatalf("patients = %d after first launch", len(pats))
	}

	// A later launch after the user turned demo data off must not re-seed.
	if err := env.seedSvc.Disable(ctx); err != nil {
		t.Fatal(err)
	}
	if err := env.seedSvc.ApplyFirstLaunch(ctx, true); err != nil {
		t.Fatal(err)
	}
	pats, _ = env.patients.GetAll(ctx)
	if len(pats) != 0 {
		t.Fatalf("second launch re-seeded %d patients", len(pats))
	}
}

func TestApplyFirstLaunchRespectsDisabledDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	if err := env.seedSvc.ApplyFirstLaunch(ctx, false); err != nil {
		t.Fatal(err)
	}
	pats, _ := env.patients.GetAll(ctx)
	if len(pats) != 0 {
		t.Fatalf("seeded %d patients with seeding off", len(pats))
	}
	done, _ := env.settings.FirstLaunchDone(ctx)
	if !done {
		t.Error("first-launch flag not recorded")
	}
}
