package db

import (
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// --- Profiles ---

func TestLinkAndGetProfile(t *testing.T) {
	d := openTestDB(t)

	if err := d.LinkProfile("123", "Steve", "069a79f4-44e9-4726-a5be-fca90e38aaf5"); err != nil {
		t.Fatalf("LinkProfile: %v", err)
	}

	p, err := d.GetProfile("123")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p == nil {
		t.Fatal("expected a profile, got nil")
	}
	if p.MinecraftUsername != "Steve" {
		t.Errorf("username = %q, want Steve", p.MinecraftUsername)
	}
	if p.MinecraftUUID != "069a79f4-44e9-4726-a5be-fca90e38aaf5" {
		t.Errorf("uuid = %q", p.MinecraftUUID)
	}
	if p.LinkedAt == "" {
		t.Error("linked_at not set")
	}
}

func TestGetProfile_Missing(t *testing.T) {
	d := openTestDB(t)
	p, err := d.GetProfile("does-not-exist")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil, got %+v", p)
	}
}

func TestLinkProfile_Replaces(t *testing.T) {
	d := openTestDB(t)

	d.LinkProfile("123", "Steve", "uuid-a")
	if err := d.LinkProfile("123", "Alex", "uuid-b"); err != nil {
		t.Fatalf("re-link: %v", err)
	}

	p, _ := d.GetProfile("123")
	if p == nil || p.MinecraftUsername != "Alex" || p.MinecraftUUID != "uuid-b" {
		t.Errorf("expected replaced link, got %+v", p)
	}
}

func TestUnlinkProfile(t *testing.T) {
	d := openTestDB(t)

	d.LinkProfile("123", "Steve", "uuid-a")
	removed, err := d.UnlinkProfile("123")
	if err != nil {
		t.Fatalf("UnlinkProfile: %v", err)
	}
	if !removed {
		t.Error("expected removal to report true")
	}

	removed, err = d.UnlinkProfile("123")
	if err != nil {
		t.Fatalf("second UnlinkProfile: %v", err)
	}
	if removed {
		t.Error("second unlink should report false")
	}

	if p, _ := d.GetProfile("123"); p != nil {
		t.Errorf("profile still present after unlink: %+v", p)
	}
}

// --- Personality snapshots ---

func TestPersonalitySnapshotRoundTrip(t *testing.T) {
	d := openTestDB(t)

	if got, err := d.LoadPersonalitySnapshot(); err != nil || got != "" {
		t.Fatalf("expected empty snapshot initially, got (%q, %v)", got, err)
	}

	if err := d.SavePersonalitySnapshot(`{"interaction_count":5}`); err != nil {
		t.Fatalf("SavePersonalitySnapshot: %v", err)
	}
	got, err := d.LoadPersonalitySnapshot()
	if err != nil {
		t.Fatalf("LoadPersonalitySnapshot: %v", err)
	}
	if got != `{"interaction_count":5}` {
		t.Errorf("snapshot = %q", got)
	}

	// Saving again overwrites the single row.
	if err := d.SavePersonalitySnapshot(`{"interaction_count":6}`); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _ = d.LoadPersonalitySnapshot()
	if got != `{"interaction_count":6}` {
		t.Errorf("snapshot after overwrite = %q", got)
	}
}
