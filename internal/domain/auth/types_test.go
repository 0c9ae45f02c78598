package auth

import (
	"testing"
)

func TestSession_Role(t *testing.T) {
	s := Session{Token: "t", Identity: &Identity{Role: RoleAdmin}}
	if !s.IsAdmin() {
		t.Fatalf("expected admin")
	}
	if (Session{Token: "t"}).Role() != "" {
		t.Fatalf("expected empty role without identity")
	}
	if (Session{Token: "t", Identity: &Identity{Role: RoleMember}}).IsAdmin() {
		t.Fatalf("did not expect admin")
	}
}

func TestSession_Authenticated(t *testing.T) {
	if (Session{}).Authenticated() {
		t.Fatalf("empty session should not be authenticated")
	}
	if !(Session{Token: "abc"}).Authenticated() {
		t.Fatalf("session with token should be authenticated")
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleMember} {
		if !r.Valid() {
			t.Fatalf("expected %q valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Fatalf("guest should not be valid")
	}
}

func TestIdentity_DisplayName(t *testing.T) {
	if got := (Identity{Username: "alice"}).DisplayName(); got != "alice" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (Identity{Username: "alice", FullName: "Alice Doe"}).DisplayName(); got != "Alice Doe" {
		t.Fatalf("unexpected display name %q", got)
	}
}
