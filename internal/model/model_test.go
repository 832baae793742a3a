package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProductPatchApply(t *testing.T) {
	p := Product{
		Name:        "Deep clean",
		Description: "Full disassembly clean",
		Price:       35,
		Category:    "service",
		Available:   true,
	}

	price := 39.0
	available := false
	patch := ProductPatch{Price: &price, Available: &available}
	patch.Apply(&p)

	if p.Price != 39 {
		t.Errorf("price: got %v, want 39", p.Price)
	}
	if p.Available {
		t.Error("available should be false after patch")
	}
	if p.Name != "Deep clean" || p.Description != "Full disassembly clean" || p.Category != "service" {
		t.Errorf("untouched fields changed: %+v", p)
	}
}

func TestProductPatchApplyEmpty(t *testing.T) {
	p := Product{Name: "Brush", Price: 14.5, Available: true}
	orig := p

	var patch ProductPatch
	patch.Apply(&p)

	if p != orig {
		t.Errorf("empty patch changed the product: %+v", p)
	}
}

func TestProductPatchZeroValuesAreApplied(t *testing.T) {
	// An explicit zero in the request is a real update, distinct from the
	// field being absent.
	p := Product{Name: "Brush", Description: "soft bristle", Price: 14.5}

	var body = `{"price": 0, "description": ""}`
	var patch ProductPatch
	if err := json.Unmarshal([]byte(body), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	patch.Apply(&p)

	if p.Price != 0 {
		t.Errorf("price: got %v, want 0", p.Price)
	}
	if p.Description != "" {
		t.Errorf("description: got %q, want empty", p.Description)
	}
	if p.Name != "Brush" {
		t.Errorf("absent field changed: got name %q", p.Name)
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$supersecret",
		Role:         RoleClient,
	}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if strings.Contains(string(b), "supersecret") || strings.Contains(string(b), "password") {
		t.Errorf("serialized user leaks password material: %s", b)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleClient, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	for _, r := range []Role{"", "superuser", "Client"} {
		if r.Valid() {
			t.Errorf("role %q should be invalid", r)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderCompleted, OrderCancelled} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []OrderStatus{"", "shipped", "Pending"} {
		if s.Valid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	if (&User{Role: RoleClient}).IsAdmin() {
		t.Error("client should not be admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin should be admin")
	}
}
