package domain

import "testing"

func TestDeriveCategoriesFirstSeenOrder(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "shoes", ImageURL: "s1.png"},
		{ID: "2", Category: "hats", ImageURL: "h1.png"},
		{ID: "3", Category: "shoes", ImageURL: "s2.png"},
		{ID: "4", Category: ""},
	}
	got := DeriveCategories(products)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Name != "shoes" || got[0].ImageURL != "s1.png" {
		t.Fatalf("unexpected first category: %+v", got[0])
	}
	if got[1].ID != 2 || got[1].Name != "hats" {
		t.Fatalf("unexpected second category: %+v", got[1])
	}
}

func TestSessionCloneCopiesUser(t *testing.T) {
	s := Session{User: &User{ID: "u1", Name: "Ada"}, IsLoggedIn: true}
	c := s.Clone()
	c.User.Name = "changed"
	if s.User.Name != "Ada" {
		t.Fatalf("clone must not share user pointer, got %q", s.User.Name)
	}
}

func TestProductDisplayNameFallsBackToName(t *testing.T) {
	if got := (Product{Name: "Lamp"}).DisplayName(); got != "Lamp" {
		t.Fatalf("expected Lamp, got %q", got)
	}
	if got := (Product{Title: "Desk Lamp", Name: "Lamp"}).DisplayName(); got != "Desk Lamp" {
		t.Fatalf("expected Desk Lamp, got %q", got)
	}
}
