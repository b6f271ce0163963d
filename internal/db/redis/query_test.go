package redis

import "testing"

func TestIntersect_SingleList(t *testing.T) {
	got := intersect([][]string{{"a", "b", "c"}})
	if len(got) != 3 {
		t.Fatalf("want 3, got %v", got)
	}
}

func TestIntersect_KeepsSmallestListOrder(t *testing.T) {
	got := intersect([][]string{
		{"x", "a", "b", "c", "d"},
		{"c", "a"},
		{"a", "c", "z"},
	})
	if len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Fatalf("want [c a], got %v", got)
	}
}

func TestIntersect_Disjoint(t *testing.T) {
	got := intersect([][]string{{"a"}, {"b"}})
	if len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}
