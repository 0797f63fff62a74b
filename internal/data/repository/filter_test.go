package repository

import "testing"

func TestFilterBuilder(t *testing.T) {
	var f filterBuilder
	if f.where() != "" {
		t.Errorf("empty builder where = %q", f.where())
	}

	f.add("b.status = ?", "pending")
	f.add("b.room_id = ?", "room-1")

	if got := f.where(); got != " AND b.status = $1 AND b.room_id = $2" {
		t.Errorf("where = %q", got)
	}
	if f.next() != 3 {
		t.Errorf("next = %d, want 3", f.next())
	}
	if len(f.args) != 2 || f.args[0] != "pending" {
		t.Errorf("args = %v", f.args)
	}
}
