package infra

import (
	"strings"
	"testing"

	"youbuidl/internal/sqlinline"
)

func TestSplitMarker(t *testing.T) {
	marker, stmt, err := splitMarker(sqlinline.QInsertReceipt)
	if err != nil {
		t.Fatalf("splitMarker: %v", err)
	}
	if marker != "3f1c6a2e-8d44-4b9a-b1e7-52c09e7d4a31" {
		t.Errorf("unexpected marker: %q", marker)
	}
	if strings.Contains(stmt, "--sql") {
		t.Errorf("marker line must be stripped from the statement: %q", stmt)
	}
	if !strings.Contains(stmt, "insert into donation_receipts") {
		t.Errorf("statement body lost: %q", stmt)
	}
}

func TestSplitMarkerRejectsUnmarkedQuery(t *testing.T) {
	if _, _, err := splitMarker("select 1;\n"); err == nil {
		t.Fatal("expected error for query without marker")
	}
	if _, _, err := splitMarker("--sql not-a-uuid\nselect 1;"); err == nil {
		t.Fatal("expected error for malformed marker")
	}
}
