package category

import "testing"

func TestDonationEnabled(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"projects", true},
		{"public-goods", true},
		{"governance", false},
		{"announcements", false},
		{"layer2", true},
		{"does-not-exist", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := DonationEnabled(tc.id); got != tc.want {
			t.Errorf("DonationEnabled(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestAllReturnsACopy(t *testing.T) {
	first := All()
	first[0].Label = "mutated"
	if All()[0].Label == "mutated" {
		t.Fatal("All must not expose the internal table")
	}
}
