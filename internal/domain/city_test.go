package domain

import "testing"

func TestCityMatches(t *testing.T) {
	tests := []struct {
		request, query string
		want           bool
	}{
		{"Delhi", "delhi", true},
		{"New Delhi", "Delhi", true},
		{"Delhi", "New Delhi NCR", true},
		{" mumbai ", "Mumbai", true},
		{"Pune", "Mumbai", false},
		{"", "Delhi", false},
		{"Delhi", "", false},
	}
	for _, tc := range tests {
		if got := CityMatches(tc.request, tc.query); got != tc.want {
			t.Fatalf("CityMatches(%q, %q) = %v, want %v", tc.request, tc.query, got, tc.want)
		}
	}
}

func TestCustomerMergeKeepsExistingValues(t *testing.T) {
	c := Customer{ID: "CUST-1", Name: "Asha", Phone: "9876543210", City: "Pune"}
	merged := c.Merge(CustomerProfile{Email: "asha@example.com", City: "Mumbai"})
	if merged.Name != "Asha" || merged.Phone != "9876543210" {
		t.Fatalf("expected untouched fields to survive, got %+v", merged)
	}
	if merged.Email != "asha@example.com" || merged.City != "Mumbai" {
		t.Fatalf("expected supplied fields to win, got %+v", merged)
	}
}
