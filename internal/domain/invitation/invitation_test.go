package invitation

import "testing"

func TestComputeStatus(t *testing.T) {
	five := 5
	cases := []struct {
		name      string
		limit     *int
		used      int64
		expired   bool
		available bool
		label     string
	}{
		{"under limit", &five, 4, false, true, StatusAvailable},
		{"at limit", &five, 5, false, false, StatusUnavailable},
		{"over limit", &five, 6, false, false, StatusUnavailable},
		{"unlimited", nil, 1000, false, true, StatusAvailable},
		{"expired under limit", &five, 0, true, false, StatusExpired},
		{"expired at limit", &five, 5, true, false, StatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := ComputeStatus(tc.limit, tc.used, tc.expired)
			if st.Available != tc.available || st.Label != tc.label || st.UsageCount != tc.used {
				t.Fatalf("unexpected status: %+v", st)
			}
		})
	}
}

func TestRequiresSchool(t *testing.T) {
	for role, want := range map[string]bool{
		RoleSchool: true, RoleTeacher: true, RoleDistrict: false, RoleStudent: false, RoleAdmin: false,
	} {
		if got := RequiresSchool(role); got != want {
			t.Fatalf("RequiresSchool(%q) = %v", role, got)
		}
	}
}
