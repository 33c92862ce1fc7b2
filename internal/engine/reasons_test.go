package engine

import (
	"testing"

	"github.com/ashureev/wattwise/internal/domain"
)

func b(v bool) *bool { return &v }

func TestPickReasons(t *testing.T) {
	tests := []struct {
		name    string
		profile *domain.Profile
		flags   domain.ContextFlags
		basis   domain.Basis
		want    []string
	}{
		{
			name:  "no signals keeps standby only",
			basis: domain.BasisKWh,
			want:  []string{reasonStandby},
		},
		{
			name:    "electric heating without cold flag",
			profile: &domain.Profile{Heating: domain.HeatingElectric},
			basis:   domain.BasisKWh,
			want:    []string{reasonHeating, reasonStandby},
		},
		{
			name:    "all signals capped at three",
			profile: &domain.Profile{Heating: domain.HeatingElectric, People: domain.PeopleFivePlus},
			flags:   domain.ContextFlags{Cold: b(true), Boiler: b(true), NewAppliance: b(true)},
			basis:   domain.BasisKWh,
			want:    []string{reasonHeating, reasonBoiler, reasonOccupancy},
		},
		{
			name:  "money basis appends tariff caveat",
			basis: domain.BasisMoney,
			want:  []string{reasonStandby, reasonTariff},
		},
		{
			name:    "tariff caveat dropped when three better reasons exist",
			profile: &domain.Profile{Heating: domain.HeatingElectric},
			flags:   domain.ContextFlags{Boiler: b(true), NewAppliance: b(true)},
			basis:   domain.BasisMoney,
			want:    []string{reasonHeating, reasonBoiler, reasonAppliance},
		},
		{
			name:  "explicit no answers suppress their reasons",
			flags: domain.ContextFlags{Cold: b(false), Boiler: b(false), NewAppliance: b(false)},
			basis: domain.BasisNone,
			want:  []string{reasonStandby},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickReasons(tt.profile, tt.flags, tt.basis)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d reasons %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("reason[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
