package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int) *int { return &v }

func TestResolve(t *testing.T) {
	salonOpen := WorkingDay{Enabled: true, StartMinute: 540, EndMinute: 1080} // 09:00-18:00
	salonClosed := WorkingDay{}

	tests := []struct {
		name     string
		salonDay WorkingDay
		staffDay *WorkingDay
		override *Override
		want     Window
	}{
		{
			name:     "salon hours only",
			salonDay: salonOpen,
			want:     Window{Open: true, StartMinute: 540, EndMinute: 1080},
		},
		{
			name:     "salon closed closes everything",
			salonDay: salonClosed,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 600, EndMinute: 900},
			want:     Window{},
		},
		{
			name:     "staff weekday narrows salon window",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 600, EndMinute: 900},
			want:     Window{Open: true, StartMinute: 600, EndMinute: 900},
		},
		{
			name:     "staff window clipped to salon hours",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 480, EndMinute: 1200}, // 08:00-20:00
			want:     Window{Open: true, StartMinute: 540, EndMinute: 1080},
		},
		{
			name:     "staff weekday disabled means closed",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: false},
			want:     Window{},
		},
		{
			name:     "non-working override closes an enabled day",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 600, EndMinute: 900},
			override: &Override{IsWorking: false},
			want:     Window{},
		},
		{
			name:     "working override replaces both times",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 600, EndMinute: 900},
			override: &Override{IsWorking: true, StartMinute: ptr(660), EndMinute: ptr(960)},
			want:     Window{Open: true, StartMinute: 660, EndMinute: 960},
		},
		{
			name:     "working override falls back per missing field",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 600, EndMinute: 900},
			override: &Override{IsWorking: true, StartMinute: ptr(720)},
			want:     Window{Open: true, StartMinute: 720, EndMinute: 900},
		},
		{
			name:     "working override on staff day off",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: false},
			override: &Override{IsWorking: true, StartMinute: ptr(600), EndMinute: ptr(840)},
			want:     Window{Open: true, StartMinute: 600, EndMinute: 840},
		},
		{
			name:     "override cannot escape salon hours",
			salonDay: salonOpen,
			override: &Override{IsWorking: true, StartMinute: ptr(360), EndMinute: ptr(1380)},
			want:     Window{Open: true, StartMinute: 540, EndMinute: 1080},
		},
		{
			name:     "override on salon-closed day stays closed",
			salonDay: salonClosed,
			override: &Override{IsWorking: true, StartMinute: ptr(600), EndMinute: ptr(840)},
			want:     Window{},
		},
		{
			name:     "degenerate clipped window is closed",
			salonDay: salonOpen,
			staffDay: &WorkingDay{Enabled: true, StartMinute: 1080, EndMinute: 1200},
			want:     Window{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.salonDay, tt.staffDay, tt.override)
			assert.Equal(t, tt.want, got)
		})
	}
}
