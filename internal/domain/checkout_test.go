package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProceed(t *testing.T) {
	tests := []struct {
		name         string
		isAuth       bool
		requireLogin bool
		want         GateDecision
		navigate     string
	}{
		{"guest, login required", false, true, GateShowLogin, NavigateLogin},
		{"guest, login optional", false, false, GateAdvance, NavigateCheckout},
		{"signed in, login required", true, true, GateAdvance, NavigateCheckout},
		{"signed in, login optional", true, false, GateAdvance, NavigateCheckout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Proceed(tt.isAuth, tt.requireLogin)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.navigate, got.Navigate())
		})
	}
}
