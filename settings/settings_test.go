package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"frame delta", func(s *Settings) { s.Session.MaxFrameDelta = 0 }},
		{"upward gravity", func(s *Settings) { s.Locomotion.Gravity = 10 }},
		{"snap fraction", func(s *Settings) { s.Locomotion.FloorSnapFraction = 1.5 }},
		{"min radius", func(s *Settings) { s.Camera.MinRadius = 10 }},
		{"polar bounds", func(s *Settings) { s.Camera.PolarMin = 2 }},
		{"health", func(s *Settings) { s.Adversary.Health = 0 }},
		{"bank sign", func(s *Settings) { s.Adversary.BankSign = 0.5 }},
		{"altitude band", func(s *Settings) { s.Flight.AltitudeFloor = 10 }},
		{"mount band", func(s *Settings) { s.Mount.BandLow = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, SaveDefault(path))
	require.Error(t, SaveDefault(path))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadKeepsDefaultsForMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Locomotion]\nMaxSpeed = 9.0\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, s.Locomotion.MaxSpeed)
	assert.Equal(t, DefaultSettings().Locomotion.Gravity, s.Locomotion.Gravity)
	assert.Equal(t, DefaultSettings().Camera, s.Camera)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Adversary]\nBankSign = 2.0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
