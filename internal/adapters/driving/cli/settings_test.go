package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range settingsCmd.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["show"])
	assert.True(t, names["llm"])
	assert.True(t, names["embedding"])
	assert.True(t, names["websearch"])
}

func TestSettingsShowCmd_PrintsSections(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[LLM]")
	assert.Contains(t, buf.String(), "[Embedding]")
	assert.Contains(t, buf.String(), "[Web Search]")
	assert.Contains(t, buf.String(), "[Retrieval]")
}

func TestSettingsShowCmd_MasksAPIKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settings := domain.DefaultAppSettings()
	settings.LLM.APIKey = "sk-ant-verylongsecretkey"
	settings.WebSearch.TavilyAPIKey = "tvly-verylongsecretkey"
	settingsService = &mockSettingsService{settings: &settings}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "sk-ant-verylongsecretkey")
	assert.NotContains(t, buf.String(), "tvly-verylongsecretkey")
	assert.Contains(t, buf.String(), "sk-a...")
}

func TestSettingsShowCmd_ValidationWarning(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settings := domain.DefaultAppSettings()
	settingsService = &validateFailSettingsService{settings: &settings}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Warning:")
	assert.Contains(t, buf.String(), "Run 'vera settings llm' to fix configuration issues.")
}

func TestSettingsShowCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

// validateFailSettingsService serves settings but fails validation.
type validateFailSettingsService struct {
	mockSettingsService
	settings *domain.AppSettings
}

func (v *validateFailSettingsService) Get() (*domain.AppSettings, error) {
	return v.settings, nil
}

func (v *validateFailSettingsService) Validate() error {
	return errors.New("LLM is not configured")
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"empty uses default", "", 3, 1, 1},
		{"valid choice", "2", 3, 1, 2},
		{"out of range uses default", "7", 3, 1, 1},
		{"zero uses default", "0", 3, 1, 1},
		{"non-numeric uses default", "abc", 3, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"short key fully masked", "abc", "****"},
		{"eight chars fully masked", "12345678", "****"},
		{"long key shows edges", "sk-ant-api-key-12345", "sk-a...2345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.key))
		})
	}
}
