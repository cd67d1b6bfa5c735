package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokeys/macrod/gesture"
)

func writeTempProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const jsonProfile = `{
  "name": "raid",
  "macroBindings": [
    {
      "name": "opener",
      "trigger": {"key": "q", "gesture": "double"},
      "enabled": true,
      "actions": [
        {"key": "1", "delayAfterMs": 25},
        {"key": "2", "delayAfterMs": 40}
      ]
    }
  ]
}`

const tomlProfile = `name = "raid"

[[macro_bindings]]
name = "opener"
enabled = true

[macro_bindings.trigger]
key = "q"
gesture = "double"

[[macro_bindings.actions]]
key = "1"
delay_after_ms = 25

[[macro_bindings.actions]]
key = "2"
delay_after_ms = 40
`

const yamlProfile = `name: raid
macroBindings:
  - name: opener
    trigger:
      key: q
      gesture: double
    enabled: true
    actions:
      - key: "1"
        delayAfterMs: 25
      - key: "2"
        delayAfterMs: 40
`

func TestLoadAllFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"raid.json", jsonProfile},
		{"raid.toml", tomlProfile},
		{"raid.yaml", yamlProfile},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			p, err := Load(writeTempProfile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "raid", p.Name)
			require.Len(t, p.Bindings, 1)
			b := p.Bindings[0]
			assert.Equal(t, "opener", b.Name)
			assert.Equal(t, gesture.Double, b.Trigger.Gesture)
			require.Len(t, b.Actions, 2)
			assert.Equal(t, int64(40), b.Actions[1].DelayAfterMs)
		})
	}
}

func TestLoadMissingSettingsFallsBackToDefaults(t *testing.T) {
	p, err := Load(writeTempProfile(t, "raid.json", jsonProfile))
	require.NoError(t, err)
	assert.Equal(t, gesture.DefaultSettings(), p.GestureSettings())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	content := `{
  "name": "broken",
  "gestureSettings": {
    "multiPressWindowMs": 350,
    "debounceDelayMs": 30,
    "longPressMinMs": 500,
    "longPressMaxMs": 400,
    "superLongMinMs": 1200,
    "superLongMaxMs": 2500,
    "cancelThresholdMs": 4000
  },
  "macroBindings": []
}`
	_, err := Load(writeTempProfile(t, "broken.json", content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longPressMinMs")
}

func TestLoadRejectsUnknownGesture(t *testing.T) {
	content := `{
  "name": "broken",
  "macroBindings": [
    {"name": "x", "trigger": {"key": "q", "gesture": "quintuple"}, "enabled": true, "actions": []}
  ]
}`
	_, err := Load(writeTempProfile(t, "broken.json", content))
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateBindingNames(t *testing.T) {
	content := `{
  "name": "broken",
  "macroBindings": [
    {"name": "x", "trigger": {"key": "q", "gesture": "tap"}, "enabled": true, "actions": []},
    {"name": "x", "trigger": {"key": "w", "gesture": "tap"}, "enabled": true, "actions": []}
  ]
}`
	_, err := Load(writeTempProfile(t, "broken.json", content))
	assert.Error(t, err)
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	_, err := Load(writeTempProfile(t, "raid.ini", "name=raid"))
	assert.Error(t, err)
}

func TestLoadDoesNotRejectInvalidBindingTiming(t *testing.T) {
	// uniform delays violate the executor's variance constraint, but that
	// is a per-binding rejection at registration, not a load failure
	content := `{
  "name": "raid",
  "macroBindings": [
    {
      "name": "uniform",
      "trigger": {"key": "q", "gesture": "tap"},
      "enabled": true,
      "actions": [
        {"key": "1", "delayAfterMs": 25},
        {"key": "2", "delayAfterMs": 25}
      ]
    }
  ]
}`
	p, err := Load(writeTempProfile(t, "raid.json", content))
	require.NoError(t, err)
	assert.Len(t, p.Bindings, 1)
}

func TestFindBinding(t *testing.T) {
	p, err := Load(writeTempProfile(t, "raid.json", jsonProfile))
	require.NoError(t, err)

	assert.NotNil(t, p.FindBinding("opener"))
	assert.Nil(t, p.FindBinding("missing"))
}
