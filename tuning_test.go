package portalgun

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultTuningIsValid(t *testing.T) {
	assert.NoError(t, DefaultTuning().Validate())
}

func TestParseTuningOverridesDefaults(t *testing.T) {
	data := []byte(`
cooldown: 250ms
max_deploy_duration: 3s
target_scale: [0.4, 0.6, 0.6]
volumes:
  teleport: 0.25
fallback_colors: ["#112233", "ff8800"]
`)

	got, err := ParseTuning(data)
	require.NoError(t, err)

	want := DefaultTuning()
	want.Cooldown = 250 * time.Millisecond
	want.MaxDeployDuration = 3 * time.Second
	want.TargetScale = mgl64.Vec3{0.4, 0.6, 0.6}
	want.Volumes.Teleport = 0.25
	want.FallbackColors = [2]HexColor{
		{R: 0x11, G: 0x22, B: 0x33, A: 0xff},
		{R: 0xff, G: 0x88, B: 0x00, A: 0xff},
	}
	assert.Equal(t, want, got)
}

func TestParseTuningEmptyIsDefault(t *testing.T) {
	got, err := ParseTuning(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), got)
}

func TestParseTuningErrors(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		invalid bool
		substr  []string
	}{
		{
			name:    "every problem is reported",
			data:    "deploy_speed: 0\nmax_tick: 0s\nvolumes:\n  shoot: 2\n",
			invalid: true,
			substr:  []string{"deploy_speed", "max_tick", "volumes.shoot"},
		},
		{
			name:    "negative scale",
			data:    "target_scale: [0.3, -0.5, 0.5]\n",
			invalid: true,
			substr:  []string{"target_scale[1]"},
		},
		{
			name:   "bad colour",
			data:   "fallback_colors: [\"#12345\", \"#000000\"]\n",
			substr: []string{"six hex digits"},
		},
		{
			name:   "bad duration",
			data:   "cooldown: soon\n",
			substr: []string{"decode tuning"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTuning([]byte(tc.data))
			require.Error(t, err)
			assert.Equal(t, tc.invalid, errors.Is(err, ErrInvalidTuning))
			for _, s := range tc.substr {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestLoadTuning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exit_offset: 1.5\n"), 0o644))

	got, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.ExitOffset)

	_, err = LoadTuning(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, os.WriteFile(path, []byte("inner_radius: -1\n"), 0o644))
	_, err = LoadTuning(path)
	assert.ErrorIs(t, err, ErrInvalidTuning)
	assert.Contains(t, err.Error(), path)
}

func TestHexColorYAML(t *testing.T) {
	type doc struct {
		C HexColor `yaml:"c"`
	}
	in := doc{C: HexColor{R: 0x00, G: 0x00, B: 0xb3, A: 0xff}}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "#0000b3")

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, in, back)

	testCases := []struct {
		raw  string
		want HexColor
		ok   bool
	}{
		{"#cc8400", HexColor{R: 0xcc, G: 0x84, B: 0x00, A: 0xff}, true},
		{" 0000B3 ", HexColor{R: 0x00, G: 0x00, B: 0xb3, A: 0xff}, true},
		{"#ggg000", HexColor{}, false},
		{"#fff", HexColor{}, false},
	}
	for _, tc := range testCases {
		got, err := ParseHexColor(tc.raw)
		if !tc.ok {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got)
	}
}
