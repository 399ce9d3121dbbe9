package portalgun

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every validation failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Volumes are the cue volumes in [0, 1].
type Volumes struct {
	Shoot       float64 `yaml:"shoot"`
	Open        float64 `yaml:"open"`
	OpenDelayed float64 `yaml:"open_delayed"`
	Teleport    float64 `yaml:"teleport"`
}

// Tuning holds every empirically chosen constant of the subsystem. The
// separation thresholds have no derivation; they are kept as parameters.
type Tuning struct {
	SurfaceOffset      float64       `yaml:"surface_offset"`
	MinSeparation      float64       `yaml:"min_separation"`
	CoFacingDot        float64       `yaml:"co_facing_dot"`
	CoFacingSeparation float64       `yaml:"co_facing_separation"`
	StartScale         float64       `yaml:"start_scale"`
	TargetScale        mgl64.Vec3    `yaml:"target_scale"`
	DeploySpeed        float64       `yaml:"deploy_speed"`
	MaxDeployDuration  time.Duration `yaml:"max_deploy_duration"`
	InnerRadius        float64       `yaml:"inner_radius"`
	EnterDistance      float64       `yaml:"enter_distance"`
	HorizontalDot      float64       `yaml:"horizontal_dot"`
	ExitOffset         float64       `yaml:"exit_offset"`
	Cooldown           time.Duration `yaml:"cooldown"`
	MaxTick            time.Duration `yaml:"max_tick"`
	OpenCueLead        float64       `yaml:"open_cue_lead"`
	Volumes            Volumes       `yaml:"volumes"`
	FallbackColors     [2]HexColor   `yaml:"fallback_colors"`
}

// DefaultTuning returns the values the portal gun shipped with.
func DefaultTuning() Tuning {
	return Tuning{
		SurfaceOffset:      0.01,
		MinSeparation:      1.5,
		CoFacingDot:        0.95,
		CoFacingSeparation: 2.0,
		StartScale:         0.1,
		TargetScale:        mgl64.Vec3{0.3, 0.5, 0.5},
		DeploySpeed:        15,
		MaxDeployDuration:  4 * time.Second,
		InnerRadius:        3,
		EnterDistance:      0.01,
		HorizontalDot:      0.9,
		ExitOffset:         1,
		Cooldown:           100 * time.Millisecond,
		MaxTick:            50 * time.Millisecond,
		OpenCueLead:        0.9,
		Volumes: Volumes{
			Shoot:       0.5,
			Open:        0.5,
			OpenDelayed: 0.7,
			Teleport:    0.5,
		},
		FallbackColors: [2]HexColor{
			{R: 0x00, G: 0x00, B: 0xb3, A: 0xff},
			{R: 0xcc, G: 0x84, B: 0x00, A: 0xff},
		},
	}
}

// Validate collects every problem instead of stopping at the first one.
func (t Tuning) Validate() error {
	var problems []string

	positive := func(name string, v float64) {
		if v <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %v", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative, got %v", name, v))
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			problems = append(problems, fmt.Sprintf("%s must be within [0, 1], got %v", name, v))
		}
	}

	nonNegative("surface_offset", t.SurfaceOffset)
	nonNegative("min_separation", t.MinSeparation)
	unit("co_facing_dot", t.CoFacingDot)
	nonNegative("co_facing_separation", t.CoFacingSeparation)
	positive("start_scale", t.StartScale)
	for i, s := range t.TargetScale {
		positive(fmt.Sprintf("target_scale[%d]", i), s)
	}
	positive("deploy_speed", t.DeploySpeed)
	nonNegative("max_deploy_duration", t.MaxDeployDuration.Seconds())
	positive("inner_radius", t.InnerRadius)
	nonNegative("enter_distance", t.EnterDistance)
	unit("horizontal_dot", t.HorizontalDot)
	nonNegative("exit_offset", t.ExitOffset)
	nonNegative("cooldown", t.Cooldown.Seconds())
	positive("max_tick", t.MaxTick.Seconds())
	unit("open_cue_lead", t.OpenCueLead)
	unit("volumes.shoot", t.Volumes.Shoot)
	unit("volumes.open", t.Volumes.Open)
	unit("volumes.open_delayed", t.Volumes.OpenDelayed)
	unit("volumes.teleport", t.Volumes.Teleport)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTuning, strings.Join(problems, "; "))
	}
	return nil
}

// ParseTuning decodes YAML over the defaults, so a file only needs the keys
// it changes.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// LoadTuning reads a tuning file from disk.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("could not read tuning file %s: %w", path, err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

// HexColor is an opaque colour written as "#rrggbb" in YAML.
type HexColor color.RGBA

func (h HexColor) RGBA() color.RGBA {
	return color.RGBA(h)
}

func (h HexColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", h.R, h.G, h.B)
}

func (h HexColor) MarshalYAML() (any, error) {
	return h.String(), nil
}

func (h *HexColor) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c, err := ParseHexColor(raw)
	if err != nil {
		return err
	}
	*h = c
	return nil
}

// ParseHexColor accepts "#rrggbb" or "rrggbb".
func ParseHexColor(raw string) (HexColor, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) != 6 {
		return HexColor{}, fmt.Errorf("colour %q must have six hex digits", raw)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return HexColor{}, fmt.Errorf("colour %q: %w", raw, err)
	}
	return HexColor{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
