package scene

import (
	"sort"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"golang.org/x/xerrors"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by NewScene
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
	Seeded      bool   `json:"seeded"` // Layout depends on the seed
}

type sceneEntry struct {
	info  SceneInfo
	build func(seed int64, overrides ...geometry.CameraConfig) (*Scene, error)
}

var builtInScenes = map[string]sceneEntry{
	"random-spheres": {
		info: SceneInfo{
			Description: "Ground sphere with a grid of small random spheres and three large ones",
			Seeded:      true,
		},
		build: NewRandomSpheresScene,
	},
	"ground": {
		info: SceneInfo{
			Description: "Single grey ground sphere under the sky gradient",
		},
		build: func(_ int64, overrides ...geometry.CameraConfig) (*Scene, error) {
			return NewGroundScene(overrides...)
		},
	},
	"three-spheres": {
		info: SceneInfo{
			Description: "Diffuse, metal and glass spheres with a hollow glass bubble",
		},
		build: func(_ int64, overrides ...geometry.CameraConfig) (*Scene, error) {
			return NewThreeSpheresScene(overrides...)
		},
	},
}

// DefaultSceneName is the scene rendered when none is requested
const DefaultSceneName = "random-spheres"

// NewScene builds the named built-in scene
func NewScene(name string, seed int64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	entry, ok := builtInScenes[name]
	if !ok {
		return nil, xerrors.Errorf("unknown scene %q (available: %s)", name, strings.Join(sceneNames(), ", "))
	}
	return entry.build(seed, cameraOverrides...)
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range sceneNames() {
		info := builtInScenes[name].info
		info.ID = name
		info.DisplayName = titleCase(name)
		scenes = append(scenes, info)
	}
	return scenes
}

func sceneNames() []string {
	names := make([]string, 0, len(builtInScenes))
	for name := range builtInScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// titleCase converts a filename-style string to title case
// e.g., "random-spheres" -> "Random Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
