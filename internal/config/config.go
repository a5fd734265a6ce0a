// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig   `yaml:"graphics"`
	Camera      CameraConfig     `yaml:"camera"`
	Terrain     TerrainConfig    `yaml:"terrain"`
	Skybox      SkyboxConfig     `yaml:"skybox"`
	Models      []ModelConfig    `yaml:"models"`
	Player      PlayerConfig     `yaml:"player"`
	Data        DataConfig       `yaml:"data"`
	Logging     LoggingConfig    `yaml:"logging"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"`
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Wireframe  bool       `yaml:"wireframe"`
	ShowBounds bool       `yaml:"show_bounds"`
	ClearColor [4]float32 `yaml:"clear_color"`
	LightDir   [3]float32 `yaml:"light_dir"`
	Ambient    float32    `yaml:"ambient"`
}

// CameraConfig holds the initial camera pose and speeds.
type CameraConfig struct {
	Mode        string     `yaml:"mode"`     // "fly" or "follow"
	Position    [3]float32 `yaml:"position"` // world units
	Rotation    [2]float32 `yaml:"rotation"` // pitch, yaw in radians
	MoveSpeed   float32    `yaml:"move_speed"`
	RotateSpeed float32    `yaml:"rotate_speed"`
}

// TerrainConfig describes the generated terrain.
type TerrainConfig struct {
	Size        float32 `yaml:"size"`
	Cells       int     `yaml:"cells"`
	Heightmap   string  `yaml:"heightmap"`
	Texture     string  `yaml:"texture"`
	HeightScale float32 `yaml:"height_scale"`
	Tiling      float32 `yaml:"tiling"`
}

// SkyboxConfig locates the skybox model and its textures.
type SkyboxConfig struct {
	Model      string `yaml:"model"`
	TextureDir string `yaml:"texture_dir"`
}

// ModelConfig places one model on the terrain.
type ModelConfig struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path"`
	Textures []string `yaml:"textures"` // assigned to meshes in order
	X        float32  `yaml:"x"`
	Z        float32  `yaml:"z"`
	YOffset  float32  `yaml:"y_offset"`
	Scale    float32  `yaml:"scale"`
}

// PlayerConfig selects the model moved with the arrow keys.
type PlayerConfig struct {
	Model         string  `yaml:"model"`
	Step          float32 `yaml:"step"`
	FollowTerrain bool    `yaml:"follow_terrain"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	Roots          []string `yaml:"roots"` // later roots take priority
	MaxTextureSize int      `yaml:"max_texture_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// Default returns a Config describing the stock scene: a cloud skybox,
// a 10000-unit terrain and two jeeps.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			Samples:    4,
			FOV:        45,
			Near:       0.5,
			Far:        20000,
			ClearColor: [4]float32{0, 0, 0, 1},
			LightDir:   [3]float32{-0.3, -1, -0.4},
			Ambient:    0.35,
		},
		Camera: CameraConfig{
			Mode:        "fly",
			Position:    [3]float32{0, 2000, 3000},
			Rotation:    [2]float32{0.5, 0},
			MoveSpeed:   120,
			RotateSpeed: 1.5,
		},
		Terrain: TerrainConfig{
			Size:        10000,
			Cells:       64,
			Heightmap:   "Heightmaps/curvy.bmp",
			Texture:     "Textures/grass.jpg",
			HeightScale: 2,
			Tiling:      10,
		},
		Skybox: SkyboxConfig{
			Model:      "Sky/Clouds/skybox.glb",
			TextureDir: "Sky/Clouds",
		},
		Models: []ModelConfig{
			{
				Name:     "jeep",
				Path:     "Models/Jeep/jeep.glb",
				Textures: []string{"Models/Jeep/jeep_army.jpg"},
				YOffset:  50,
				Scale:    1,
			},
			{
				Name:     "jeep2",
				Path:     "Models/Jeep/jeep.glb",
				Textures: []string{"Models/Jeep/jeep_rood.jpg"},
				X:        1000,
				Z:        1000,
				YOffset:  50,
				Scale:    1,
			},
		},
		Player: PlayerConfig{
			Model: "jeep",
			Step:  10,
		},
		Data: DataConfig{
			Roots: []string{"Data"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Screenshots: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "terrainview",
		},
	}
}

// Model returns the model entry with the given name.
func (c *Config) Model(name string) (ModelConfig, bool) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelConfig{}, false
}
