package fritz

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ArchiveConfig selects the optional SQLite archive: either one fixed DB
// file, or monthly rolling files <prefix>YYYYMM.db under Folder.
type ArchiveConfig struct {
	DB     string `yaml:"db"`
	Folder string `yaml:"folder"`
	Prefix string `yaml:"prefix"`
}

type FileConfig struct {
	// Router base URL, e.g. http://fritz.box.
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Messages matching any rule are dropped before persisting.
	Exclude []ExclusionRule `yaml:"exclude"`

	// CSV store path.
	LogPath string `yaml:"logpath"`

	Archive ArchiveConfig `yaml:"archive"`
	Debug   bool          `yaml:"debug"`
}

func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
