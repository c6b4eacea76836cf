package cli

import (
	"errors"
	"io/fs"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/seqtree/pkg/errors"
)

// defaultListen is the serve command's default address.
const defaultListen = "localhost:7420"

// Config is the user configuration file:
//
//	unit_height = 28
//	base_offset = 20
//	state_file  = ""        # default: <scene>.collapse.json
//	cache_dir   = ""        # default: $XDG_CACHE_HOME/seqtree
//	redis_addr  = ""        # shared artifact cache, e.g. "localhost:6379"
//	listen      = "localhost:7420"
type Config struct {
	UnitHeight float64  `toml:"unit_height"`
	BaseOffset *float64 `toml:"base_offset"`
	StateFile  string   `toml:"state_file"`
	CacheDir   string   `toml:"cache_dir"`
	RedisAddr  string   `toml:"redis_addr"`
	Listen     string   `toml:"listen"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{Listen: defaultListen}
}

// LoadConfig reads the TOML file at path on top of [DefaultConfig]. A
// missing file yields the defaults unless required is set. Unknown keys
// are rejected so typos do not go unnoticed.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !(cfg.UnitHeight >= 0) || math.IsInf(cfg.UnitHeight, 0) {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "config %s: unit_height must be positive and finite", path)
	}
	if cfg.BaseOffset != nil && (!(*cfg.BaseOffset >= 0) || math.IsInf(*cfg.BaseOffset, 0)) {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "config %s: base_offset must be finite and not negative", path)
	}
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	return cfg, nil
}
