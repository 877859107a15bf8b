package conf

import (
	"os"

	"SlottedDB/logger"
	slottedpage "SlottedDB/storage_engine/access/slotted_page"
	"SlottedDB/types"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

/*
Configuration is read from an ini file:

	[storage]
	page_size          = 4096
	data_dir           = data
	page_file          = pages.db
	cache_num_counters = 10000
	cache_max_cost     = 4194304

	[logs]
	log_level = info
	log_infos =
	log_error =

A missing file is not an error, the defaults are used.
*/
type Cfg struct {
	Raw *ini.File

	// storage
	PageSize         int
	DataDir          string
	PageFile         string
	CacheNumCounters int64
	CacheMaxCost     int64

	// logs
	LogLevel string
	LogInfos string
	LogError string
}

var ErrInvalidConfig = errors.New("invalid configuration")

func NewCfg() *Cfg {
	return &Cfg{
		Raw:              ini.Empty(),
		PageSize:         types.PageSize,
		DataDir:          "data",
		PageFile:         "pages.db",
		CacheNumCounters: 10000,
		CacheMaxCost:     4 << 20, // 4MB of page images
		LogLevel:         "info",
	}
}

// Load reads path over the defaults held by cfg.
func (cfg *Cfg) Load(path string) (*Cfg, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Debugf("config file %s not found, using defaults", path)
		} else {
			raw, err := ini.Load(path)
			if err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
			cfg.Raw = raw
		}
	}

	cfg.parseStorageCfg(cfg.Raw.Section("storage"))
	cfg.parseLogsCfg(cfg.Raw.Section("logs"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Cfg) parseStorageCfg(section *ini.Section) {
	cfg.PageSize = section.Key("page_size").MustInt(cfg.PageSize)
	cfg.DataDir = valueAsString(section, "data_dir", cfg.DataDir)
	cfg.PageFile = valueAsString(section, "page_file", cfg.PageFile)
	cfg.CacheNumCounters = section.Key("cache_num_counters").MustInt64(cfg.CacheNumCounters)
	cfg.CacheMaxCost = section.Key("cache_max_cost").MustInt64(cfg.CacheMaxCost)
}

func (cfg *Cfg) parseLogsCfg(section *ini.Section) {
	cfg.LogLevel = valueAsString(section, "log_level", cfg.LogLevel)
	cfg.LogInfos = section.Key("log_infos").MustString(cfg.LogInfos)
	cfg.LogError = section.Key("log_error").MustString(cfg.LogError)
}

func valueAsString(section *ini.Section, key string, defaultValue string) string {
	value := section.Key(key).MustString(defaultValue)
	if value == "" {
		return defaultValue
	}
	return value
}

// Validate rejects page sizes a slotted page cannot be laid over and cache
// settings ristretto would refuse.
func (cfg *Cfg) Validate() error {
	if cfg.PageSize < slottedpage.MinPageSize || cfg.PageSize > slottedpage.MaxPageSize {
		return errors.Wrapf(ErrInvalidConfig, "page_size %d outside [%d, %d]",
			cfg.PageSize, slottedpage.MinPageSize, slottedpage.MaxPageSize)
	}
	if cfg.PageFile == "" {
		return errors.Wrap(ErrInvalidConfig, "page_file must not be empty")
	}
	if cfg.CacheNumCounters <= 0 || cfg.CacheMaxCost <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "cache_num_counters=%d cache_max_cost=%d must be positive",
			cfg.CacheNumCounters, cfg.CacheMaxCost)
	}
	return nil
}

func (cfg *Cfg) LogConfig() logger.LogConfig {
	return logger.LogConfig{
		LogLevel:     cfg.LogLevel,
		InfoLogPath:  cfg.LogInfos,
		ErrorLogPath: cfg.LogError,
	}
}
