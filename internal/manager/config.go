package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigName = "nightsvg"
	EnvPrefix  = "NIGHTSVG"
)

// Config keys, also the yaml field names.
const (
	KeySrc       = "src"
	KeyDst       = "dst"
	KeyFill      = "fill"
	KeyStripAll  = "strip_all"
	KeyJobs      = "jobs"
	KeyKeepGoing = "keep_going"
	KeyCreateDst = "create_dst"
)

type ConfigManager struct {
	mu sync.Mutex
	v  *viper.Viper
}

var Config = NewConfig()

func NewConfig() *ConfigManager {
	v := viper.New()

	v.SetDefault(KeySrc, ".")
	v.SetDefault(KeyDst, "")
	v.SetDefault(KeyFill, recolor.DefaultFill)
	v.SetDefault(KeyStripAll, false)
	v.SetDefault(KeyJobs, 1)
	v.SetDefault(KeyKeepGoing, false)
	v.SetDefault(KeyCreateDst, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &ConfigManager{v: v}
}

// Load reads file, or when file is empty searches for nightsvg.yaml in the
// working directory and the user config dir. A missing searched file is fine.
func (c *ConfigManager) Load(file string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if file != "" {
		c.v.SetConfigFile(file)
	} else {
		c.v.SetConfigName(ConfigName)
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		if configDir, err := os.UserConfigDir(); err == nil {
			c.v.AddConfigPath(filepath.Join(configDir, ConfigName))
		}
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Used returns the config file that was read, if any.
func (c *ConfigManager) Used() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v.ConfigFileUsed()
}

// BindFlag lets an explicitly set flag override the config key.
func (c *ConfigManager) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v.BindPFlag(key, f)
}

// Set overrides key for the rest of the process (positional args).
func (c *ConfigManager) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Set(key, value)
}

func (c *ConfigManager) Recolor() recolor.Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	return recolor.Config{
		Src:       c.v.GetString(KeySrc),
		Dst:       c.v.GetString(KeyDst),
		Fill:      c.v.GetString(KeyFill),
		StripAll:  c.v.GetBool(KeyStripAll),
		Jobs:      c.v.GetInt(KeyJobs),
		KeepGoing: c.v.GetBool(KeyKeepGoing),
		CreateDst: c.v.GetBool(KeyCreateDst),
	}
}

// Watch re-reads the loaded config file whenever it is written or replaced
// and then calls onChange with the result of the reload. A failed reload
// keeps the previous values. The reload holds the same lock as Recolor, so
// readers never see a half-applied file. Watching stops when ctx is done.
func (c *ConfigManager) Watch(ctx context.Context, onChange func(error)) error {
	file := c.Used()
	if file == "" {
		return nil
	}
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	// the directory, not the file: editors replace files by rename
	if err := w.Add(filepath.Dir(file)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch config: %w", err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != file {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				onChange(c.reload())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				onChange(err)
			}
		}
	}()
	return nil
}

func (c *ConfigManager) reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return nil
}
