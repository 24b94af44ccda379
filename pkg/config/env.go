package config

import (
	"strconv"
	"strings"

	"github.com/matzehuels/storyboard/pkg/errors"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// envVar binds one STORYBOARD_* variable to a config field.
type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(field func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolean(name string, field func(c *Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeConfig, "%s%s: invalid boolean %q", EnvPrefix, name, v)
		}
		*field(c) = b
		return nil
	}
}

var envVars = []envVar{
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.LogLevel })},
	{"CACHE", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"REDIS_ADDR", str(func(c *Config) *string { return &c.Cache.Redis.Addr })},
	{"REDIS_PASSWORD", str(func(c *Config) *string { return &c.Cache.Redis.Password })},
	{"REDIS_DB", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeConfig, "%sREDIS_DB: invalid number %q", EnvPrefix, v)
		}
		c.Cache.Redis.DB = n
		return nil
	}},
	{"STORE", str(func(c *Config) *string { return &c.Store.Backend })},
	{"STORE_DIR", str(func(c *Config) *string { return &c.Store.Dir })},
	{"MONGO_URI", str(func(c *Config) *string { return &c.Store.MongoURI })},
	{"UPLOAD_DIR", str(func(c *Config) *string { return &c.Uploads.Dir })},
	{"FONT_REGULAR", str(func(c *Config) *string { return &c.Fonts.Regular })},
	{"FONT_MEDIUM", str(func(c *Config) *string { return &c.Fonts.Medium })},
	{"FONT_BOLD", str(func(c *Config) *string { return &c.Fonts.Bold })},
	{"TEMPLATES", func(c *Config, v string) error {
		c.Templates.Files = splitList(v)
		return nil
	}},
	{"FALLBACK_TEMPLATE", str(func(c *Config) *string { return &c.Templates.Fallback })},
	{"PREVIEW", boolean("PREVIEW", func(c *Config) *bool { return &c.Templates.Preview })},
	{"ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"METRICS", boolean("METRICS", func(c *Config) *bool { return &c.Server.Metrics })},
}

// applyEnv overlays every STORYBOARD_* variable present in lookup.
func (c *Config) applyEnv(lookup lookupFunc) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.set(c, strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	return nil
}

// EnvNames lists the supported environment variables.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = EnvPrefix + ev.name
	}
	return names
}

// splitList splits a comma separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
