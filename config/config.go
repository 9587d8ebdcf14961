// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"errors"
	"fmt"

	"github.com/cbrackley/capC-MAP/internal/samfrag"
	"github.com/spf13/viper"
)

// DefaultExclusion is the exclusion zone radius around targets, in bp
const DefaultExclusion = 500

// ProcessConfig settings for the main capture analysis
type ProcessConfig struct {
	// path to the bed file of restriction fragments genome wide
	Fragments string `mapstructure:"fragments"`

	// path to the bed file of capture targets
	Targets string `mapstructure:"targets"`

	// path to the SAM file of aligned digested fragments, grouped by read name
	Alignments string `mapstructure:"sam"`

	// first part of every output file name
	Out string `mapstructure:"out"`

	// reporters within this many bp of a target are discarded
	Exclusion int `mapstructure:"exclusion"`

	// whether interchromosomal interactions are saved as well as counted
	SaveInter bool `mapstructure:"save-inter"`

	// seed for picking interchromosomal reporters, 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file, the environment and
// those available from the command line
type Config struct {
	// the token that ends the read set name in digested read names
	Marker string `mapstructure:"digest-marker"`

	// settings for the process command
	Process ProcessConfig `mapstructure:"process"`
}

// SetDefaults registers the default settings with v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("digest-marker", samfrag.DefaultMarker)
	v.SetDefault("process.exclusion", DefaultExclusion)
}

// New returns a Config populated from the global Viper settings
func New() (*Config, error) {
	return Load(viper.GetViper())
}

// Load decodes a Config from v
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %v", err)
	}

	if c.Process.Exclusion < 1 {
		return nil, fmt.Errorf("exclusion zone requires an integer > 0, got %d", c.Process.Exclusion)
	}

	return &c, nil
}

// Validate checks every path the process command needs was given
func (p ProcessConfig) Validate() error {
	var errs []error
	required := []struct{ flag, value string }{
		{"fragments", p.Fragments},
		{"targets", p.Targets},
		{"sam", p.Alignments},
		{"out", p.Out},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("required setting %q not set", r.flag))
		}
	}
	return errors.Join(errs...)
}
