/*
Copyright © 2018 the BETR-Go authors.
This file is part of BETR-Go.

BETR-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BETR-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BETR-Go.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package betrutil handles configuration and file input for the
// betr coefficient engine: run configurations, gridded environmental
// parameters in NetCDF format, and chemical property tables in TOML
// format.
package betrutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// Config holds the run configuration for a coefficient computation.
// The control flags are kept in their legacy string-token form here
// ('1', 'True', 'yes', ...) and converted to booleans by Flags; the
// core model only ever sees booleans.
type Config struct {
	// Processes is the ordered list of process names to evaluate.
	Processes []string

	// ParamFile is the path of the NetCDF file holding the gridded
	// environmental parameters, fugacity capacities, volumes and
	// flow tables.
	ParamFile string

	// ChemFile is the path of the TOML chemical property table.
	ChemFile string

	// OutputFile is the path the computed coefficient graph is
	// written to.
	OutputFile string

	// Control flag tokens.
	AerosolDeg     string
	SecondarySupr  string
	PlowingEnhance string
}

// LoadConfig reads a run configuration file. The format is anything
// viper understands (TOML, YAML, JSON), chosen by file extension.
func LoadConfig(file string) (*Config, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("betrutil: configuration file %s does not exist", file)
	}
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("betrutil: reading configuration %s: %v", file, err)
	}
	cfg := &Config{
		Processes:      cast.ToStringSlice(v.Get("processes")),
		ParamFile:      os.ExpandEnv(cast.ToString(v.Get("paramfile"))),
		ChemFile:       os.ExpandEnv(cast.ToString(v.Get("chemfile"))),
		OutputFile:     os.ExpandEnv(cast.ToString(v.Get("outputfile"))),
		AerosolDeg:     cast.ToString(v.Get("aerosoldeg")),
		SecondarySupr:  cast.ToString(v.Get("secondarysupr")),
		PlowingEnhance: cast.ToString(v.Get("plowingenhance")),
	}
	if len(cfg.Processes) == 0 {
		return nil, fmt.Errorf("betrutil: configuration %s names no processes", file)
	}
	return cfg, nil
}

// The flag tokens accepted by the legacy parameterization files.
var (
	trueTokens = map[string]bool{
		"1": true, "True": true, "true": true, "t": true,
		"TRUE": true, "T": true, "Yes": true, "yes": true,
		"y": true, "YES": true,
	}
	falseTokens = map[string]bool{
		"0": true, "False": true, "false": true, "f": true,
		"FALSE": true, "F": true, "No": true, "no": true,
		"n": true, "NO": true,
	}
)

// ParseFlag converts a legacy string control-flag token into a
// boolean. An empty token means the flag was not set and defaults to
// false; anything outside the two legacy token sets is an error
// rather than silently defaulting.
func ParseFlag(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	if trueTokens[token] {
		return true, nil
	}
	if falseTokens[token] {
		return false, nil
	}
	return false, fmt.Errorf("betrutil: unrecognized control flag value %q", token)
}

// Flags converts the configuration's legacy flag tokens to the
// booleans used by the core model.
func (c *Config) Flags() (aerosolDeg, secondarySupr, plowingEnhance bool, err error) {
	if aerosolDeg, err = ParseFlag(c.AerosolDeg); err != nil {
		return false, false, false, fmt.Errorf("aerosoldeg: %v", err)
	}
	if secondarySupr, err = ParseFlag(c.SecondarySupr); err != nil {
		return false, false, false, fmt.Errorf("secondarysupr: %v", err)
	}
	if plowingEnhance, err = ParseFlag(c.PlowingEnhance); err != nil {
		return false, false, false, fmt.Errorf("plowingenhance: %v", err)
	}
	return aerosolDeg, secondarySupr, plowingEnhance, nil
}
