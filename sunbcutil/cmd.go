/*
Copyright © 2023 the sunbc authors.
This file is part of sunbc.

sunbc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

sunbc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with sunbc.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package sunbcutil wires the sunbc boundary-condition tools into a
// command-line interface.
package sunbcutil

import (
	"fmt"
	"log"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

func init() {
	// Options are the configuration options available to sunbc.
	options := []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "field",
			usage: `
              field specifies the name of the integer shapefile attribute
              holding the new boundary marker values.`,
			defaultVal: "marker",
			flagsets:   []*pflag.FlagSet{modifybcCmd.Flags()},
		},
		{
			name: "start",
			usage: `
              start specifies the first instant of the boundary time axis
              in YYYYMMDD.HHMM form.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{genbcCmd.Flags()},
		},
		{
			name: "end",
			usage: `
              end specifies the end of the boundary time axis (exclusive)
              in YYYYMMDD.HHMM form.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{genbcCmd.Flags()},
		},
		{
			name: "dt",
			usage: `
              dt specifies the boundary time step in seconds.`,
			defaultVal: 3600.0,
			flagsets:   []*pflag.FlagSet{genbcCmd.Flags()},
		},
		{
			name: "out",
			usage: `
              out specifies the path of the boundary-condition netcdf
              file to create.`,
			shorthand:  "o",
			defaultVal: "boundary.nc",
			flagsets:   []*pflag.FlagSet{genbcCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SUNBC")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(modifybcCmd)
	Root.AddCommand(genbcCmd)
}

// outChan returns a channel printing to the log.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for msg := range outChan {
			log.Println(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("sunbc: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "sunbc",
	Short: "Boundary-condition preparation for the SUNTANS hydrodynamic model.",
	Long: `sunbc prepares open-boundary condition input for SUNTANS
unstructured-grid hydrodynamic simulations. Use the subcommands specified
below to reclassify grid boundary markers from a polygon shapefile or to
generate a boundary-condition dataset skeleton.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SUNBC_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setConfig()
	},
}

var modifybcCmd = &cobra.Command{
	Use:   "modifybc gridpath shapefile",
	Short: "Reclassify grid boundary markers from a polygon shapefile.",
	Long: `modifybc tests the midpoint of every currently marked boundary edge
of the grid in 'gridpath' against the polygons in 'shapefile' and overwrites
its marker with the value of the polygon attribute named by --field wherever
the midpoint falls inside a polygon. The updated markers are written back to
the grid's edges.dat, and a marker plot and QA shapefile are saved next to
it.`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ModifyBC(args[0], args[1], Cfg.GetString("field"), outChan())
	},
}

var genbcCmd = &cobra.Command{
	Use:   "genbc gridpath",
	Short: "Generate a boundary-condition dataset skeleton.",
	Long: `genbc extracts the type-2 (flux) and type-3 (elevation) open
boundaries of the grid in 'gridpath', builds a uniform time axis from
--start to --end at --dt second steps, and writes a boundary-condition
netcdf file with all physical fields zero-initialized, ready for a
data-assignment step to fill in.`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return GenBC(args[0],
			Cfg.GetString("start"), Cfg.GetString("end"),
			cast.ToFloat64(Cfg.Get("dt")),
			Cfg.GetString("out"), outChan())
	},
}
