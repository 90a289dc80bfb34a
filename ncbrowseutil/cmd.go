/*
Copyright © 2026 the ncbrowse authors.
This file is part of ncbrowse.

ncbrowse is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncbrowse is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncbrowse.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package ncbrowseutil holds the configuration and command-line
// interface for the ncbrowse netCDF quick-viewer.
package ncbrowseutil

import (
	"fmt"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncbrowse"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})

	// Options are the configuration options available to ncbrowse.
	options = []struct {
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
			name: "loglevel",
			usage: `
              loglevel sets the logging verbosity (debug, info, warn, error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize specifies the number of realized slices to hold in the
              memory cache. Larger numbers make revisiting indices faster at
              the cost of memory use.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Defaults.CenterRoles",
			usage: `
              Defaults.CenterRoles lists the axis roles (T, Z) whose dimensions
              start at their center index rather than at zero when a variable
              is first selected.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "bookmarks",
			usage: `
              bookmarks specifies the location of a TOML file of saved views;
              see the bookmark flag of the plot and animate commands.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "bookmark",
			usage: `
              bookmark recalls the named saved view from the bookmarks file.
              Flags given explicitly override the bookmarked values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable is the name of the variable to plot. The default is the
              first plottable variable in the file.`,
			shorthand:  "v",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "xdim",
			usage: `
              xdim maps the named dimension to the plot x axis. If xdim is set
              but ydim is not, a one-dimensional line plot is drawn. The
              default is the variable's innermost dimension.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "ydim",
			usage: `
              ydim maps the named dimension to the plot y axis.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "at",
			usage: `
              at holds non-plotted dimensions at the given indices, as
              dim=index pairs (e.g. --at time=3 --at lev=0). Dimensions not
              listed are held at their default index.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path of the PNG image to write.`,
			shorthand:  "o",
			defaultVal: "plot.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "width",
			usage: `
              width is the output image width in inches.`,
			defaultVal: 6.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "height",
			usage: `
              height is the output image height in inches.`,
			defaultVal: 4.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), animateCmd.Flags()},
		},
		{
			name: "dim",
			usage: `
              dim is the dimension to animate. The default is the time-like
              dimension of the selected variable.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{animateCmd.Flags()},
		},
		{
			name: "frames",
			usage: `
              frames is the number of animation frames to write. The default
              of zero writes one full cycle of the animated dimension.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{animateCmd.Flags()},
		},
		{
			name: "backward",
			usage: `
              backward animates the dimension in reverse, wrapping from the
              first index to the last.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{animateCmd.Flags()},
		},
		{
			name: "outdir",
			usage: `
              outdir is the directory the animation frames are written to.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{animateCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("NCBROWSE")

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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
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
	Root.AddCommand(versionCmd)
	Root.AddCommand(varsCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(animateCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and applies the configured log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ncbrowse: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("ncbrowse: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ncbrowse",
	Short: "A quick-look viewer for netCDF datasets.",
	Long: `ncbrowse browses the variables of netCDF datasets, reducing them to
2-D slices along user-chosen dimensions and rendering the slices as images,
without ever loading a full variable into memory.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NCBROWSE_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ncbrowse.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ncbrowse v%s\n", ncbrowse.Version)
	},
	DisableAutoGenTag: true,
}

// varsCmd lists the variables of a dataset.
var varsCmd = &cobra.Command{
	Use:   "vars [file]",
	Short: "List the plottable variables of a netCDF file.",
	Long: `vars prints each plottable variable of the given netCDF file together
with its dimensions, shape, and descriptive attributes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Vars(args[0], cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// plotCmd renders one slice of a variable to a PNG image.
var plotCmd = &cobra.Command{
	Use:   "plot [file]",
	Short: "Render a 2-D slice of a variable as a PNG image.",
	Long: `plot selects a variable, reduces it to two dimensions by holding the
remaining dimensions at fixed indices, and renders the result as a heatmap
(or, for a single axis, a line plot).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := plotSpecFromConfig(args)
		if err != nil {
			return err
		}
		spec.Output = Cfg.GetString("output")
		return Plot(spec)
	},
	DisableAutoGenTag: true,
}

// animateCmd writes a frame sequence stepping one dimension.
var animateCmd = &cobra.Command{
	Use:   "animate [file]",
	Short: "Write an animation frame sequence along one dimension.",
	Long: `animate renders the selected slice repeatedly while stepping one
non-plotted dimension through its indices, writing one numbered PNG per
step. Frames wrap around at the ends of the dimension.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := plotSpecFromConfig(args)
		if err != nil {
			return err
		}
		n, err := Animate(AnimateSpec{
			PlotSpec: spec,
			Dim:      Cfg.GetString("dim"),
			Frames:   Cfg.GetInt("frames"),
			Backward: Cfg.GetBool("backward"),
			OutDir:   Cfg.GetString("outdir"),
		})
		if err != nil {
			return err
		}
		logger.Infof("ncbrowse: wrote %d frames", n)
		return nil
	},
	DisableAutoGenTag: true,
}
