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

package betrutil

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialmodel/betr"
)

// Version is the version of this program. It should be set by the
// linker during compilation.
var Version = "development"

var configFile string

// Root is the main command.
var Root = &cobra.Command{
	Use:   "betr",
	Short: "betr computes inter-compartment transfer coefficients for a multimedia fate model.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("betr v%s\n", Version)
	},
}

var processesCmd = &cobra.Command{
	Use:   "processes",
	Short: "List the implemented process names",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range betr.Processes() {
			fmt.Println(name)
		}
	},
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the coefficient graph for a model configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Compute(configFile)
	},
}

func init() {
	computeCmd.Flags().StringVarP(&configFile, "config", "c", "betr.toml",
		"path to the run configuration file")
	pflag.CommandLine.AddFlagSet(computeCmd.Flags())
	Root.AddCommand(versionCmd, processesCmd, computeCmd)
}

// Compute runs a full coefficient computation from the given
// configuration file and writes the resulting graph to the
// configured output file.
func Compute(configFile string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	chem, err := ReadChemFile(cfg.ChemFile)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"chemical":  chem.Name,
		"molarMass": chem.MolarMassUnit(),
	}).Info("computing transfer coefficients")

	m, err := BuildModel(cfg)
	if err != nil {
		return err
	}
	e, err := betr.NewEngine(m)
	if err != nil {
		return err
	}
	graph, err := e.ComputeAll()
	if err != nil {
		return err
	}
	log.WithField("edges", graph.Len()).Info("coefficient graph complete")

	w, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("betrutil: creating output file: %v", err)
	}
	defer w.Close()
	return betr.SaveGraph(w, graph)
}
