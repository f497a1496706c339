package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/virtfit/virtfit/internal/dataset"
	"github.com/virtfit/virtfit/internal/generator"
	"github.com/virtfit/virtfit/internal/model"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic VM/PM instance file",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Int("vms", 25, "number of VMs to generate")
	f.Int("pms", 5, "number of PMs to generate")
	f.Bool("homogeneous", false, "generate identical hosts instead of a size mix")
	f.Float64("pm-cpu", 16, "CPU capacity per host (homogeneous only)")
	f.Float64("pm-memory", 32, "memory capacity per host (homogeneous only)")
	f.String("out", "instance.json", "output file path")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	numVMs, _ := cmd.Flags().GetInt("vms")
	numPMs, _ := cmd.Flags().GetInt("pms")
	outPath, _ := cmd.Flags().GetString("out")

	vms := generator.VMs(numVMs, rand.New(rand.NewSource(cfg.Experiment.Seed)))

	var pms []model.PM
	if homogeneous, _ := cmd.Flags().GetBool("homogeneous"); homogeneous {
		cpu, _ := cmd.Flags().GetFloat64("pm-cpu")
		mem, _ := cmd.Flags().GetFloat64("pm-memory")
		pms = generator.HomogeneousPMs(numPMs, cpu, mem)
	} else {
		pms = generator.PMs(numPMs, rand.New(rand.NewSource(cfg.Experiment.Seed)))
	}

	if err := dataset.Save(vms, pms, outPath); err != nil {
		return err
	}

	fmt.Printf("wrote %d VMs and %d PMs to %s\n", len(vms), len(pms), outPath)
	return nil
}
