package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"isobasis3d/internal/models"
	"isobasis3d/pkg/analysis"
	"isobasis3d/pkg/basis"
	"isobasis3d/pkg/config"
	"isobasis3d/pkg/visualization"
	"isobasis3d/pkg/volume"
)

var (
	configFile string
	gridSize   int
	bins       int
	workers    int

	inputFile     string
	phantom       string
	phantomRadius float64

	descriptorFile string
	outputVolume   string
	sliceDir       string
	plotProfile    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "isobasis3d",
		Short: "rotation-invariant radial descriptors of 3D volumes",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "compute the radial descriptor of a volume",
		RunE:  runDescribe,
	}
	describeCmd.Flags().IntVar(&gridSize, "size", 64, "volume side length N")
	describeCmd.Flags().IntVar(&bins, "bins", 0, "number of radial shells (0 = N/2+1)")
	describeCmd.Flags().IntVar(&workers, "workers", 1, "goroutines for the forward transform")
	describeCmd.Flags().StringVar(&inputFile, "input", "", "raw float32 volume file (N³ values)")
	describeCmd.Flags().StringVar(&phantom, "phantom", "gaussian", "synthetic input when no file given (ball|gaussian)")
	describeCmd.Flags().Float64Var(&phantomRadius, "radius", 8.0, "phantom radius or width in voxels")
	describeCmd.Flags().StringVar(&descriptorFile, "out", "descriptor.yaml", "descriptor output file")
	describeCmd.Flags().BoolVar(&plotProfile, "plot", true, "plot the radial profile")

	reconstructCmd := &cobra.Command{
		Use:   "reconstruct",
		Short: "reconstruct an isotropic volume from a descriptor",
		RunE:  runReconstruct,
	}
	reconstructCmd.Flags().StringVar(&descriptorFile, "descriptor", "descriptor.yaml", "descriptor input file")
	reconstructCmd.Flags().StringVar(&outputVolume, "out", "reconstruction.f32", "raw float32 volume output file")
	reconstructCmd.Flags().StringVar(&sliceDir, "slices", "", "directory for PNG slices of the reconstruction")

	roundtripCmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "forward and inverse transform with quality metrics",
		RunE:  runRoundtrip,
	}
	roundtripCmd.Flags().IntVar(&gridSize, "size", 64, "volume side length N")
	roundtripCmd.Flags().IntVar(&bins, "bins", 0, "number of radial shells (0 = N/2+1)")
	roundtripCmd.Flags().IntVar(&workers, "workers", 1, "goroutines for the forward transform")
	roundtripCmd.Flags().StringVar(&inputFile, "input", "", "raw float32 volume file (N³ values)")
	roundtripCmd.Flags().StringVar(&phantom, "phantom", "gaussian", "synthetic input when no file given (ball|gaussian)")
	roundtripCmd.Flags().Float64Var(&phantomRadius, "radius", 8.0, "phantom radius or width in voxels")
	roundtripCmd.Flags().BoolVar(&plotProfile, "plot", true, "plot the radial profile")

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfigFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("Wrote default configuration to %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(describeCmd, reconstructCmd, roundtripCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// settings merges the optional config file with command-line flags; a flag
// explicitly set on the command line wins over the file.
func settings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Grid.Size = gridSize
	}
	if flags.Changed("bins") {
		cfg.Grid.Bins = bins
	}
	if flags.Changed("workers") {
		cfg.Processing.NumWorkers = workers
	}
	if flags.Changed("input") {
		cfg.Input.VolumeFile = inputFile
	}
	if flags.Changed("phantom") {
		cfg.Input.Phantom = phantom
	}
	if flags.Changed("radius") {
		cfg.Input.PhantomRadius = phantomRadius
	}
	if flags.Changed("out") {
		cfg.Output.DescriptorFile = descriptorFile
	}
	if flags.Changed("plot") {
		cfg.Output.PlotProfile = plotProfile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newBasis builds the basis from grid settings, deriving the default shell
// count when bins is 0.
func newBasis(cfg *config.Config) (*basis.Basis, error) {
	if cfg.Grid.Bins > 0 {
		return basis.NewWithBins(cfg.Grid.Size, cfg.Grid.Bins)
	}
	return basis.New(cfg.Grid.Size)
}

// loadInput reads the configured volume file or synthesizes a phantom.
func loadInput(cfg *config.Config) (*volume.Volume, error) {
	if cfg.Input.VolumeFile != "" {
		fmt.Printf("Loading %d³ volume from %s...\n", cfg.Grid.Size, cfg.Input.VolumeFile)
		return volume.LoadRaw(cfg.Input.VolumeFile, cfg.Grid.Size)
	}

	fmt.Printf("Synthesizing %s phantom (%d³, radius %.1f)...\n",
		cfg.Input.Phantom, cfg.Grid.Size, cfg.Input.PhantomRadius)
	switch cfg.Input.Phantom {
	case "ball":
		return volume.SphericalPhantom(cfg.Grid.Size, cfg.Input.PhantomRadius, 1.0, 0.0)
	default:
		return volume.GaussianPhantom(cfg.Grid.Size, cfg.Input.PhantomRadius)
	}
}

// forward runs the forward transform with the configured worker count.
func forward(b *basis.Basis, vol *volume.Volume, numWorkers int) ([]float64, error) {
	if numWorkers > 1 {
		return b.ForwardParallel(vol.Data, numWorkers)
	}
	return b.Forward(vol.Data)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}

	b, err := newBasis(cfg)
	if err != nil {
		return err
	}

	vol, err := loadInput(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Computing radial descriptor (%d shells, %d workers)...\n",
		b.Bins(), cfg.Processing.NumWorkers)
	start := time.Now()
	coeffs, err := forward(b, vol, cfg.Processing.NumWorkers)
	if err != nil {
		return err
	}
	coeffs = b.KeepIsotropic(coeffs)
	fmt.Printf("Transform completed in %s\n", time.Since(start))

	d := &models.Descriptor{
		GridSize:     b.N(),
		Bins:         b.Bins(),
		Coefficients: coeffs,
	}
	if err := d.Save(cfg.Output.DescriptorFile); err != nil {
		return err
	}
	fmt.Printf("Descriptor saved to %s\n", cfg.Output.DescriptorFile)

	if cfg.Output.PlotProfile {
		fmt.Println()
		fmt.Println(visualization.ProfilePlot(coeffs))
	}
	return nil
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("descriptor") {
			descriptorFile = cfg.Output.DescriptorFile
		}
		if !cmd.Flags().Changed("out") {
			outputVolume = cfg.Output.VolumeFile
		}
		if !cmd.Flags().Changed("slices") {
			sliceDir = cfg.Output.SliceDir
		}
	}

	d, err := models.LoadDescriptor(descriptorFile)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded descriptor: %d³ grid, %d shells\n", d.GridSize, d.Bins)

	b, err := basis.NewWithBins(d.GridSize, d.Bins)
	if err != nil {
		return err
	}

	fmt.Println("Reconstructing isotropic volume...")
	data, err := b.Inverse(d.Coefficients)
	if err != nil {
		return err
	}
	vol, err := volume.FromData(data, d.GridSize)
	if err != nil {
		return err
	}

	if err := vol.SaveRaw(outputVolume); err != nil {
		return err
	}
	fmt.Printf("Volume saved to %s\n", outputVolume)

	if sliceDir != "" {
		fmt.Printf("Saving z-axis slices to %s...\n", sliceDir)
		if err := visualization.NewViewer(vol).SaveSliceSequence("z", sliceDir); err != nil {
			return err
		}
	}
	return nil
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}

	b, err := newBasis(cfg)
	if err != nil {
		return err
	}

	vol, err := loadInput(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Forward transform (%d shells, %d workers)...\n",
		b.Bins(), cfg.Processing.NumWorkers)
	start := time.Now()
	coeffs, err := forward(b, vol, cfg.Processing.NumWorkers)
	if err != nil {
		return err
	}

	fmt.Println("Inverse transform...")
	recon, err := b.Inverse(coeffs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	metrics, err := analysis.Compare(vol.Data, recon)
	if err != nil {
		return err
	}

	fmt.Printf("\nRound trip completed in %s\n\n", elapsed)
	fmt.Println("Isotropy metrics (original vs reconstruction):")
	fmt.Println("==============================================")
	fmt.Printf("Root Mean Square Error (RMSE): %.6f\n", metrics.RMSE)
	fmt.Printf("Pearson Correlation: %.4f\n", metrics.Correlation)
	fmt.Printf("Structural Similarity Index (SSIM): %.4f\n", metrics.SSIM)
	fmt.Printf("Entropy Difference: %.4f\n", metrics.EntropyDiff)
	fmt.Printf("Overall Accuracy: %.2f%%\n", metrics.Accuracy)

	if cfg.Output.PlotProfile {
		fmt.Println()
		fmt.Println(visualization.ProfilePlot(coeffs))
	}
	return nil
}
