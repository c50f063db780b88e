package internal

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/hdkrs/hdkbuild/internal/builddir"
	"github.com/hdkrs/hdkbuild/internal/cargo"
	"github.com/hdkrs/hdkbuild/internal/houdini"
	"github.com/hdkrs/hdkbuild/internal/project"
	"github.com/hdkrs/hdkbuild/x/cmake"
	"github.com/hdkrs/hdkbuild/x/shellwords"
)

const about = `hdkbuild compiles C++ code defining an HDK interface for a Houdini plugin.
It runs 'cargo build' with the provided arguments, captures the OUT_DIR of
each tracked build script, and follows up with a CMake build of the HDK
plugin inside <crate>/<hdk-path>/build_<profile>.

Arguments for the cargo build step follow a '--' separator:

    hdkbuild -c '-G Ninja' -- --release --features foo`

var (
	hdkOnly      bool
	clean        bool
	cmakeArgs    string
	hdkPath      string
	outdirPrefix string
	deps         []string
	verbosity    int
)

var rootCmd = &cobra.Command{
	Use:           "hdkbuild [flags] [-- BUILD ARGS...]",
	Short:         "Build a Rust-backed Houdini HDK plugin",
	Long:          about,
	Args:          cobra.ArbitraryArgs,
	RunE:          runPipeline,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	// Everything after the first positional argument belongs to cargo.
	flags.SetInterspersed(false)

	flags.BoolVarP(&hdkOnly, "hdk-only", "k", false, "Skip the 'cargo build' step and build only the HDK plugin")
	flags.BoolVar(&clean, "clean", false, "Remove artifacts created by the build process including the HDK plugin")
	flags.StringVarP(&cmakeArgs, "cmake", "c", "", "Arguments for the CMake configuration step, e.g. -c '-G Ninja'")
	flags.StringVarP(&hdkPath, "hdk-path", "p", "./hdk", "Path to the HDK plugin relative to the crate root")
	flags.StringVar(&outdirPrefix, "outdir-prefix", "outdir_", "Filename prefix of the OUT_DIR marker files written to the build directory")
	flags.StringSliceVar(&deps, "dep", []string{"hdkrs"}, "Dependency names whose build-script OUT_DIRs are captured")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase logging verbosity (-v info, -vv debug)")
}

// Execute runs the root command. It is called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Danger.Println("error:", err)
		os.Exit(1)
	}
}

// logLevel maps the repeated -v flag onto qiniu/x log output levels.
func logLevel(verbosity int) int {
	switch {
	case verbosity <= 0:
		return log.Lwarn
	case verbosity == 1:
		return log.Linfo
	default:
		return log.Ldebug
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	log.SetOutputLevel(logLevel(verbosity))

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	log.Info("locating the crate root")
	root, err := project.Locate("cargo", cwd)
	if err != nil {
		return err
	}
	log.Debugf("crate root: %s", root.Dir)

	runner := &cargo.Runner{Deps: deps}
	buildArgs := cargo.StripSubcommand(args)

	var records []cargo.OutDir
	if !hdkOnly {
		if clean {
			log.Info("cleaning cargo build artifacts")
			if err := runner.Clean(buildArgs); err != nil {
				return err
			}
		} else {
			log.Info("building rust code using cargo")
			if records, err = runner.Build(root, buildArgs); err != nil {
				return err
			}
		}
	}

	profile := cargo.ResolveProfile(args)
	buildDir := builddir.Dir(root.Dir, hdkPath, profile)
	log.Debugf("build directory: %s", buildDir)

	if clean {
		return builddir.Clean(buildDir)
	}
	if err := builddir.Prepare(buildDir); err != nil {
		return err
	}
	if err := builddir.WriteOutDirs(buildDir, outdirPrefix, records); err != nil {
		return err
	}

	log.Info("looking for a Houdini installation")
	hfs, err := houdini.Resolve()
	if err != nil {
		return err
	}
	if err := houdini.Setup(hfs); err != nil {
		return fmt.Errorf("failed to export the Houdini environment: %w", err)
	}

	log.Info("configuring and building the HDK plugin")
	tokens := shellwords.Split(cmakeArgs)
	return cmake.New(buildDir).
		BuildType(profile.String()).
		ExtraArgs(tokens...).
		Run()
}
