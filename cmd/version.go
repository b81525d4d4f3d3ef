package cmd

import (
	"runtime"

	"github.com/huangsam/composeguard/schema"
	"github.com/spf13/cobra"
)

// reportSuffixes are the compiler outputs this build knows how to read.
var reportSuffixes = []string{
	schema.FunctionsSuffix,
	schema.TypesSuffix,
	schema.BriefStatsSuffix,
	schema.DetailedStatsSuffix,
}

// versionCmd prints build details and the report files this binary reads.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build details and supported report files",
	Long: `Print the composeguard build details along with the Compose compiler report
files it reads. Include this output when a report fails to parse after a Kotlin
or Compose compiler upgrade.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("composeguard %s (%s, built %s)\n", version, commit, date)
		cmd.Printf("  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  reports:\n")
		for _, suffix := range reportSuffixes {
			cmd.Printf("    <module>_<variant>%s\n", suffix)
		}
	},
}
