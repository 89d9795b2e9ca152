package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "otterclip",
	Short: "OtterClip clipboard history",
	Long:  `OtterClip - keeps a bounded, sanitized, persisted history of the system clipboard.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("OtterClip %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clipboard history engine",
	Long:  `Start watching the clipboard. Unless --no-console is given, an interactive console reads commands from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		noConsole, _ := cmd.Flags().GetBool("no-console")
		memClip, _ := cmd.Flags().GetBool("memory-clipboard")

		return run(cmd.Context(), runOptions{
			configPath:      path,
			console:         !noConsole,
			memoryClipboard: memClip,
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("no-console", false, "Run without the interactive console")
	runCmd.Flags().Bool("memory-clipboard", false, "Use an in-process clipboard instead of the system one")

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
