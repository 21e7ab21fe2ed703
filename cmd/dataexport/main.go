// Command dataexport renders tabular data as csv, xls, html, xml or json.
package main

import (
	"github.com/spf13/cobra"

	"github.com/opdss/dataexporter/process"
)

var rootCmd = &cobra.Command{
	Use:   "dataexport",
	Short: "Export tabular data as csv, xls, html, xml or json",
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "$HOME/.dataexport", "配置目录,读取其中的 "+process.DefaultCfgFilename)
	process.LogFlags(rootCmd)
	rootCmd.AddCommand(renderCmd, sqlCmd, serveCmd)
}

func main() {
	process.Exec(rootCmd)
}
