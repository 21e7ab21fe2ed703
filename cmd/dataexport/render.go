package main

import (
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/opdss/dataexporter/process"
)

var renderCmd = &cobra.Command{
	Use:   "render [rows.json]",
	Short: "render a json array of rows, read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  cmdRender,
}

func init() {
	exportFlags(renderCmd)
}

func cmdRender(cmd *cobra.Command, args []string) (err error) {
	vip, err := process.Viper(cmd)
	if err != nil {
		return err
	}
	log := zap.L().Named("render")

	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		var fp *os.File
		if fp, err = os.Open(args[0]); err != nil {
			return errs.Wrap(err)
		}
		defer func() { err = errs.Combine(err, fp.Close()) }()
		in = fp
	}

	var rows []any
	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err = dec.Decode(&rows); err != nil {
		return errs.New("decode rows: %v", err)
	}

	e, err := newExporter(vip, log)
	if err != nil {
		return err
	}
	if err = e.IngestRows(rows); err != nil {
		return err
	}
	return output(cmd.Context(), vip, e, cmd.OutOrStdout())
}
