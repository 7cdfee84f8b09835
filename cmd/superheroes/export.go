package main

import (
	"io"
	"os"

	"superheroes/internal/codec"
	"superheroes/internal/service"

	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the store contents as a roster document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if format == "" && out != "" {
				format = formatFor(out, "")
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			repo, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := service.NewRosterService(repo, nil, a.logger)
			export := func(w io.Writer) error {
				return svc.Export(ctx, c, w)
			}
			if out == "" {
				return export(cmd.OutOrStdout())
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			return writeAndClose(f, export)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "document format: json or yaml (default: from --out extension, else json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// writeAndClose runs write against wc and closes it. A close failure is
// returned when write itself succeeded.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
