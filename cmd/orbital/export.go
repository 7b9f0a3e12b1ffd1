package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/orbital-cli/internal/export"
)

var (
	exportOut  string
	exportHost string
)

var exportCmd = &cobra.Command{
	Use:   "export <country>",
	Short: "Write one country's panel into an HTML page",
	Long: `Looks the country up, joins it with the catalog and fills the panel
regions of an HTML host page. Without --host the built-in page is used.

Example:
  orbital export Australia --out australia.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		doc, err := loadHost(exportHost)
		if err != nil {
			return err
		}

		repo, err := openRepository()
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sel, err := newService(repo).Select(ctx, name)
		if err != nil {
			logger.Warn("export lookup failed", zap.String("country", name), zap.Error(err))
			return fmt.Errorf("could not load details for %s: %w", name, err)
		}
		doc.SetStatus("Showing " + sel.Panel.Name)
		doc.Apply(sel.Panel)

		return writeDocument(doc, exportOut, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportHost, "host", "", "HTML host page with the panel element ids")
}

func loadHost(path string) (*export.Document, error) {
	if path == "" {
		return export.DefaultHost()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open host page: %w", err)
	}
	defer f.Close()
	return export.ParseHost(f)
}

func writeDocument(doc *export.Document, path string, stdout io.Writer) error {
	if path == "" {
		return doc.Render(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := doc.Render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
