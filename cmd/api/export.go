package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvc-is/portal/internal/export"
	"github.com/mvc-is/portal/internal/inventory"
)

var (
	exportCategory string
	exportOwner    string
	exportFormat   string
	exportOut      string
	exportQuery    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one user's inventory category",
	Long: `Export the records a user owns in one inventory category, either as a
terminal table or as the same PDF the dashboard downloads.

Examples:
  # Print the computer parts of a user
  mvc-portal export --category computer-parts --owner 3f1c...

  # Write a filtered PDF
  mvc-portal export --category "Wires & Cables" --owner 3f1c... --format pdf --out cables.pdf --query hdmi`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "Category name or slug")
	exportCmd.Flags().StringVar(&exportOwner, "owner", "", "Owner user id")
	exportCmd.Flags().StringVar(&exportFormat, "format", "table", "Output format: table or pdf")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: stdout, or <slug>-inventory.pdf for pdf)")
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "Only records whose display name contains this text")
	_ = exportCmd.MarkFlagRequired("category")
	_ = exportCmd.MarkFlagRequired("owner")
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportFormat != "table" && exportFormat != "pdf" {
		return fmt.Errorf("unknown format %q (want table or pdf)", exportFormat)
	}
	cat, err := inventory.ParseCategory(exportCategory)
	if err != nil {
		return err
	}
	k, err := inventory.Lookup(cat)
	if err != nil {
		return err
	}

	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db)

	store := inventory.NewStore(db, log, nil)
	items, err := store.List(cmd.Context(), cat, exportOwner)
	if err != nil {
		return err
	}
	items = inventory.Filter(k, items, exportQuery)

	var w io.Writer = cmd.OutOrStdout()
	out := exportOut
	if out == "" && exportFormat == "pdf" {
		out = export.FileName(k)
	}
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if exportFormat == "pdf" {
		if err := export.PDF(w, export.Document{Kind: k, Records: items, GeneratedAt: time.Now(), Filter: exportQuery}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d record(s) to %s\n", len(items), out)
		return nil
	}
	return export.Table(w, k, items)
}
