// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/l2org/internal/index"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List citation keys recorded in the citation index",
	Long: `Keys lists the citation keys of every document converted with an index
directory, with the number of documents citing each key. Use --document to
list the keys of one document in the order it cites them.`,
	RunE: runKeys,
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg, err := loadConversionConfig(viper.GetViper())
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("index-dir")
	if dir == "" {
		dir = cfg.IndexDir
	}
	if dir == "" {
		return fmt.Errorf("no citation index: set --index-dir or index_dir")
	}

	document, _ := cmd.Flags().GetString("document")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	keys, err := store.Keys(cmd.Context(), index.KeyQuery{Document: document, Limit: limit})
	if err != nil {
		return err
	}
	return formatKeys(os.Stdout, keys, format)
}

func formatKeys(w io.Writer, keys []index.KeyCount, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	case "yaml":
		data, err := yaml.Marshal(keys)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
	}

	if len(keys) == 0 {
		fmt.Fprintln(w, "No keys found.")
		return nil
	}

	fmt.Fprintf(w, "%-40s  %s\n", "Key", "Documents")
	fmt.Fprintln(w, strings.Repeat("-", 51))
	for _, k := range keys {
		key := k.Key
		if len(key) > 40 {
			key = key[:37] + "..."
		}
		fmt.Fprintf(w, "%-40s  %d\n", key, k.Documents)
	}
	fmt.Fprintf(w, "\n%d keys\n", len(keys))
	return nil
}

func init() {
	keysCmd.Flags().String("index-dir", "", "citation index directory (default: index_dir from config)")
	keysCmd.Flags().String("document", "", "list keys of one LaTeX document")
	keysCmd.Flags().Int("limit", 0, "maximum keys to list (0 = all)")
	keysCmd.Flags().String("format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(keysCmd)
}
