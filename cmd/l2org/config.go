// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/l2org/pkg/types"
)

// loadConversionConfig overlays the config file and L2ORG_ environment
// variables on the built-in defaults.
func loadConversionConfig(v *viper.Viper) (types.ConversionConfig, error) {
	cfg := types.DefaultConversionConfig()

	// Defaults make scalar keys visible to AutomaticEnv during Unmarshal.
	v.SetDefault("citation_line_limit", cfg.CitationLineLimit)
	v.SetDefault("section_line_limit", cfg.SectionLineLimit)
	v.SetDefault("header_line_limit", cfg.HeaderLineLimit)
	v.SetDefault("environment_line_limit", cfg.EnvironmentLineLimit)
	v.SetDefault("comment_block_lines", cfg.CommentBlockLines)
	v.SetDefault("comment_block_chars", cfg.CommentBlockChars)
	v.SetDefault("bibliography_extension", cfg.BibliographyExtension)
	v.SetDefault("preamble_suffix", cfg.PreambleSuffix)
	v.SetDefault("inline_preamble", cfg.InlinePreamble)
	v.SetDefault("single_note", string(cfg.SingleNote))
	v.SetDefault("index_dir", cfg.IndexDir)

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}
