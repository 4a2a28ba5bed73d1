package config

import (
	"fmt"
	"strings"

	"voice-webhooks/internal/links"

	"github.com/spf13/viper"
)

// LinkDirectory builds the link table: the built-in table, or the one in
// LINKS_FILE when set. The file looks like
//
//	default: website
//	links:
//	  contract: https://example.com/contract
//	  website: https://example.com
func (c Config) LinkDirectory() (*links.Directory, error) {
	if strings.TrimSpace(c.Links.File) == "" {
		return links.New(links.BuiltinEntries(), c.Links.DefaultType)
	}

	v := viper.New()
	v.SetConfigFile(c.Links.File)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read links file: %w", err)
	}

	entries := v.GetStringMapString("links")
	if len(entries) == 0 {
		return nil, fmt.Errorf("links file %s has no links", c.Links.File)
	}
	defaultType := v.GetString("default")
	if defaultType == "" {
		defaultType = c.Links.DefaultType
	}
	return links.New(entries, defaultType)
}
