package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new post",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		s, err := slug.Normalize(title)
		if err != nil || s == "" {
			return fmt.Errorf("cannot derive a slug from %q", title)
		}
		name := filepath.Join(rootDir, siteCfg.ContentDir, "posts", s+".md")
		if _, err := os.Stat(name); err == nil {
			return fmt.Errorf("%s already exists", name)
		}
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return err
		}
		stub := fmt.Sprintf(`---
title: %q
date: %s
lang: %s
draft: true
---

`, title, time.Now().Format("2006-01-02"), siteCfg.Lang)
		if err := os.WriteFile(name, []byte(stub), 0o644); err != nil {
			return err
		}
		logger.Info("post created", "file", name, "slug", s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
