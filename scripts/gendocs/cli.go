package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/statusrules/internal/cli"
	"github.com/leapstack-labs/statusrules/internal/cli/commands"
	"github.com/leapstack-labs/statusrules/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes an index page and one page per command of the
// statusrules command tree.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	settings := settingsByKey()

	pages := map[string][]byte{"index.md": cliIndex(root, settings)}
	for _, cmd := range documented(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd, settings)
	}

	for name, data := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documented returns the subcommands that get a page.
func documented(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.IsAvailableCommand() {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func settingsByKey() map[string]config.Setting {
	m := make(map[string]config.Setting)
	for _, s := range config.Settings() {
		m[s.Key] = s
	}
	return m
}

func cliIndex(root *cobra.Command, settings map[string]config.Setting) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for "+root.Name())
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Short)
	w.CodeBlock("bash", root.Name()+" <command> [flags]")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Flags")
	flagsTable(w, root.PersistentFlags(), settings)

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s (searched upward from the working directory), then %s environment variables, then flags. Later sources win. Nested keys use a double underscore in the variable name.",
		InlineCode("statusrules.yaml"), InlineCode(config.EnvPrefix+"*")))
	rows = nil
	for _, s := range config.Settings() {
		rows = append(rows, []string{InlineCode(s.Key), InlineCode(config.EnvVar(s.Key)), defaultCell(s.Default), s.Description})
	}
	w.Table([]string{"Key", "Environment", "Default", "Description"}, rows)

	w.Header(2, "Exit Codes")
	rows = [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Any error; the message is printed to stderr"},
	}
	for _, cmd := range documented(root) {
		for _, ec := range commands.ExitCodes(cmd) {
			rows = append(rows, []string{InlineCode(ec[0]), InlineCode(cmd.Name()) + ": " + ec[1]})
		}
	}
	w.Table([]string{"Code", "Meaning"}, rows)

	return w.Bytes()
}

func commandPage(cmd *cobra.Command, settings map[string]config.Setting) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Flags")
		flagsTable(w, cmd.LocalFlags(), settings)
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Flags")
		flagsTable(w, cmd.InheritedFlags(), settings)
	}

	if codes := commands.ExitCodes(cmd); len(codes) > 0 {
		w.Header(2, "Exit Status")
		var items []string
		for _, ec := range codes {
			items = append(items, InlineCode(ec[0])+" when "+ec[1])
		}
		w.BulletList(items)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w.Bytes()
}

// flagsTable lists flags with the configuration key each one overrides.
func flagsTable(w *MarkdownWriter, flags *pflag.FlagSet, settings map[string]config.Setting) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		key := ""
		if s, ok := settings[config.FlagKey(f.Name)]; ok {
			key = InlineCode(s.Key)
		}
		def := f.DefValue
		if def != "" && f.Value.Type() == "string" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{name, def, key, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Config Key", "Description"}, rows)
}

func defaultCell(v interface{}) string {
	if s, ok := v.(string); ok {
		if s == "" {
			return ""
		}
		return InlineCode(s)
	}
	return InlineCode(fmt.Sprint(v))
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent, seen := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !seen || len(lead) < len(indent) {
			indent, seen = lead, true
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
