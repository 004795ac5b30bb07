package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/entitymeta"
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/processor"
	"github.com/suparena/entitymeta/sequence"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
)

// buildFile loads path with only the built-in types available. Classes are
// not bound to Go types, so property names are not checked against fields.
func (c *cli) buildFile(path string) ([]*metadata.Entry, error) {
	// sequence generators resolve against a throwaway store
	m, err := entitymeta.NewManager(
		entitymeta.WithSequenceStore(generator.NewMemoryStore()),
		entitymeta.WithLogger(c.logger),
	)
	if err != nil {
		return nil, err
	}
	s, err := processor.NewLoader(m.Parser, nil).LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Build()
}

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check declaration files for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				entries, err := c.buildFile(path)
				if err != nil {
					failed++
					failColor.Fprint(out, "✗ ")
					fmt.Fprintf(out, "%s\n    %v\n", path, err)
					continue
				}
				okColor.Fprint(out, "✓ ")
				fmt.Fprintf(out, "%s (%d classes)\n", path, len(entries))
				c.logger.Debug("declaration file valid", zap.String("file", path), zap.Int("classes", len(entries)))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file> [class]",
		Short: "Show the metadata built from a declaration file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.buildFile(args[0])
			if err != nil {
				return err
			}
			shown := 0
			for _, e := range entries {
				if len(args) == 2 && e.Class() != args[1] {
					continue
				}
				printEntry(cmd, e)
				shown++
			}
			if shown == 0 && len(args) == 2 {
				return fmt.Errorf("class %s not declared in %s", args[1], args[0])
			}
			return nil
		},
	}
}

func printEntry(cmd *cobra.Command, e *metadata.Entry) {
	out := cmd.OutOrStdout()
	headerColor.Fprintln(out, e.Class())
	if e.Persistable() {
		fmt.Fprintf(out, "  table:     %s\n", e.Table())
	} else {
		dimColor.Fprintln(out, "  not persistable")
	}
	if g := e.GeneratorName(); g != "" {
		fmt.Fprintf(out, "  generator: %s\n", g)
	}
	for _, col := range e.Columns() {
		fmt.Fprintf(out, "  %-20s %-20s %s\n", col.Property, col.Column, strings.Join(columnFlags(e, col), " "))
	}
}

func columnFlags(e *metadata.Entry, col metadata.ColumnMapping) []string {
	var flags []string
	if col.Identifier {
		flags = append(flags, "id")
	}
	if col.AutoIncrement {
		flags = append(flags, "autoIncrement")
	}
	if col.NotNull {
		flags = append(flags, "notNull")
	}
	if col.Unique {
		flags = append(flags, "unique")
	}
	if col.Type != "" {
		flags = append(flags, "type="+col.Type)
	}
	if col.MinSize > 0 || col.MaxSize > 0 {
		flags = append(flags, fmt.Sprintf("size=%d..%d", col.MinSize, col.MaxSize))
	}
	if col.HasDefault {
		flags = append(flags, fmt.Sprintf("default=%v", col.Default))
	}
	if names := e.TransformerNames(col.Property); len(names) > 0 {
		flags = append(flags, "transform="+strings.Join(names, ","))
	}
	sort.Strings(flags)
	return flags
}

func newNextIDCmd(c *cli) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "next-id <sequence>",
		Short: "Draw identifiers from the configured sequence backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			store, err := sequence.Open(cmd.Context(), c.cfg.Sequence, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			for i := 0; i < count; i++ {
				n, err := store.Next(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of identifiers to draw")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			info := entitymeta.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entitymeta version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}
