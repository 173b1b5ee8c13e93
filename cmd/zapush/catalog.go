package main

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/hostlib"
)

func newCatalogCmd() *cobra.Command {
	var members bool
	cmd := &cobra.Command{
		Use:   "catalog [pattern]",
		Short: "List the host types a script can use",
		Long: "List the host types a script can use\n" +
			"\n" +
			"The optional pattern is a glob over fully-qualified names, for example 'android.*'.",
		Args: cobra.MaximumNArgs(1),
		RunE: runFunc(func(cmd *cobra.Command, args []string) error {
			reg, _, err := hostlib.NewRegistry(io.Discard, io.Discard)
			if err != nil {
				return err
			}
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			if _, err := path.Match(pattern, ""); err != nil {
				return errors.Wrapf(err, "catalog: bad pattern %q", pattern)
			}
			printCatalog(cmd.OutOrStdout(), reg, pattern, members)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&members, "members", "m", false, "Also list constructors, methods and fields")
	return cmd
}

func printCatalog(w io.Writer, reg *host.Registry, pattern string, members bool) {
	for _, name := range reg.SortedNames() {
		if ok, _ := path.Match(pattern, name); !ok {
			continue
		}
		class, found := reg.Lookup(name)
		if !found || class.IsPrimitive() {
			continue
		}
		fmt.Fprintln(w, describeClass(class))
		if !members {
			continue
		}
		for _, ctor := range class.Constructors() {
			fmt.Fprintf(w, "  new(%s)\n", strings.Join(ctor.Params, ", "))
		}
		for _, f := range class.Fields() {
			fmt.Fprintf(w, "  %sfield %s %s\n", staticPrefix(f.Static), f.Type, f.Name)
		}
		for _, m := range class.Methods() {
			fmt.Fprintf(w, "  %s%s %s\n", staticPrefix(m.Static), m.Returns, m.Signature())
		}
	}
}

func describeClass(class *host.Class) string {
	kind := "class"
	if class.IsInterface() {
		kind = "interface"
	}
	line := kind + " " + class.Name()
	if super := class.Superclass(); super != nil && !class.IsInterface() && super.Name() != host.ObjectClass {
		line += " extends " + super.Name()
	}
	if ifaces := class.Interfaces(); len(ifaces) > 0 {
		names := make([]string, 0, len(ifaces))
		for _, iface := range ifaces {
			names = append(names, iface.Name())
		}
		verb := " implements "
		if class.IsInterface() {
			verb = " extends "
		}
		line += verb + strings.Join(names, ", ")
	}
	return line
}
