package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/driver"
	"zapush/interpreter-go/pkg/parser"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [zapush.yml | File.java]",
		Short: "Parse a Java source file and list its types and methods",
		Args:  cobra.MaximumNArgs(1),
		RunE: runFunc(func(cmd *cobra.Command, args []string) error {
			src, err := sourceForCheck(cmd, args)
			if err != nil {
				return err
			}
			unit, err := parser.ParseSource(src.Data)
			if err != nil {
				return diagnosticError(err, src.Display, src.Data)
			}
			describeUnit(cmd.OutOrStdout(), src.Display, unit)
			return nil
		}),
	}
}

func sourceForCheck(cmd *cobra.Command, args []string) (*driver.Source, error) {
	target := driver.ManifestFileName
	if len(args) == 1 {
		target = args[0]
	}
	if strings.EqualFold(filepath.Ext(target), ".java") {
		return driver.LoadFile(target)
	}
	m, err := driver.LoadManifest(target)
	if err != nil {
		return nil, err
	}
	return driver.LoadSource(cmd.Context(), m.Source, filepath.Dir(m.Path))
}

func describeUnit(w io.Writer, display string, unit *ast.CompilationUnit) {
	fmt.Fprintf(w, "%s: ok\n", display)
	if unit.Package != "" {
		fmt.Fprintf(w, "package %s\n", unit.Package)
	}
	for _, imp := range unit.Imports {
		name := imp.Path
		if imp.Wildcard {
			name += ".*"
		}
		if imp.Static {
			name = "static " + name
		}
		fmt.Fprintf(w, "import %s\n", name)
	}
	for _, decl := range unit.Types {
		fmt.Fprintf(w, "%s %s\n", decl.Kind, decl.Name)
		for _, field := range decl.Fields {
			for _, declarator := range field.Declarators {
				fmt.Fprintf(w, "  field %s%s %s\n", staticPrefix(field.Static), typeRefName(field.Type), declarator.Name)
			}
		}
		for _, method := range decl.Methods {
			params := make([]string, 0, len(method.Params))
			for _, p := range method.Params {
				params = append(params, typeRefName(p.Type)+" "+p.Name)
			}
			body := ""
			if method.Body == nil {
				body = " (no body)"
			}
			fmt.Fprintf(w, "  method %s%s %s(%s)%s\n", staticPrefix(method.Static), typeRefName(method.ReturnType), method.Name, strings.Join(params, ", "), body)
		}
	}
}

func staticPrefix(static bool) string {
	if static {
		return "static "
	}
	return ""
}

func typeRefName(ref *ast.TypeReference) string {
	if ref == nil {
		return "void"
	}
	return ref.Name
}
