package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"zapush/interpreter-go/pkg/driver"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the sample Bla.java and a zapush.yml that runs it",
		Args:  cobra.MaximumNArgs(1),
		RunE: runFunc(func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrapf(err, "init: create %s", dir)
			}
			sourceFile := filepath.Join(dir, driver.SampleSourceFile)
			manifestFile := filepath.Join(dir, driver.ManifestFileName)
			if !force {
				for _, file := range []string{sourceFile, manifestFile} {
					if _, err := os.Stat(file); err == nil {
						return errors.Errorf("init: %s already exists (use --force to overwrite)", file)
					}
				}
			}
			if err := driver.WriteSample(sourceFile); err != nil {
				return err
			}
			if err := driver.WriteManifest(driver.SampleManifest(), manifestFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s\n", sourceFile, manifestFile)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}
