package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
)

func mapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map one intake record read from --file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			pretty, _ := cmd.Flags().GetBool("pretty")

			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			out, err := datamapper.MapJSON(raw)
			if err != nil {
				return err
			}
			if pretty {
				var v interface{}
				if err := json.Unmarshal(out, &v); err != nil {
					return err
				}
				if out, err = json.MarshalIndent(v, "", "  "); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to the intake record JSON (default stdin)")
	cmd.Flags().Bool("pretty", false, "Indent the output")
	return cmd
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the declared input and output shapes",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			propsFile, _ := cmd.Flags().GetString("properties")

			props, err := datamapper.LoadProperties(propsFile)
			if err != nil {
				return err
			}
			descriptor := datamapper.DefaultDescriptor().WithProperties(props)

			var out []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				out, err = descriptor.YAML()
			case "json":
				out, err = json.MarshalIndent(descriptor, "", "  ")
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
			return nil
		},
	}
	cmd.Flags().String("format", "yaml", "Output format: yaml or json")
	cmd.Flags().String("properties", "", "YAML file of mapper properties to include")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return raw, nil
}
