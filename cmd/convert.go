package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meghashyamc/catalogsearch/model"
	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatXML  = "xml"
)

func newConvertCmd() *cobra.Command {
	var (
		from    string
		to      string
		lenient bool
	)

	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "Convert a search result between JSON and XML",
		Long:  "Reads a search result from FILE, or stdin when FILE is omitted, and writes it to stdout in the requested format.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := cmd.InOrStdin()
			if len(args) == 1 {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer file.Close()
				input = file
			}

			data, err := io.ReadAll(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			policy := model.EnumStrict
			if lenient {
				policy = model.EnumLenient
			}

			output, err := convert(data, from, to, policy)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", formatJSON, "Input format: json or xml")
	cmd.Flags().StringVar(&to, "to", formatXML, "Output format: json or xml")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Decode unknown query types as absent instead of failing")

	return cmd
}

func convert(data []byte, from string, to string, policy model.EnumPolicy) ([]byte, error) {
	var (
		result *model.SearchResult
		err    error
	)
	switch strings.ToLower(from) {
	case formatJSON:
		result, err = model.DecodeJSON(data, model.WithEnumPolicy(policy))
	case formatXML:
		result, err = model.DecodeXML(data, model.WithEnumPolicy(policy))
	default:
		return nil, fmt.Errorf("unknown input format %q", from)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", from, err)
	}

	var output []byte
	switch strings.ToLower(to) {
	case formatJSON:
		output, err = model.EncodeJSON(result)
	case formatXML:
		output, err = model.EncodeXML(result)
	default:
		return nil, fmt.Errorf("unknown output format %q", to)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", to, err)
	}

	return append(output, '\n'), nil
}
