package cmds

import (
	"fmt"
	"io"

	"github.com/findy-network/findy-common-go/dto"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func ValidateFormat(format string) error {
	switch format {
	case "", FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q", ErrInvalid, format)
}

// Print writes the value to w in the format. JSON is the default.
func Print(w io.Writer, format string, v any) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, dto.ToJSON(v))
	return err
}
