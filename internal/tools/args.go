package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeArgs decodes a tool input object into out. Field names match the
// `json` tag; scalars are weakly typed so a model sending 42 for a string
// field still decodes.
func DecodeArgs(input json.RawMessage, out any) error {
	var m map[string]any
	if len(input) > 0 {
		if err := json.Unmarshal(input, &m); err != nil {
			return fmt.Errorf("%w: input must be a JSON object: %v", ErrInvalidArgument, err)
		}
	}
	if len(m) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
