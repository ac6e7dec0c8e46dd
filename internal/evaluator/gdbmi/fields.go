package gdbmi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tvmtools/tvmdbg/internal/evaluator"
)

// fieldsScript prints the declared field names of one type as a JSON array.
// Anonymous members come back as null and are skipped.
const fieldsScript = `python import json; print(json.dumps([f.name for f in gdb.lookup_type(%s).strip_typedefs().fields()]))`

// LookupFields lists the fields of typeName through gdb's Python API.
func (s *Session) LookupFields(ctx context.Context, typeName string) ([]string, error) {
	out, err := s.Run(ctx, fmt.Sprintf(fieldsScript, strconv.Quote(typeName)))
	if err != nil {
		return nil, evaluator.TypeLookupError(typeName, err)
	}
	return parseFieldList(typeName, out)
}

// parseFieldList decodes the JSON array printed by fieldsScript.
func parseFieldList(typeName, out string) ([]string, error) {
	out = strings.TrimSpace(out)
	if !gjson.Valid(out) {
		return nil, evaluator.TypeLookupError(typeName, fmt.Errorf("unexpected output %q", out))
	}
	parsed := gjson.Parse(out)
	if !parsed.IsArray() {
		return nil, evaluator.TypeLookupError(typeName, fmt.Errorf("expected a list, got %q", out))
	}

	fields := make([]string, 0, len(parsed.Array()))
	for _, item := range parsed.Array() {
		if item.Type != gjson.String || item.Str == "" {
			continue
		}
		fields = append(fields, item.Str)
	}
	return fields, nil
}
