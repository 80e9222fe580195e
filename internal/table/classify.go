package table

import (
	"fmt"
	"strings"
)

// Classify inspects dynamically typed constructor arguments, such as
// decoded JSON, and picks exactly one Input variant. In priority order:
//
//  1. a map followed by more arguments: the map is configuration and the
//     remaining arguments are a single row (ConfigObject with Values);
//  2. two or more arguments without any map: a single row (ScalarList);
//  3. one string or number: delimited text (DelimitedText);
//  4. one slice: rows (RowArray);
//  5. one map: a configuration object (ConfigObject).
//
// No arguments classify as an empty ConfigObject.
func Classify(args ...any) (Input, error) {
	if len(args) == 0 {
		return ConfigObject{}, nil
	}

	if m, ok := args[0].(map[string]any); ok {
		cfg, in, err := configFromMap(m)
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return in, nil
		}
		if in.Rows != nil || in.Text != "" {
			return nil, fmt.Errorf("%w: config with rows cannot also take trailing values", ErrUnrecognizedInput)
		}

		values := args[1:]
		if len(values) == 1 {
			if elems, ok := anySlice(values[0]); ok {
				values = elems
			}
		}
		for i, v := range values {
			if !isScalar(v) {
				return nil, fmt.Errorf("%w: trailing value %d is %T, not a scalar", ErrUnrecognizedInput, i, v)
			}
		}
		return ConfigObject{Config: cfg, Values: values}, nil
	}

	for i, a := range args {
		if _, ok := a.(map[string]any); ok {
			return nil, fmt.Errorf("%w: configuration object at argument %d must come first", ErrUnrecognizedInput, i)
		}
	}

	if len(args) > 1 {
		for i, a := range args {
			if !isScalar(a) {
				return nil, fmt.Errorf("%w: argument %d is %T, not a scalar", ErrUnrecognizedInput, i, a)
			}
		}
		return ScalarList{Values: args}, nil
	}

	switch a := args[0].(type) {
	case string:
		return DelimitedText{Text: a}, nil
	case DelimitedText:
		return a, nil
	case RowArray:
		return a, nil
	case ScalarList:
		return a, nil
	case ConfigObject:
		return a, nil
	}

	if elems, ok := anySlice(args[0]); ok {
		return RowArray{Rows: elems}, nil
	}
	if v, err := ValueOf(args[0]); err == nil && v.IsNumber() {
		return NumberText(v.num), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnrecognizedInput, args[0])
}

// configFromMap reads the recognized keys of a configuration object:
// headers, hasHeaders, rows, rowKeyColumn, count and format. Unknown keys
// are ignored.
func configFromMap(m map[string]any) (Config, ConfigObject, error) {
	var cfg Config

	switch h := m["headers"].(type) {
	case nil:
	case map[string]any:
		cfg.HeaderMap = make(map[string]int, len(h))
		for name, x := range h {
			ref, ok := RefOf(x)
			if !ok || ref.IsName() {
				return cfg, ConfigObject{}, fmt.Errorf("%w: header %q maps to %v, not a position", ErrHeaderMismatch, name, x)
			}
			cfg.HeaderMap[name] = ref.Position()
		}
	case map[string]int:
		cfg.HeaderMap = h
	default:
		elems, ok := anySlice(h)
		if !ok {
			return cfg, ConfigObject{}, fmt.Errorf("%w: unrecognized header shape %T", ErrHeaderMismatch, h)
		}
		cfg.Headers = make([]string, len(elems))
		for i, x := range elems {
			v, err := ValueOf(x)
			if err != nil {
				return cfg, ConfigObject{}, fmt.Errorf("%w: header %d: %w", ErrHeaderMismatch, i, err)
			}
			cfg.Headers[i] = v.Text()
		}
	}

	switch h := m["hasHeaders"].(type) {
	case nil:
	case bool:
		cfg.HasHeaders = HeadersAbsent
		if h {
			cfg.HasHeaders = HeadersPresent
		}
	default:
		return cfg, ConfigObject{}, fmt.Errorf("%w: hasHeaders must be a boolean, got %T", ErrUnrecognizedInput, h)
	}

	if x, ok := m["rowKeyColumn"]; ok && x != nil {
		ref, ok := RefOf(x)
		if !ok {
			return cfg, ConfigObject{}, fmt.Errorf("%w: rowKeyColumn must be a position or a name, got %v", ErrRowKeyColumn, x)
		}
		cfg.RowKeyColumn = ref
	}

	switch c := m["count"].(type) {
	case nil:
	case bool:
		if c {
			cfg.Count = CountHorizontal
		}
	case string:
		switch strings.ToLower(c) {
		case "vertical":
			cfg.Count = CountVertical
		case "", "horizontal", "true":
			cfg.Count = CountHorizontal
		default:
			return cfg, ConfigObject{}, fmt.Errorf("%w: unknown count mode %q", ErrUnrecognizedInput, c)
		}
	default:
		return cfg, ConfigObject{}, fmt.Errorf("%w: count must be a boolean or \"vertical\", got %T", ErrUnrecognizedInput, c)
	}

	if f, ok := m["format"].(string); ok {
		format, err := ParseFormat(f)
		if err != nil {
			return cfg, ConfigObject{}, err
		}
		cfg.Format = format
	}

	in := ConfigObject{Config: cfg}
	switch rows := m["rows"].(type) {
	case nil:
	case string:
		in.Text = rows
	default:
		elems, ok := anySlice(rows)
		if !ok {
			return cfg, ConfigObject{}, fmt.Errorf("%w: rows must be text or a list, got %T", ErrUnrecognizedInput, rows)
		}
		in.Rows = elems
	}

	return cfg, in, nil
}
