package main

import (
	"fmt"
)

// OutputFormat describes how trace results are printed.
type OutputFormat int

const (
	OutputFormatInvalid OutputFormat = iota

	// OutputFormatText prints a step by step path for every violation.
	OutputFormatText

	// OutputFormatDot prints pruned error graphs as Graphviz digraphs.
	OutputFormatDot
)

var outputFormatValueMap = map[OutputFormat]string{
	OutputFormatText: "text",
	OutputFormatDot:  "dot",
}

func (f OutputFormat) String() string {
	v, ok := outputFormatValueMap[f]
	if !ok {
		return fmt.Sprintf("invalid(%d)", f)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (f *OutputFormat) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range outputFormatValueMap {
		if v == text {
			*f = k
			return nil
		}
	}

	return fmt.Errorf("unknown output format %q", text)
}

// Set to use as a flag value.
func (f *OutputFormat) Set(text string) error {
	return f.UnmarshalText([]byte(text))
}

// Type to use as a flag value.
func (f *OutputFormat) Type() string {
	return "format"
}
