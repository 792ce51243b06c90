// Package layoutfilter provides a public Go API for reducing UI layout dumps
// to a whitelisted set of keys.
//
// This package exposes the layoutfilter pipeline as a library, allowing
// programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := layoutfilter.FilterFile("layout.json", "layoutFiltered.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.NodesOut)
//
// With options:
//
//	result, err := layoutfilter.Filter(data,
//	    layoutfilter.WithKeys("children", "id", "bounds"),
//	    layoutfilter.WithIndent(2),
//	)
package layoutfilter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/layoutfilter/internal/document"
	"github.com/hupe1980/layoutfilter/internal/filter"
	"github.com/hupe1980/layoutfilter/internal/tree"
)

// Default file names used by FilterDefault.
const (
	DefaultInput  = "layout.json"
	DefaultOutput = "layoutFiltered.json"
)

// Format names a document format.
type Format = document.Format

// Supported formats.
const (
	JSON Format = document.FormatJSON
	YAML Format = document.FormatYAML
)

// Errors returned for unreadable input and malformed content. Use
// errors.As to inspect them.
type (
	IOError    = document.IOError
	ParseError = document.ParseError
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Option configures a filter run.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	keys         []string
	profile      string
	inputFormat  Format
	outputFormat Format
	indent       int
	logger       *slog.Logger
}

// WithKeys sets the whitelisted keys, overriding any profile.
func WithKeys(keys ...string) Option { return func(o *options) { o.keys = keys } }

// WithProfile selects a built-in key profile (default: "layout").
func WithProfile(name string) Option { return func(o *options) { o.profile = name } }

// WithInputFormat sets the input format instead of deriving it from the
// file extension. Filter defaults to JSON.
func WithInputFormat(f Format) Option { return func(o *options) { o.inputFormat = f } }

// WithOutputFormat sets the output format instead of deriving it from the
// file extension. Filter defaults to JSON.
func WithOutputFormat(f Format) Option { return func(o *options) { o.outputFormat = f } }

// WithIndent sets the spaces per nesting level (default: 4). Zero writes
// compact JSON.
func WithIndent(n int) Option { return func(o *options) { o.indent = n } }

// WithLogger sets a logger for diagnostic output. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Result holds the output of a successful filter run.
type Result struct {
	// Data is the encoded filtered document.
	Data []byte

	// NodesIn is the number of mappings in the input.
	NodesIn int

	// NodesOut is the number of mappings in the output.
	NodesOut int

	// Keys lists the whitelist that was applied, sorted.
	Keys []string
}

func buildOptions(opts []Option) *options {
	o := &options{
		profile: filter.DefaultProfile,
		indent:  document.DefaultIndent,
		logger:  discardLogger(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *options) whitelist() (filter.Whitelist, error) {
	if len(o.keys) > 0 {
		return filter.NewWhitelist(o.keys...), nil
	}

	p, err := filter.ResolveProfile(o.profile, nil)
	if err != nil {
		return filter.Whitelist{}, err
	}

	return p.Whitelist(), nil
}

// Filter decodes data, filters it, and returns the encoded result.
func Filter(data []byte, opts ...Option) (*Result, error) {
	return FilterReader(bytes.NewReader(data), opts...)
}

// FilterReader is like Filter but reads the document from r.
func FilterReader(r io.Reader, opts ...Option) (*Result, error) {
	o := buildOptions(opts)

	if o.inputFormat == "" {
		o.inputFormat = JSON
	}

	if o.outputFormat == "" {
		o.outputFormat = JSON
	}

	root, err := document.Decode(r, o.inputFormat)
	if err != nil {
		return nil, err
	}

	return run(root, o)
}

// FilterFile reads input, filters it, and writes the result to output,
// creating parent directories as needed. Formats follow the file
// extensions unless set explicitly.
func FilterFile(input, output string, opts ...Option) (*Result, error) {
	if input == "" || output == "" {
		return nil, errors.New("input and output paths must not be empty")
	}

	o := buildOptions(opts)

	if o.inputFormat == "" {
		o.inputFormat = document.FormatFromPath(input)
	}

	if o.outputFormat == "" {
		o.outputFormat = document.FormatFromPath(output)
	}

	root, err := document.LoadFormat(input, o.inputFormat)
	if err != nil {
		return nil, err
	}

	result, err := run(root, o)
	if err != nil {
		return nil, err
	}

	if err := document.NewFileWriter(output, document.WithLogger(o.logger)).Write(result.Data); err != nil {
		return nil, err
	}

	o.logger.Info("filtered layout written", slog.String("path", output))

	return result, nil
}

// FilterDefault filters layout.json into layoutFiltered.json in the
// working directory.
func FilterDefault(opts ...Option) (*Result, error) {
	return FilterFile(DefaultInput, DefaultOutput, opts...)
}

func run(root tree.Node, o *options) (*Result, error) {
	w, err := o.whitelist()
	if err != nil {
		return nil, err
	}

	out, stats := filter.Run(root, w)

	data, err := document.Encode(out, document.EncodeOptions{Format: o.outputFormat, Indent: o.indent})
	if err != nil {
		return nil, fmt.Errorf("encoding filtered layout: %w", err)
	}

	o.logger.Debug("layout filtered",
		slog.Int("nodesIn", stats.NodesIn),
		slog.Int("nodesOut", stats.NodesOut),
	)

	return &Result{
		Data:     data,
		NodesIn:  stats.NodesIn,
		NodesOut: stats.NodesOut,
		Keys:     w.Keys(),
	}, nil
}
