// Package profile loads kses policies from YAML or JSON files and keeps them
// up to date when the files change.
//
// A profile file looks like this:
//
//	extends: basic
//	protocols: [http, https, mailto]
//	tags:
//	  a:
//	    href: true
//	    title: {maxlen: 120}
//	    download: {valueless: y}
//	  br: {}
//	  "!--": {}
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	json "github.com/goccy/go-json"
	goerrors "github.com/goliatone/go-errors"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/kses"
)

const invalidProfileCode = "KSES_INVALID_PROFILE"

// Built-in profile names.
const (
	Basic = "basic"
	Admin = "admin"
)

// Format is the encoding of a profile file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFromPath picks the format from the file extension. Anything that is
// not ".json" is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

var protocolPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)

type document struct {
	Extends   string                    `yaml:"extends" json:"extends"`
	Protocols []string                  `yaml:"protocols" json:"protocols"`
	Tags      map[string]map[string]any `yaml:"tags" json:"tags"`
}

func (d document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Extends, validation.In(Basic, Admin)),
		validation.Field(&d.Protocols, validation.Each(validation.Required, validation.Match(protocolPattern))),
	)
}

type options struct {
	log zerolog.Logger
}

// Option configures loading.
type Option func(*options)

// WithLogger sets the logger used for warnings and reload messages.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func newOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Names lists the built-in profiles.
func Names() []string {
	return []string{Admin, Basic}
}

// Builtin returns a fresh copy of a built-in profile.
func Builtin(name string) (*kses.Policy, bool) {
	switch strings.ToLower(name) {
	case Basic:
		return kses.BasicPolicy(), true
	case Admin:
		return kses.AdminPolicy(), true
	}
	return nil, false
}

// Resolve returns the built-in profile called nameOrPath, or loads it from
// disk.
func Resolve(nameOrPath string, opts ...Option) (*kses.Policy, error) {
	if p, ok := Builtin(nameOrPath); ok {
		return p, nil
	}
	return Load(nameOrPath, opts...)
}

// Load reads and parses the profile file at path.
func Load(path string, opts ...Option) (*kses.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	return Parse(data, FormatFromPath(path), opts...)
}

// Parse decodes a profile document and builds a validated policy from it.
// Tags are added on top of the profile named by "extends", if any; a tag
// listed in the document replaces the inherited rules for that tag. When
// the document lists no protocols, the inherited ones or
// kses.DefaultProtocols are used.
func Parse(data []byte, format Format, opts ...Option) (*kses.Policy, error) {
	o := newOptions(opts)

	var doc document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, wrapProfileError(fmt.Errorf("decode %s profile: %w", format, err))
	}
	doc.Extends = strings.ToLower(strings.TrimSpace(doc.Extends))
	if err := doc.Validate(); err != nil {
		return nil, wrapProfileError(err)
	}

	p := &kses.Policy{AllowedTags: kses.TagRules{}}
	if doc.Extends != "" {
		p, _ = Builtin(doc.Extends)
	}

	tags := make([]string, 0, len(doc.Tags))
	for tag := range doc.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if tag != "!--" && atom.Lookup([]byte(strings.ToLower(tag))) == 0 {
			o.log.Warn().Str("tag", tag).Msg("profile allows a tag that is not a known HTML element")
		}
		rules, err := kses.ParseAttributeRules(doc.Tags[tag])
		if err != nil {
			return nil, wrapProfileError(fmt.Errorf("tag %s: %w", tag, err))
		}
		if err := p.AddAllowedTag(tag, rules); err != nil {
			return nil, wrapProfileError(fmt.Errorf("tag %s: %w", tag, err))
		}
	}

	protocols := doc.Protocols
	if len(protocols) == 0 {
		protocols = p.AllowedProtocols
	}
	if len(protocols) == 0 {
		protocols = kses.DefaultProtocols()
	}
	if err := p.SetAllowedProtocols(protocols...); err != nil {
		return nil, wrapProfileError(err)
	}

	o.log.Debug().
		Int("tags", len(p.AllowedTags)).
		Int("protocols", len(p.AllowedProtocols)).
		Str("extends", doc.Extends).
		Msg("profile parsed")
	return p, nil
}

func wrapProfileError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile").
		WithTextCode(invalidProfileCode)
}
