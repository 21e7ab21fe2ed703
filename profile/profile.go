// Package profile loads export profiles: a format, its options and the
// columns to export, kept in yaml files or any viper source.
//
//	format: csv
//	options:
//	  separator: ";"
//	  filename: users
//	columns:
//	  - field: id
//	    title: ID
//	  - field: name
//	    hook: upper
package profile

import (
	"os"

	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"gopkg.in/yaml.v2"

	"github.com/opdss/dataexporter/export"
)

var ErrProfile = errs.Class("profile")

type Profile struct {
	Format  string         `yaml:"format" mapstructure:"format"`
	Options map[string]any `yaml:"options" mapstructure:"options"`
	Columns []Column       `yaml:"columns" mapstructure:"columns"`
}

type Column struct {
	Field string  `yaml:"field" mapstructure:"field"`
	Title string  `yaml:"title" mapstructure:"title"`
	Hook  string  `yaml:"hook" mapstructure:"hook"` // name in export.BuiltinHooks
	Width float64 `yaml:"width" mapstructure:"width"`
}

// Parse decodes and validates a yaml profile.
func Parse(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, ErrProfile.Wrap(err)
	}
	return p, p.Validate()
}

// Load reads a yaml profile from disk.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrProfile.Wrap(err)
	}
	return Parse(data)
}

// FromViper decodes the profile stored under key.
func FromViper(vip *viper.Viper, key string) (*Profile, error) {
	p := &Profile{}
	if !vip.IsSet(key) {
		return nil, ErrProfile.New("profile %q not found", key)
	}
	if err := vip.UnmarshalKey(key, p); err != nil {
		return nil, ErrProfile.Wrap(err)
	}
	return p, p.Validate()
}

func (p *Profile) Validate() error {
	if _, err := export.ParseFormat(p.Format); err != nil {
		return err
	}
	if len(p.Columns) == 0 {
		return ErrProfile.New("profile has no columns")
	}
	for _, c := range p.Columns {
		if c.Field == "" {
			return ErrProfile.New("column without field")
		}
		if c.Hook != "" && export.BuiltinHooks[c.Hook] == nil {
			return ErrProfile.New("column %s: unknown hook %q", c.Field, c.Hook)
		}
	}
	return nil
}

// ExportColumns converts the profile columns, resolving hook names.
func (p *Profile) ExportColumns() []export.Column {
	cols := make([]export.Column, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = export.Column{Field: c.Field, Title: c.Title, Width: c.Width}
		if h := export.BuiltinHooks[c.Hook]; h != nil {
			cols[i].Hook = h
		}
	}
	return cols
}

// NewExporter returns an exporter configured and with columns declared, ready for rows.
func (p *Profile) NewExporter(opts ...export.Option) (*export.Exporter, error) {
	e, err := export.NewExporter().Configure(p.Format, p.Options, opts...)
	if err != nil {
		return nil, err
	}
	if err = e.DeclareColumns(p.ExportColumns()...); err != nil {
		return nil, err
	}
	return e, nil
}
