package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/npillmayer/mathtags/units"
	"github.com/spf13/viper"
)

// Option names, as used by Get and Set. They follow the TeX input options of
// the typesetter.
const (
	OptTags          = "tags"
	OptTagSide       = "TagSide"
	OptTagIndent     = "TagIndent"
	OptUseLabelIds   = "useLabelIds"
	OptMultlineWidth = "MultLineWidth"
	OptBaseURL       = "baseURL"
)

// ErrUnknownOption is returned by Set for option names not known.
var ErrUnknownOption = errors.New("unknown option")

// Options holds the options for equation tagging.
type Options struct {
	Tags          string `mapstructure:"TAGS" validate:"required"`
	TagSide       string `mapstructure:"TAG_SIDE" validate:"oneof=left right"`
	TagIndent     string `mapstructure:"TAG_INDENT" validate:"required"`
	UseLabelIds   bool   `mapstructure:"USE_LABEL_IDS"`
	MultlineWidth string `mapstructure:"MULTLINE_WIDTH" validate:"required"`
	BaseURL       string `mapstructure:"BASE_URL" validate:"omitempty,uri"`
}

// Default returns the default options: no automatic numbering, tags on the
// right, 0.8em label spacing, ids generated from labels.
func Default() *Options {
	return &Options{
		Tags:          "none",
		TagSide:       "right",
		TagIndent:     "0.8em",
		UseLabelIds:   true,
		MultlineWidth: "85%",
	}
}

var validate = struct {
	once sync.Once
	v    *validator.Validate
}{}

func validatorInstance() *validator.Validate {
	validate.once.Do(func() {
		validate.v = validator.New()
	})
	return validate.v
}

// Validate checks the options for sane values.
func (o *Options) Validate() error {
	if err := validatorInstance().Struct(o); err != nil {
		return fmt.Errorf("invalid tagging options: %w", err)
	}
	for name, l := range map[string]string{OptTagIndent: o.TagIndent, OptMultlineWidth: o.MultlineWidth} {
		if _, err := units.ParseLength(l); err != nil {
			return fmt.Errorf("invalid tagging option %s: %w", name, err)
		}
	}
	return nil
}

// Load reads options from a file named "mathtags" (any format viper knows
// of, e.g. mathtags.yaml) in directory path. Environment variables prefixed
// with MATHTAGS_ override file values, e.g. MATHTAGS_TAG_SIDE=left.
// A missing file is not an error; defaults and environment apply.
func Load(path string) (*Options, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("TAGS", d.Tags)
	v.SetDefault("TAG_SIDE", d.TagSide)
	v.SetDefault("TAG_INDENT", d.TagIndent)
	v.SetDefault("USE_LABEL_IDS", d.UseLabelIds)
	v.SetDefault("MULTLINE_WIDTH", d.MultlineWidth)
	v.SetDefault("BASE_URL", d.BaseURL)
	v.SetConfigName("mathtags")
	v.AddConfigPath(path)
	v.SetEnvPrefix("MATHTAGS")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read tagging options: %w", err)
		}
		tracer().Debugf("no options file in %s, using defaults", path)
	} else {
		tracer().Infof("tagging options read from %s", v.ConfigFileUsed())
	}
	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("cannot decode tagging options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Get returns an option value by name, or nil for unknown names.
// Length options are returned normalized, see package units.
func (o *Options) Get(name string) interface{} {
	switch name {
	case OptTags:
		return o.Tags
	case OptTagSide:
		return o.TagSide
	case OptTagIndent:
		return normalizedLength(o.TagIndent)
	case OptUseLabelIds:
		return o.UseLabelIds
	case OptMultlineWidth:
		return normalizedLength(o.MultlineWidth)
	case OptBaseURL:
		return o.BaseURL
	}
	return nil
}

// Set overrides an option by name. Values have to be of the option's type.
// The changed options are not validated; call Validate if in doubt.
func (o *Options) Set(name string, value interface{}) error {
	switch name {
	case OptUseLabelIds:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("option %s expects a bool, got %T", name, value)
		}
		o.UseLabelIds = b
		return nil
	case OptTags, OptTagSide, OptTagIndent, OptMultlineWidth, OptBaseURL:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("option %s expects a string, got %T", name, value)
		}
		switch name {
		case OptTags:
			o.Tags = s
		case OptTagSide:
			o.TagSide = strings.ToLower(s)
		case OptTagIndent:
			o.TagIndent = s
		case OptMultlineWidth:
			o.MultlineWidth = s
		case OptBaseURL:
			o.BaseURL = s
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownOption, name)
}

func normalizedLength(s string) string {
	l, err := units.ParseLength(s)
	if err != nil {
		tracer().Errorf("option value %q is not a length: %v", s, err)
		return s
	}
	return l.String()
}
