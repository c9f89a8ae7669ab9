// Package pipeline wires the type-graph core together: it loads the
// tunable options, drains the asynchronous input boundary, runs
// inference into a builder, and drives the rewrite passes to their
// fixpoint.
package pipeline

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/typegraph-dev/typegraph/compiler/passes"
)

// Heuristics are the inference and rewrite constants exposed for
// tuning.
type Heuristics struct {
	MinLengthForEnum     int     `mapstructure:"min_length_for_enum"`
	MinLengthForOverlap  int     `mapstructure:"min_length_for_overlap"`
	RequiredOverlap      float64 `mapstructure:"required_overlap"`
	MapThreshold         int     `mapstructure:"map_threshold"`
	MapThresholdProperty int     `mapstructure:"map_threshold_properties"`
}

// Options configures one pipeline run.
type Options struct {
	EnumInference           string `mapstructure:"enum_inference"` // none, infer, all
	ConflateNumbers         bool   `mapstructure:"conflate_numbers"`
	InferEnums              bool   `mapstructure:"infer_enums"`
	InferMaps               bool   `mapstructure:"infer_maps"`
	InferTransformedStrings bool   `mapstructure:"infer_transformed_strings"`
	DetectRefs              bool   `mapstructure:"detect_refs"`
	CombineClasses          bool   `mapstructure:"combine_classes"`
	FlattenStrings          bool   `mapstructure:"flatten_strings"`
	ReplaceObjectType       bool   `mapstructure:"replace_object_type"`
	LeaveFullObjects        bool   `mapstructure:"leave_full_objects"`
	PreserveTransformed     bool   `mapstructure:"preserve_transformed_strings"`
	CanonicalOrder          bool   `mapstructure:"canonical_order"`
	Debug                   bool   `mapstructure:"debug"`

	Heuristics Heuristics `mapstructure:"heuristics"`
}

// DefaultOptions returns the canonical configuration.
func DefaultOptions() *Options {
	return &Options{
		EnumInference:           "infer",
		ConflateNumbers:         true,
		InferEnums:              true,
		InferMaps:               true,
		InferTransformedStrings: true,
		DetectRefs:              true,
		CombineClasses:          true,
		FlattenStrings:          true,
		ReplaceObjectType:       true,
		PreserveTransformed:     true,
		CanonicalOrder:          true,
		Heuristics: Heuristics{
			MinLengthForEnum:     10,
			MinLengthForOverlap:  5,
			RequiredOverlap:      0.75,
			MapThreshold:         20,
			MapThresholdProperty: 500,
		},
	}
}

// Load reads options from typegraph.yml (or .yaml) in the working
// directory, with TYPEGRAPH_* environment overrides. A missing config
// file yields the defaults.
func Load() (*Options, error) {
	v := viper.New()

	defaults := DefaultOptions()
	v.SetDefault("enum_inference", defaults.EnumInference)
	v.SetDefault("conflate_numbers", defaults.ConflateNumbers)
	v.SetDefault("infer_enums", defaults.InferEnums)
	v.SetDefault("infer_maps", defaults.InferMaps)
	v.SetDefault("infer_transformed_strings", defaults.InferTransformedStrings)
	v.SetDefault("detect_refs", defaults.DetectRefs)
	v.SetDefault("combine_classes", defaults.CombineClasses)
	v.SetDefault("flatten_strings", defaults.FlattenStrings)
	v.SetDefault("replace_object_type", defaults.ReplaceObjectType)
	v.SetDefault("leave_full_objects", defaults.LeaveFullObjects)
	v.SetDefault("preserve_transformed_strings", defaults.PreserveTransformed)
	v.SetDefault("canonical_order", defaults.CanonicalOrder)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("heuristics.min_length_for_enum", defaults.Heuristics.MinLengthForEnum)
	v.SetDefault("heuristics.min_length_for_overlap", defaults.Heuristics.MinLengthForOverlap)
	v.SetDefault("heuristics.required_overlap", defaults.Heuristics.RequiredOverlap)
	v.SetDefault("heuristics.map_threshold", defaults.Heuristics.MapThreshold)
	v.SetDefault("heuristics.map_threshold_properties", defaults.Heuristics.MapThresholdProperty)

	v.SetConfigName("typegraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("TYPEGRAPH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks the option ranges.
func (o *Options) Validate() error {
	switch o.EnumInference {
	case "none", "infer", "all":
	default:
		return fmt.Errorf("invalid enum_inference %q (want none, infer or all)", o.EnumInference)
	}
	if o.Heuristics.RequiredOverlap <= 0 || o.Heuristics.RequiredOverlap > 1 {
		return fmt.Errorf("required_overlap %g out of range (0, 1]", o.Heuristics.RequiredOverlap)
	}
	if o.Heuristics.MapThreshold < 2 {
		return fmt.Errorf("map_threshold %d too small", o.Heuristics.MapThreshold)
	}
	if o.Heuristics.MapThresholdProperty < 2 {
		return fmt.Errorf("map_threshold_properties %d too small", o.Heuristics.MapThresholdProperty)
	}
	return nil
}

func (o *Options) enumInference() passes.EnumInference {
	switch o.EnumInference {
	case "all":
		return passes.EnumInferenceAll
	case "none":
		return passes.EnumInferenceNone
	default:
		return passes.EnumInferenceInfer
	}
}
