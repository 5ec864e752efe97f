// Package enhance rewrites a generic HTML element tree with semantic badges
// (TODO keywords, priority cookies, timestamps) and default presentation
// classes. It works on any tree, whether produced by the org renderer or by a
// third-party markup converter.
package enhance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Styles maps semantic categories to class lists. A zero value for any field
// falls back to the built-in default, so callers only override what they
// care about.
type Styles struct {
	TodoKeywords map[string][]string `yaml:"todoKeywords"`
	Priorities   map[string][]string `yaml:"priorities"`
	Headers      map[int][]string    `yaml:"headers"`
	Timestamps   TimestampStyles     `yaml:"timestamps"`
	Elements     ElementStyles       `yaml:"elements"`
}

// TimestampStyles holds class lists per timestamp category plus the icon
// glyphs placed before the text spans.
type TimestampStyles struct {
	Range    []string `yaml:"range"`
	Active   []string `yaml:"active"`
	Inactive []string `yaml:"inactive"`
	Fallback []string `yaml:"fallback"`

	RangeIcon    string `yaml:"rangeIcon"`
	ArrowIcon    string `yaml:"arrowIcon"`
	ClockIcon    string `yaml:"clockIcon"`
	CalendarIcon string `yaml:"calendarIcon"`
}

// ElementStyles holds the default class list per tag for the generic styling
// pass. PreHighlighted augments pre blocks already carrying syntax-highlighter
// classes instead of replacing them.
type ElementStyles struct {
	P              []string `yaml:"p"`
	Ul             []string `yaml:"ul"`
	Ol             []string `yaml:"ol"`
	Li             []string `yaml:"li"`
	Code           []string `yaml:"code"`
	Pre            []string `yaml:"pre"`
	PreHighlighted []string `yaml:"preHighlighted"`
	Table          []string `yaml:"table"`
	Th             []string `yaml:"th"`
	Td             []string `yaml:"td"`
	Thead          []string `yaml:"thead"`
	Tbody          []string `yaml:"tbody"`
	A              []string `yaml:"a"`
	Strong         []string `yaml:"strong"`
	Em             []string `yaml:"em"`
	Hr             []string `yaml:"hr"`
}

// DefaultStyles returns the built-in class tables. The result is a fresh copy
// each call, so callers may mutate it freely.
func DefaultStyles() Styles {
	return Styles{
		TodoKeywords: map[string][]string{
			"TODO":      {"bg-red-100", "text-red-800"},
			"DOING":     {"bg-yellow-100", "text-yellow-800"},
			"NEXT":      {"bg-blue-100", "text-blue-800"},
			"WAITING":   {"bg-orange-100", "text-orange-800"},
			"DONE":      {"bg-green-100", "text-green-800"},
			"CANCELLED": {"bg-gray-200", "text-gray-500", "line-through"},
			"CANCELED":  {"bg-gray-200", "text-gray-500", "line-through"},
		},
		Priorities: map[string][]string{
			"A": {"bg-red-100", "text-red-700"},
			"B": {"bg-yellow-100", "text-yellow-700"},
			"C": {"bg-blue-100", "text-blue-700"},
		},
		Headers: map[int][]string{
			1: {"text-3xl", "font-bold", "mt-6", "mb-4"},
			2: {"text-2xl", "font-bold", "mt-5", "mb-3"},
			3: {"text-xl", "font-semibold", "mt-4", "mb-2"},
			4: {"text-lg", "font-semibold", "mt-3", "mb-2"},
			5: {"text-base", "font-semibold", "mt-2", "mb-1"},
			6: {"text-sm", "font-semibold", "mt-2", "mb-1"},
		},
		Timestamps: TimestampStyles{
			Range:    []string{"timestamp", "inline-flex", "items-center", "gap-1", "text-sm", "text-purple-700"},
			Active:   []string{"timestamp", "inline-flex", "items-center", "gap-1", "text-sm", "text-green-700"},
			Inactive: []string{"timestamp", "inline-flex", "items-center", "gap-1", "text-sm", "text-gray-500"},
			Fallback: []string{"timestamp", "text-sm", "text-gray-500"},

			RangeIcon:    "📅",
			ArrowIcon:    "→",
			ClockIcon:    "🕐",
			CalendarIcon: "📆",
		},
		Elements: ElementStyles{
			P:              []string{"my-2", "leading-relaxed"},
			Ul:             []string{"list-disc", "ml-6", "my-2"},
			Ol:             []string{"list-decimal", "ml-6", "my-2"},
			Li:             []string{"my-1"},
			Code:           []string{"bg-gray-100", "text-pink-600", "px-1", "rounded", "font-mono", "text-sm"},
			Pre:            []string{"bg-gray-900", "text-gray-100", "p-4", "rounded-lg", "overflow-x-auto", "my-4", "text-sm"},
			PreHighlighted: []string{"p-4", "rounded-lg", "overflow-x-auto", "my-4", "text-sm"},
			Table:          []string{"table-auto", "border-collapse", "my-4", "w-full"},
			Th:             []string{"border", "border-gray-300", "px-3", "py-1", "text-left", "font-semibold"},
			Td:             []string{"border", "border-gray-300", "px-3", "py-1"},
			Thead:          []string{"bg-gray-50"},
			Tbody:          []string{},
			A:              []string{"text-blue-600", "hover:underline"},
			Strong:         []string{"font-bold"},
			Em:             []string{"italic"},
			Hr:             []string{"my-6", "border-gray-300"},
		},
	}
}

// Classes applied to every keyword badge before the per-keyword colors.
var keywordBadgeBase = []string{"todo-keyword", "px-1.5", "py-0.5", "rounded", "text-xs", "font-semibold", "mr-2", "align-middle"}

// Classes applied to every priority badge before the per-priority colors.
var priorityBadgeBase = []string{"priority", "px-1", "rounded", "text-xs", "font-bold", "mr-1"}

// Unknown keywords and priorities get a neutral badge, never an error.
var (
	fallbackKeywordClasses  = []string{"bg-gray-100", "text-gray-700"}
	fallbackPriorityClasses = []string{"bg-gray-100", "text-gray-700"}
)

// LoadStyles reads a YAML override file. Only the keys present in the file
// need to be set; merging with the defaults happens in New.
func LoadStyles(path string) (*Styles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Styles
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse styles file %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays non-empty override fields on top of the defaults. Map
// overrides merge key-wise; list and icon overrides replace whole values.
func merge(base Styles, override *Styles) Styles {
	if override == nil {
		return base
	}
	for k, v := range override.TodoKeywords {
		base.TodoKeywords[k] = v
	}
	for k, v := range override.Priorities {
		base.Priorities[k] = v
	}
	for k, v := range override.Headers {
		base.Headers[k] = v
	}
	base.Timestamps = mergeTimestamps(base.Timestamps, override.Timestamps)
	base.Elements = mergeElements(base.Elements, override.Elements)
	return base
}

func mergeTimestamps(base, o TimestampStyles) TimestampStyles {
	if o.Range != nil {
		base.Range = o.Range
	}
	if o.Active != nil {
		base.Active = o.Active
	}
	if o.Inactive != nil {
		base.Inactive = o.Inactive
	}
	if o.Fallback != nil {
		base.Fallback = o.Fallback
	}
	if o.RangeIcon != "" {
		base.RangeIcon = o.RangeIcon
	}
	if o.ArrowIcon != "" {
		base.ArrowIcon = o.ArrowIcon
	}
	if o.ClockIcon != "" {
		base.ClockIcon = o.ClockIcon
	}
	if o.CalendarIcon != "" {
		base.CalendarIcon = o.CalendarIcon
	}
	return base
}

func mergeElements(base, o ElementStyles) ElementStyles {
	if o.P != nil {
		base.P = o.P
	}
	if o.Ul != nil {
		base.Ul = o.Ul
	}
	if o.Ol != nil {
		base.Ol = o.Ol
	}
	if o.Li != nil {
		base.Li = o.Li
	}
	if o.Code != nil {
		base.Code = o.Code
	}
	if o.Pre != nil {
		base.Pre = o.Pre
	}
	if o.PreHighlighted != nil {
		base.PreHighlighted = o.PreHighlighted
	}
	if o.Table != nil {
		base.Table = o.Table
	}
	if o.Th != nil {
		base.Th = o.Th
	}
	if o.Td != nil {
		base.Td = o.Td
	}
	if o.Thead != nil {
		base.Thead = o.Thead
	}
	if o.Tbody != nil {
		base.Tbody = o.Tbody
	}
	if o.A != nil {
		base.A = o.A
	}
	if o.Strong != nil {
		base.Strong = o.Strong
	}
	if o.Em != nil {
		base.Em = o.Em
	}
	if o.Hr != nil {
		base.Hr = o.Hr
	}
	return base
}
