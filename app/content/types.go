package content

import (
	"fmt"
)

// Post and validation types

type TemplateType string

const (
	TemplateHowTo      TemplateType = "howto"
	TemplateListicle   TemplateType = "listicle"
	TemplateComparison TemplateType = "comparison"
	TemplateFAQ        TemplateType = "faq"
	TemplateGuide      TemplateType = "guide"
)

// RequiresFAQ reports whether posts built from this template must carry a
// literal "Frequently Asked Questions" H2 section.
func (t TemplateType) RequiresFAQ() bool {
	return t == TemplateFAQ
}

type PostContent struct {
	Title           string
	HTML            string
	MetaTitle       string
	MetaDescription string
	Keyword         string
	TemplateType    TemplateType
}

// ImageDescriptor describes an optional featured image. An empty URL means
// "no featured image", which is publishable but flagged.
type ImageDescriptor struct {
	URL     string
	AltText string
}

type ContentMetrics struct {
	WordCount             int
	ParagraphCount        int
	HeadingCount          int
	LinkCount             int
	FirstPersonUsageCount int
	RegionalMentionCount  int
}

// ValidationResult holds the outcome of a single gate run. Valid is true
// exactly when Errors is empty; warnings never block publication.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Metrics  ContentMetrics
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
