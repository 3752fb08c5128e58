package content

import "time"

// Policy holds the tunable thresholds for the quality gate. Every value is a
// deployment constant, not a law of nature; site configurations may override
// any of them.
type Policy struct {
	TitleMinLength int
	TitleMaxLength int

	MinWords          int
	MaxWords          int
	MinParagraphs     int
	MaxSentenceWords  int
	LongSentenceLimit int
	MinH2Count        int

	// Voice and style
	MinFirstPerson    int // 0 disables the first-person floor
	PassiveVoiceLimit int
	BannedPhrases     []string // deployment-specific additions

	// Regional framing
	RequireRegional bool
	Regions         []string

	// SEO metadata
	MetaTitleMaxLength    int
	MetaDescMinLength     int
	MetaDescMaxLength     int
	KeywordDensityMin     float64 // percent
	KeywordDensityMax     float64 // percent

	// Image
	AltTextMinLength int
	AltTextMaxLength int

	// Links
	MinLinks       int
	LinkCheckLimit int

	// Conclusion paragraph
	ConclusionMinWords int
	ConclusionMaxWords int

	RequestTimeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		TitleMinLength:     35,
		TitleMaxLength:     60,
		MinWords:           800,
		MaxWords:           1800,
		MinParagraphs:      5,
		MaxSentenceWords:   35,
		LongSentenceLimit:  5,
		MinH2Count:         3,
		MinFirstPerson:     0,
		PassiveVoiceLimit:  8,
		RequireRegional:    false,
		MetaTitleMaxLength: 60,
		MetaDescMinLength:  150,
		MetaDescMaxLength:  160,
		KeywordDensityMin:  0.5,
		KeywordDensityMax:  2.5,
		AltTextMinLength:   10,
		AltTextMaxLength:   125,
		MinLinks:           2,
		LinkCheckLimit:     5,
		ConclusionMinWords: 20,
		ConclusionMaxWords: 100,
		RequestTimeout:     5 * time.Second,
	}
}
