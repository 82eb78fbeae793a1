package compose

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"clipforge/internal/rasterize"
	"clipforge/internal/services"
)

// PartCount is the fixed cardinality of the composition: any other count is a
// contract violation, not a degraded mode.
const PartCount = 10

// Kind distinguishes the two visual input types.
type Kind string

const (
	KindImage Kind = "image"
	KindClip  Kind = "clip"
)

// Part is one ordered visual input.
type Part struct {
	Index  int    `json:"index"`
	Kind   Kind   `json:"kind"`
	Source string `json:"source"`
}

// LogoPosition is one of the five supported anchor placements.
type LogoPosition string

const (
	LogoTopLeft     LogoPosition = "top-left"
	LogoTopRight    LogoPosition = "top-right"
	LogoBottomLeft  LogoPosition = "bottom-left"
	LogoBottomRight LogoPosition = "bottom-right"
	LogoCenter      LogoPosition = "center"
)

// Logo describes the optional branding overlay.
type Logo struct {
	Source   string       `json:"source"`
	SizePct  int          `json:"size_pct"`
	Position LogoPosition `json:"position"`
}

// Hook describes the optional rasterized text overlay.
type Hook struct {
	Text     string           `json:"text"`
	Style    rasterize.Style  `json:"style"`
	Position rasterize.Anchor `json:"position"`
	Offset   int              `json:"offset"`
}

// Job is one composition run. It lives only for the duration of pipeline
// execution and is never persisted.
type Job struct {
	ID    string `json:"id"`
	Parts []Part `json:"parts"`
	Song  string `json:"song"`
	Logo  *Logo  `json:"logo,omitempty"`
	Hook  *Hook  `json:"hook,omitempty"`
}

// NewJobID returns a fresh timestamp-derived job identity. ULIDs sort by
// creation time and contain only filename-safe characters.
func NewJobID() string {
	return ulid.Make().String()
}

// Validate checks the job contract before any asset resolution happens.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.ID) == "" {
		return services.Wrap(services.ErrValidation, "", "validate job", "job identity missing", nil)
	}
	if len(j.Parts) != PartCount {
		return services.Wrap(services.ErrValidation, "", "validate job",
			fmt.Sprintf("composition requires exactly %d parts, got %d", PartCount, len(j.Parts)), nil)
	}
	for i, part := range j.Parts {
		if part.Index != i {
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("part at position %d declares index %d", i, part.Index), nil)
		}
		if part.Kind != KindImage && part.Kind != KindClip {
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("part %d has unknown kind %q", i, part.Kind), nil)
		}
		if strings.TrimSpace(part.Source) == "" {
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("part %d has no source reference", i), nil)
		}
	}
	if strings.TrimSpace(j.Song) == "" {
		return services.Wrap(services.ErrValidation, "", "validate job", "audio track reference missing", nil)
	}
	if j.Logo != nil {
		if strings.TrimSpace(j.Logo.Source) == "" {
			return services.Wrap(services.ErrValidation, "", "validate job", "logo has no source reference", nil)
		}
		if j.Logo.SizePct < 1 || j.Logo.SizePct > 100 {
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("logo size %d%% out of range", j.Logo.SizePct), nil)
		}
		switch j.Logo.Position {
		case LogoTopLeft, LogoTopRight, LogoBottomLeft, LogoBottomRight, LogoCenter:
		default:
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("unknown logo position %q", j.Logo.Position), nil)
		}
	}
	if j.Hook != nil && strings.TrimSpace(j.Hook.Text) != "" {
		if !j.Hook.Style.Valid() {
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("unknown hook style %d", j.Hook.Style), nil)
		}
		if !j.Hook.Position.Valid() {
			return services.Wrap(services.ErrValidation, "", "validate job",
				fmt.Sprintf("unknown hook position %q", j.Hook.Position), nil)
		}
	}
	return nil
}

// HasHook reports whether the job carries a non-empty hook overlay.
func (j *Job) HasHook() bool {
	return j.Hook != nil && strings.TrimSpace(j.Hook.Text) != ""
}
