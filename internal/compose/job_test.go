package compose

import (
	"errors"
	"fmt"
	"testing"

	"clipforge/internal/rasterize"
	"clipforge/internal/services"
)

func validJob() *Job {
	job := &Job{
		ID:   NewJobID(),
		Song: "data:audio/mpeg;base64,AAAA",
	}
	for i := 0; i < PartCount; i++ {
		kind := KindImage
		if i%2 == 1 {
			kind = KindClip
		}
		job.Parts = append(job.Parts, Part{Index: i, Kind: kind, Source: fmt.Sprintf("/assets/part%d", i)})
	}
	return job
}

func TestJobValidateAccepts(t *testing.T) {
	job := validJob()
	if err := job.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	job.Logo = &Logo{Source: "/assets/logo.png", SizePct: 15, Position: LogoBottomLeft}
	job.Hook = &Hook{Text: "wait for it", Style: rasterize.StyleWhitePill, Position: rasterize.AnchorTop}
	if err := job.Validate(); err != nil {
		t.Fatalf("Validate() with overlays = %v, want nil", err)
	}
}

func TestJobValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Job)
	}{
		{"missing identity", func(j *Job) { j.ID = "  " }},
		{"nine parts", func(j *Job) { j.Parts = j.Parts[:9] }},
		{"eleven parts", func(j *Job) { j.Parts = append(j.Parts, Part{Index: 10, Kind: KindClip, Source: "/a"}) }},
		{"out of order index", func(j *Job) { j.Parts[3].Index = 7 }},
		{"unknown kind", func(j *Job) { j.Parts[0].Kind = "gif" }},
		{"empty part source", func(j *Job) { j.Parts[5].Source = "" }},
		{"missing song", func(j *Job) { j.Song = "" }},
		{"logo without source", func(j *Job) { j.Logo = &Logo{SizePct: 10, Position: LogoTopLeft} }},
		{"logo size zero", func(j *Job) { j.Logo = &Logo{Source: "/l.png", SizePct: 0, Position: LogoTopLeft} }},
		{"logo size over full width", func(j *Job) { j.Logo = &Logo{Source: "/l.png", SizePct: 101, Position: LogoTopLeft} }},
		{"unknown logo position", func(j *Job) { j.Logo = &Logo{Source: "/l.png", SizePct: 10, Position: "upper-left"} }},
		{"unknown hook style", func(j *Job) { j.Hook = &Hook{Text: "hi", Style: 4, Position: rasterize.AnchorTop} }},
		{"unknown hook position", func(j *Job) { j.Hook = &Hook{Text: "hi", Style: 1, Position: "left"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(job)
			err := job.Validate()
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("Validate() = %v, want ErrValidation", err)
			}
		})
	}
}

func TestJobHookWithEmptyTextIsIgnored(t *testing.T) {
	job := validJob()
	job.Hook = &Hook{Text: "   ", Style: 99, Position: "nowhere"}
	if err := job.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil for blank hook text", err)
	}
	if job.HasHook() {
		t.Fatal("HasHook() = true, want false for blank text")
	}
}

func TestNewJobIDIsFilenameSafe(t *testing.T) {
	id := NewJobID()
	if id == "" {
		t.Fatal("NewJobID() returned empty identity")
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		default:
			t.Fatalf("NewJobID() = %q contains unsafe rune %q", id, r)
		}
	}
}
