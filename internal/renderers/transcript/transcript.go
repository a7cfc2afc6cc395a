package transcript

import (
	"context"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/model"
)

// TranscriptRenderer writes what VoiceOver speaks when swiping through the
// screen from the first element to the last, one element per line.
type TranscriptRenderer struct{}

// New creates a new TranscriptRenderer.
func New() *TranscriptRenderer {
	return &TranscriptRenderer{}
}

func (r *TranscriptRenderer) Name() string {
	return "transcript"
}

// Render produces transcript.txt. The hint follows the description after a
// pause, which the transcript renders as a single space.
func (r *TranscriptRenderer) Render(ctx context.Context, snapshot *model.Snapshot) ([]model.Artifact, error) {
	var sb strings.Builder
	for _, el := range snapshot.Elements {
		line := el.Description
		if el.AnnouncedHint != "" {
			if line != "" {
				line += " "
			}
			line += el.AnnouncedHint
		}
		sb.WriteString(strings.ReplaceAll(line, "\n", " "))
		sb.WriteString("\n")
	}

	return []model.Artifact{
		{
			Name:    "transcript.txt",
			Content: []byte(sb.String()),
			Type:    "text/plain",
		},
	}, nil
}
