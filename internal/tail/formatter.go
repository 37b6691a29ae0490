package tail

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/reel/internal/present"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	// Timestamp
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	// Emoji
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	// Event description
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if e.Current != nil {
		data.Position = present.FormatTime(e.Current.CurrentSeconds())
		data.Duration = present.FormatTime(e.Current.DurationSeconds)
		data.Percent = int(math.Floor(e.Current.PlayedFraction))
		data.Volume = percent(e.Current.Volume)
		data.Muted = e.Current.IsMuted
		data.Playing = e.Current.IsPlaying
		data.Fullscreen = e.Current.IsFullscreen
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type       string
	Emoji      string
	Timestamp  time.Time
	Time       string
	Position   string
	Duration   string
	Percent    int
	Volume     int
	Muted      bool
	Playing    bool
	Fullscreen bool
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	c := e.Current

	switch e.Type {
	case EventLoaded:
		if c != nil {
			return fmt.Sprintf("Loaded (%s)", present.FormatTime(c.DurationSeconds))
		}
		return "Loaded"

	case EventPlay:
		if c != nil && c.HasDuration() {
			return fmt.Sprintf("Playing at %s", present.TimeReadout(c.CurrentSeconds(), *c))
		}
		return "Playing"

	case EventPause:
		if c != nil && c.HasDuration() {
			return fmt.Sprintf("Paused at %s", present.TimeReadout(c.CurrentSeconds(), *c))
		}
		return "Paused"

	case EventSeek:
		if c != nil {
			return fmt.Sprintf("Seeked to %s (%d%%)", present.FormatTime(c.CurrentSeconds()), int(math.Floor(c.PlayedFraction)))
		}
		return "Seeked"

	case EventVolumeChange:
		if c != nil {
			return fmt.Sprintf("Volume: %d%%", percent(c.Volume))
		}
		return "Volume changed"

	case EventMute:
		return "Muted"

	case EventUnmute:
		return "Unmuted"

	case EventFullscreenEnter:
		return "Fullscreen"

	case EventFullscreenExit:
		return "Left fullscreen"

	default:
		return "Unknown event"
	}
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventLoaded:
		return "🎬"
	case EventPlay:
		return "▶️"
	case EventPause:
		return "⏸️"
	case EventSeek:
		return "⏩"
	case EventVolumeChange:
		return "🔊"
	case EventMute:
		return "🔇"
	case EventUnmute:
		return "🔈"
	case EventFullscreenEnter:
		return "⛶"
	case EventFullscreenExit:
		return "🗗"
	default:
		return "❓"
	}
}

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case EventLoaded:
		return "loaded"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventSeek:
		return "seek"
	case EventVolumeChange:
		return "volume_change"
	case EventMute:
		return "mute"
	case EventUnmute:
		return "unmute"
	case EventFullscreenEnter:
		return "fullscreen_enter"
	case EventFullscreenExit:
		return "fullscreen_exit"
	default:
		return "unknown"
	}
}
