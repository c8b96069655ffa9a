package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/upseller/upseller/internal/biz/domain"
)

// icsWriter renders appointment invites as .ics files under a directory
// served at /ics/
type icsWriter struct {
	dir string
}

// NewICSWriter creates an invite writer rooted at dir
func NewICSWriter(dir string) (*icsWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ics directory: %w", err)
	}
	return &icsWriter{dir: dir}, nil
}

// WriteInvite renders the appointment as an iCalendar file and returns
// its serving path
func (w *icsWriter) WriteInvite(appt *domain.Appointment, title string) (string, error) {
	start, err := time.Parse(time.RFC3339, appt.StartIso)
	if err != nil {
		return "", fmt.Errorf("invalid appointment start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, appt.EndIso)
	if err != nil {
		return "", fmt.Errorf("invalid appointment end: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:-//upseller//marketplace-assistant//EN\r\n")
	sb.WriteString("BEGIN:VEVENT\r\n")
	sb.WriteString(fmt.Sprintf("UID:%s@upseller\r\n", appt.ID))
	sb.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", icsTime(time.Now())))
	sb.WriteString(fmt.Sprintf("DTSTART:%s\r\n", icsTime(start)))
	sb.WriteString(fmt.Sprintf("DTEND:%s\r\n", icsTime(end)))
	sb.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", icsEscape("Marketplace meetup: "+title)))
	if appt.Spot != "" {
		sb.WriteString(fmt.Sprintf("LOCATION:%s\r\n", icsEscape(appt.Spot)))
	}
	sb.WriteString("END:VEVENT\r\n")
	sb.WriteString("END:VCALENDAR\r\n")

	filename := appt.ID + ".ics"
	if err := os.WriteFile(filepath.Join(w.dir, filename), []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write invite: %w", err)
	}

	return "/ics/" + filename, nil
}

func icsTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func icsEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
