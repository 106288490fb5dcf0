// Package render fills an outreach template with one recipient's details.
package render

import (
	"strings"
)

// DefaultRecipientName is used when a recipient has no name on file.
const DefaultRecipientName = "Hiring Manager"

const subjectPrefix = "Subject:"

// Placeholders recognized in templates, in replacement order.
const (
	PlaceholderCompanyName   = "{company_name}"
	PlaceholderRecipientName = "{recipient_name}"
	PlaceholderRole          = "{role}"
	PlaceholderDesignation   = "{designation}"
)

// Fields are the recipient values substituted into a template.
type Fields struct {
	CompanyName   string
	RecipientName string
	Role          string
	Designation   string
}

func (f Fields) replacer() *strings.Replacer {
	name := strings.TrimSpace(f.RecipientName)
	if name == "" {
		name = DefaultRecipientName
	}
	return strings.NewReplacer(
		PlaceholderCompanyName, f.CompanyName,
		PlaceholderRecipientName, name,
		PlaceholderRole, f.Role,
		PlaceholderDesignation, f.Designation,
	)
}

// Render substitutes placeholders literally and splits the result into subject and body.
// The first line starting with "Subject:" becomes the subject with the prefix removed and
// surrounding whitespace trimmed. Every other line is body, with leading and trailing blank
// lines dropped. Unknown placeholders are left as they are and a missing subject line gives "".
func Render(template string, fields Fields) (subject, body string) {
	content := fields.replacer().Replace(strings.ReplaceAll(template, "\r\n", "\n"))

	lines := strings.Split(content, "\n")
	bodyLines := make([]string, 0, len(lines))
	found := false
	for _, line := range lines {
		if !found && strings.HasPrefix(line, subjectPrefix) {
			subject = strings.TrimSpace(strings.TrimPrefix(line, subjectPrefix))
			found = true
			continue
		}
		bodyLines = append(bodyLines, line)
	}

	return subject, strings.Join(trimBlankLines(bodyLines), "\n")
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
