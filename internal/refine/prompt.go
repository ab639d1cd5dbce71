package refine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-refiner/internal/prompts"
	"github.com/jonathan/resume-refiner/internal/types"
)

// render fills a refine.json template
func render(key string, data map[string]string) (string, error) {
	text, err := prompts.Render(prompts.RefineFile, key, data)
	if err != nil {
		return "", fmt.Errorf("failed to build %s prompt: %w", key, err)
	}
	return text, nil
}

// cvJSON renders CV data as indented JSON for embedding in a prompt
func cvJSON(data types.ParsedCvData) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// formatTurns renders transcript entries as "role: content" lines
func formatTurns(turns []types.ChatMessage) string {
	lines := make([]string, 0, len(turns))
	for _, m := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// jobContext renders optional target-job lines for the chat system prompt
func jobContext(title, description string) string {
	var sb strings.Builder
	if t := strings.TrimSpace(title); t != "" {
		sb.WriteString("\nTarget Job: ")
		sb.WriteString(t)
	}
	if d := strings.TrimSpace(description); d != "" {
		sb.WriteString("\nJob Description: ")
		sb.WriteString(d)
	}
	return sb.String()
}

// formatLetter renders a cover letter as plain text
func formatLetter(letter types.CoverLetter) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{letter.Salutation, letter.Content, letter.Closing} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
