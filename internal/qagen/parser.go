package qagen

import (
	"encoding/json"
	"strings"
)

// Parse recovers question/answer records from raw model output. It never
// fails: a response that defeats both stages yields an empty slice and
// the batch moves on.
//
// Stage 1 decodes the text as a JSON array, slicing between the first '['
// and the last ']' when both exist; models habitually wrap the array in
// prose, and the slice survives that where a whole-text decode does not.
// Stage 2, used only when the decode raises a syntax error, is a
// line-oriented state machine scanning for Q:/A: style markers.
//
// Records whose question or answer trims to empty are discarded, and the
// result is truncated to expectedCount (fewer is fine).
func Parse(text string, expectedCount int) []QARecord {
	records, err := parseStructured(text)
	if err != nil {
		records = parseFallback(text)
	}

	kept := records[:0]
	for _, r := range records {
		q := strings.TrimSpace(r.Question)
		a := strings.TrimSpace(r.Answer)
		if q == "" || a == "" {
			continue
		}
		kept = append(kept, QARecord{Question: q, Answer: a})
	}

	if expectedCount > 0 && len(kept) > expectedCount {
		kept = kept[:expectedCount]
	}
	return kept
}

// parseStructured attempts strict JSON extraction.
func parseStructured(text string) ([]QARecord, error) {
	candidate := text
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		candidate = text[start : end+1]
	}

	var records []QARecord
	if err := json.Unmarshal([]byte(candidate), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// parseFallback scans line by line for question/answer markers.
//
// The marker heuristic is deliberately crude and kept compatible with the
// reference behavior: any line whose trimmed text starts with "Q" opens a
// new record ("Question" included by prefix), any line starting with "A"
// sets the answer, and the text is whatever follows the first colon. A
// prose line that happens to start with "Q" or "A" will trip it; that is
// a known, accepted limitation.
func parseFallback(text string) []QARecord {
	var (
		records      []QARecord
		question     string
		answer       string
		haveQuestion bool
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Q"):
			// New question marker closes out the record in progress.
			if haveQuestion {
				records = append(records, QARecord{Question: question, Answer: answer})
			}
			if _, after, found := strings.Cut(line, ":"); found {
				question = strings.TrimSpace(after)
				answer = ""
				haveQuestion = true
			}

		case strings.HasPrefix(trimmed, "A"):
			if _, after, found := strings.Cut(line, ":"); found {
				answer = strings.TrimSpace(after)
			}

		case trimmed != "" && haveQuestion:
			// Continuation of a multi-line answer, space-joined.
			if answer == "" {
				answer = trimmed
			} else {
				answer += " " + trimmed
			}
		}
	}

	if haveQuestion {
		records = append(records, QARecord{Question: question, Answer: answer})
	}

	return records
}
