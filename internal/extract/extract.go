// Package extract turns raw recognized text from a prescription label into a
// partial medication record. The OCR output is noisy and unstructured, so
// everything here is pattern and keyword heuristics; a field that cannot be
// recognized with confidence is left unset and the caller prompts for manual
// entry instead.
package extract

import (
	"regexp"
	"strings"

	"medminder/internal/models"
)

// Unit vocabulary is deliberately small. A number next to an unknown token is
// more likely an OCR artifact than a dosage.
var dosageRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(mcg|mg|g|ml|iu|units?|tablets?|capsules?|caps?|drops?|puffs?)\b`)

var clockRe = regexp.MustCompile(`(?i)\b([01]?\d|2[0-3]):([0-5]\d)\s*(am|pm)?\b`)

// Frequency keywords mapped onto the closed frequency set. Scanned by
// position in the text; the earliest match wins.
var frequencyPatterns = []struct {
	re   *regexp.Regexp
	freq models.Frequency
}{
	{regexp.MustCompile(`(?i)\btwice\s+(a\s+day|daily|per\s+day)\b`), models.FrequencyTwiceDaily},
	{regexp.MustCompile(`(?i)\b(three\s+times|thrice|3\s*x)\b`), models.FrequencyThriceDaily},
	{regexp.MustCompile(`(?i)\b(once\s+a\s+week|weekly|every\s+week)\b`), models.FrequencyWeekly},
	{regexp.MustCompile(`(?i)\b(once\s+daily|once\s+a\s+day|every\s+day|daily|1\s*x)\b`), models.FrequencyDaily},
}

// Instruction phrases start at one of these keywords and run to the end of
// the line or sentence.
var instructionRe = regexp.MustCompile(`(?i)(take\s+with[^.\n]*|take\s+(?:before|after|on)[^.\n]*|with\s+food[^.\n]*|without\s+food[^.\n]*|on\s+an?\s+empty\s+stomach[^.\n]*|before\s+meals?[^.\n]*|after\s+meals?[^.\n]*|avoid[^.\n]*|do\s+not[^.\n]*)`)

// Fields parses raw OCR text into whatever medication fields it can
// recognize. It never fails: unrecognizable input yields an empty result and
// the caller falls back to manual entry.
func Fields(rawText string) models.ExtractedFields {
	var out models.ExtractedFields
	if strings.TrimSpace(rawText) == "" {
		return out
	}

	out.Dosage = findDosage(rawText)
	out.Frequency = findFrequency(rawText)
	out.Name = findName(rawText)
	out.Times = findTimes(rawText)
	out.Instructions = findInstructions(rawText)

	// The frequency tag is informational, but when times were recognized the
	// two should at least agree on dose count.
	if out.Frequency == "" && len(out.Times) > 1 {
		out.Frequency = models.FrequencyFromTimes(len(out.Times))
	}

	return out
}

// findDosage returns the first number-plus-unit fragment, value and unit
// concatenated verbatim (e.g. "500mg"). First match wins.
func findDosage(text string) string {
	m := dosageRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + strings.ToLower(m[2])
}

// findName takes the first line that is not itself a dosage or frequency
// fragment, cut short at the first dosage match on that line.
func findName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// A line that is pure dosage or frequency text is not a name.
		stripped := dosageRe.ReplaceAllString(line, "")
		stripped = strings.Trim(stripped, " \t-–,.:")
		if stripped == "" || isFrequencyOnly(stripped) {
			continue
		}

		// Name stops at the first dosage match on the line.
		if loc := dosageRe.FindStringIndex(line); loc != nil {
			line = strings.Trim(line[:loc[0]], " \t-–,.:")
		}
		if line == "" || isFrequencyOnly(line) {
			continue
		}
		return line
	}
	return ""
}

func isFrequencyOnly(line string) bool {
	for _, p := range frequencyPatterns {
		rest := p.re.ReplaceAllString(line, "")
		if strings.Trim(rest, " \t-–,.:") == "" {
			return true
		}
	}
	return false
}

// findFrequency scans for frequency keywords; the match closest to the start
// of the text wins. Absence leaves the field unset and the caller defaults
// to daily.
func findFrequency(text string) models.Frequency {
	best := -1
	var freq models.Frequency
	for _, p := range frequencyPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			freq = p.freq
		}
	}
	return freq
}

// findTimes collects explicit clock times in order of appearance, normalized
// to 24-hour HH:MM. Appearance order is a heuristic only; the schedule view
// re-sorts chronologically regardless.
func findTimes(text string) []string {
	matches := clockRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var times []string
	for _, m := range matches {
		t := normalizeClock(m[1], m[2], m[3])
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		times = append(times, t)
	}
	return times
}

func normalizeClock(hourStr, minStr, meridiem string) string {
	hour := 0
	for _, c := range hourStr {
		hour = hour*10 + int(c-'0')
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour > 12 {
			return ""
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour > 12 {
			return ""
		}
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 {
		return ""
	}
	return twoDigits(hour) + ":" + minStr
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

// findInstructions captures keyword-triggered phrases ("take with food",
// "avoid alcohol", ...). Multiple phrases are joined with "; ".
func findInstructions(text string) string {
	matches := instructionRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}

	seen := make(map[string]bool)
	var phrases []string
	for _, m := range matches {
		phrase := strings.TrimSpace(m)
		key := strings.ToLower(phrase)
		if phrase == "" || seen[key] {
			continue
		}
		seen[key] = true
		phrases = append(phrases, phrase)
	}
	return strings.Join(phrases, "; ")
}
