package ai

import (
	"encoding/json"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/footyoracle/internal/models"
)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	jsonSpanRe    = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)
)

// decodeStrategy tries to extract an analysis from raw model text.
type decodeStrategy func(text string) (models.AnalysisResponse, bool)

// decodeStrategies run in order; the first success wins.
var decodeStrategies = []decodeStrategy{
	decodeWhole,
	decodeFenced,
	decodeSpan,
}

// Decode converts raw model output into an AnalysisResponse. It never fails:
// text without usable JSON comes back as the reply itself.
func Decode(text string) models.AnalysisResponse {
	for _, strategy := range decodeStrategies {
		if resp, ok := strategy(text); ok {
			return resp
		}
	}
	return models.AnalysisResponse{Reply: text}
}

func decodeWhole(text string) (models.AnalysisResponse, bool) {
	return parseAnalysisJSON(text)
}

func decodeFenced(text string) (models.AnalysisResponse, bool) {
	m := fencedBlockRe.FindStringSubmatch(text)
	if m == nil {
		return models.AnalysisResponse{}, false
	}
	return parseAnalysisJSON(m[1])
}

func decodeSpan(text string) (models.AnalysisResponse, bool) {
	span := jsonSpanRe.FindString(text)
	if span == "" {
		return models.AnalysisResponse{}, false
	}
	return parseAnalysisJSON(span)
}

// parseAnalysisJSON accepts a JSON object shaped like AnalysisResponse or a
// JSON array of matches. Numbers and booleans are read as text, so "minute": 45
// still renders. A match or news item that cannot be read is dropped on its
// own. Anything else, including a bare scalar, is rejected.
func parseAnalysisJSON(s string) (models.AnalysisResponse, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.AnalysisResponse{}, false
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return models.AnalysisResponse{}, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.AnalysisResponse{}, false
	}

	switch v := raw.(type) {
	case map[string]any:
		return decodeObject(textify(v))
	case []any:
		matches, ok := decodeEach[models.MatchAnalysis](textify(v))
		if !ok {
			return models.AnalysisResponse{}, false
		}
		return models.AnalysisResponse{Matches: matches}, true
	}
	return models.AnalysisResponse{}, false
}

func decodeObject(v any) (models.AnalysisResponse, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return models.AnalysisResponse{}, false
	}

	var resp models.AnalysisResponse
	if err := json.Unmarshal(data, &resp); err == nil {
		return resp, true
	}

	// Some element has the wrong structure; keep the rest.
	var loose struct {
		Reply   string `json:"reply"`
		Summary string `json:"summary"`
		Matches []any  `json:"matches"`
		News    []any  `json:"news"`
	}
	if err := json.Unmarshal(data, &loose); err != nil {
		return models.AnalysisResponse{}, false
	}
	resp = models.AnalysisResponse{Reply: loose.Reply, Summary: loose.Summary}
	resp.Matches, _ = decodeEach[models.MatchAnalysis](loose.Matches)
	resp.News, _ = decodeEach[models.NewsItem](loose.News)
	return resp, true
}

// decodeEach decodes the elements of items one by one, skipping failures.
// It reports false when items was non-empty and nothing decoded. A nil input
// stays nil.
func decodeEach[T any](items any) ([]T, bool) {
	list, _ := items.([]any)
	if list == nil {
		return nil, true
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			out = append(out, v)
		}
	}
	return out, len(list) == 0 || len(out) > 0
}

// textify rewrites numbers and booleans as strings; every scalar in the
// analysis shape is display text.
func textify(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = textify(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = textify(e)
		}
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return v
}
