package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/footyoracle/internal/models"
	"github.com/footyoracle/internal/services/scraper"
	"github.com/footyoracle/internal/storage"
)

// HintProvider contributes a line of session context to each query.
type HintProvider interface {
	Name() string
	Hint(ctx context.Context) (string, error)
}

// StatsSource exposes history statistics. *storage.HistoryStore satisfies it.
type StatsSource interface {
	Stats() storage.Stats
}

// FormHint reports the analyst's recent track record.
type FormHint struct {
	Stats StatsSource
}

func (FormHint) Name() string { return "form" }

// Hint is empty until at least one prediction has been settled.
func (h FormHint) Hint(context.Context) (string, error) {
	s := h.Stats.Stats()
	if s.Correct+s.Incorrect == 0 {
		return "", nil
	}

	form := make([]string, len(s.RecentForm))
	for i, o := range s.RecentForm {
		if o == models.OutcomeCorrect {
			form[i] = "W"
		} else {
			form[i] = "L"
		}
	}

	return fmt.Sprintf("Session context: your settled predictions are %d correct and %d incorrect (%d%% accuracy). Recent form, newest first: %s.",
		s.Correct, s.Incorrect, s.Accuracy, strings.Join(form, "")), nil
}

// HeadlinesHint passes the latest scraped headlines to the model.
type HeadlinesHint struct {
	Source scraper.HeadlineSource
	Limit  int
}

func (HeadlinesHint) Name() string { return "headlines" }

func (h HeadlinesHint) Hint(ctx context.Context) (string, error) {
	items, err := h.Source.Headlines(ctx, h.Limit)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("Latest football headlines:\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", item.Title, item.URL))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
