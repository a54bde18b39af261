package assign

import (
	"fmt"
	"strings"

	"github.com/navidakram1/splitduty/internal/model"
)

// ComposeReason builds the human-readable audit string for a selection,
// naming the factors that were in play. It never references raw scores;
// the ranked candidate list carries those.
func ComposeReason(selected model.ScoredCandidate, scored []model.ScoredCandidate, settings *model.AssignmentSettings) string {
	var phrases []string

	maxScore := scored[0].Score
	for _, c := range scored[1:] {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if selected.Score == maxScore {
		phrases = append(phrases, "highest fairness score")
	}
	if settings.ConsiderWorkload {
		phrases = append(phrases, "balanced workload distribution")
	}
	if settings.ConsiderRecency {
		phrases = append(phrases, "time since last assignment")
	}

	if len(phrases) == 0 {
		return fmt.Sprintf("Assigned to %s based on configured priority", selected.Name)
	}
	return fmt.Sprintf("Assigned to %s based on %s", selected.Name, strings.Join(phrases, ", "))
}
