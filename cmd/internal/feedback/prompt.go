package feedback

import (
	"fmt"
	"strings"
)

// buildPrompt renders the coaching prompt for one milestone. The tone asks
// for something warm and specific, not generic cheerleading.
func buildPrompt(p Params) string {
	var b strings.Builder

	b.WriteString("You are a supportive learning coach. A learner just crossed an hour milestone ")
	b.WriteString("on a long-term commitment and wrote a short synthesis of what they learned.\n\n")

	fmt.Fprintf(&b, "Commitment: %s\n", p.CommitmentTitle)
	if p.Category != nil && *p.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", *p.Category)
	}
	fmt.Fprintf(&b, "Goal: %d hours\n", p.GoalHours)
	fmt.Fprintf(&b, "Milestone reached: %d hours\n\n", p.HoursThreshold)

	fmt.Fprintf(&b, "Their synthesis:\n%s\n", p.UserSynthesis)

	if len(p.RecentReflections) > 0 {
		b.WriteString("\nRecent practice reflections, newest first:\n")
		for _, r := range p.RecentReflections {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	b.WriteString("\nWrite 2-3 sentences of encouraging, specific feedback. ")
	b.WriteString("Reference something concrete from their synthesis or reflections. ")
	b.WriteString("Do not use bullet points or headings, just plain text.")

	return b.String()
}
