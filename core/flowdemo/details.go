package flowdemo

import "fmt"

const detailsFallbackDescription = "Detailed information about this step."

var (
	stepIcons = [TotalSteps]string{"sign-in-alt", "tachometer-alt", "th-large", "comments", "chart-bar"}

	stepFeatures = [TotalSteps][]string{
		{"Multi-factor authentication", "Role-based access control", "Secure session management", "Password recovery system"},
		{"Customizable widgets", "Real-time notifications", "Quick action buttons", "Personalized content"},
		{"Intuitive navigation", "Search functionality", "Favorite shortcuts", "Recent activity tracking"},
		{"Instant messaging", "Video conferencing", "File sharing", "Group collaboration"},
		{"Advanced analytics", "Custom reports", "Data visualization", "Export capabilities"},
	}
)

// Details is the step modal content.
type Details struct {
	Step        int      `json:"step"`
	Heading     string   `json:"heading"`
	Icon        string   `json:"icon"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// StepDetails returns the modal content of a step for persona p.
// Title and description fall back to generic texts when p has no content.
func StepDetails(repo ContentRepository, p Persona, step int) (Details, error) {
	if !ValidStep(step) {
		return Details{}, ErrInvalidStep
	}

	d := Details{
		Step:        step,
		Heading:     fmt.Sprintf("Step %d Details", step),
		Icon:        stepIcons[step-1],
		Title:       fmt.Sprintf("Step %d", step),
		Description: detailsFallbackDescription,
		Features:    append([]string(nil), stepFeatures[step-1]...),
	}
	if content, ok := repo.Get(p, step); ok {
		d.Title = content.Title
		if content.Description != "" {
			d.Description = content.Description
		}
	}
	return d, nil
}
