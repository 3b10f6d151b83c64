package flowdemo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepDetails(t *testing.T) {
	repo := DefaultContent()

	tests := []struct {
		name    string
		persona Persona
		step    int
		want    Details
		wantErr error
	}{
		{
			name:    "login",
			persona: Student,
			step:    1,
			want: Details{
				Step:        1,
				Heading:     "Step 1 Details",
				Icon:        "sign-in-alt",
				Title:       "Student Login & Authentication",
				Description: "Quick access with student ID and secure password or biometric login",
				Features:    []string{"Multi-factor authentication", "Role-based access control", "Secure session management", "Password recovery system"},
			},
		},
		{
			name:    "analytics",
			persona: Admin,
			step:    5,
			want: Details{
				Step:        5,
				Heading:     "Step 5 Details",
				Icon:        "chart-bar",
				Title:       "System Analytics",
				Description: "Comprehensive system reports, usage analytics, and performance metrics",
				Features:    []string{"Advanced analytics", "Custom reports", "Data visualization", "Export capabilities"},
			},
		},
		{
			name:    "no content",
			persona: "principal",
			step:    4,
			want: Details{
				Step:        4,
				Heading:     "Step 4 Details",
				Icon:        "comments",
				Title:       "Step 4",
				Description: "Detailed information about this step.",
				Features:    []string{"Instant messaging", "Video conferencing", "File sharing", "Group collaboration"},
			},
		},
		{name: "step 0", persona: Student, step: 0, wantErr: ErrInvalidStep},
		{name: "step 6", persona: Student, step: 6, wantErr: ErrInvalidStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StepDetails(repo, tt.persona, tt.step)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepDetails_featuresAreCopied(t *testing.T) {
	d, err := StepDetails(DefaultContent(), Student, 2)
	require.NoError(t, err)
	d.Features[0] = "changed"

	again, _ := StepDetails(DefaultContent(), Student, 2)
	assert.Equal(t, "Customizable widgets", again.Features[0])
}
