package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtraction(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name: "valid extraction",
			json: `{"role": "Data Engineer", "gaps": ["airflow", "spark", "dbt"]}`,
		},
		{
			name:    "missing role",
			json:    `{"gaps": ["airflow"]}`,
			wantErr: true,
		},
		{
			name:    "empty gaps",
			json:    `{"role": "Data Engineer", "gaps": []}`,
			wantErr: true,
		},
		{
			name:    "gaps wrong type",
			json:    `{"role": "Data Engineer", "gaps": "airflow"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtraction(tt.json)
			if tt.wantErr {
				require.Error(t, err)
				validationErr, ok := err.(*ValidationError)
				require.True(t, ok, "error should be ValidationError type")
				assert.Greater(t, len(validationErr.Errors), 0)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateSynthesis(t *testing.T) {
	radar6 := `[
		{"skill": "docker", "userScore": 3, "marketScore": 10},
		{"skill": "kubernetes", "userScore": 2, "marketScore": 9},
		{"skill": "python", "userScore": 8, "marketScore": 9},
		{"skill": "sql", "userScore": 7, "marketScore": 8},
		{"skill": "aws", "userScore": 4, "marketScore": 8},
		{"skill": "terraform", "userScore": 2, "marketScore": 6}
	]`
	roadmap6 := `[
		{"month": 1, "skill": "docker", "course_title": "Docker Basics", "course_url": "https://example.com/docker", "status": "Recommended"},
		{"month": 2, "skill": "kubernetes", "course_title": "Kubernetes Basics", "course_url": "https://example.com/k8s", "status": "Recommended"},
		{"month": 3, "skill": "aws", "course_title": "AWS Basics", "course_url": "https://example.com/aws", "status": "Recommended"},
		{"month": 4, "skill": "terraform", "course_title": "Terraform Basics", "course_url": "https://example.com/tf", "status": "Recommended"},
		{"month": 5, "skill": "python", "course_title": "Advanced Python", "course_url": "https://example.com/py", "status": "Bonus"},
		{"month": 6, "skill": "sql", "course_title": "Advanced SQL", "course_url": "https://example.com/sql", "status": "Bonus"}
	]`

	valid := `{
		"detected_role": "Backend Developer",
		"match_score": 62,
		"match_score_reasoning": "Matched 5 of 8 market skills.",
		"skill_radar": ` + radar6 + `,
		"roadmap": ` + roadmap6 + `,
		"recommended_jobs": [{"title": "Backend Developer", "company": "Acme", "url": "https://example.com/job", "match_score": 70}]
	}`

	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name: "valid report",
			json: valid,
		},
		{
			name: "empty roadmap and jobs allowed",
			json: `{"detected_role": "x", "match_score": 50, "skill_radar": ` + radar6 + `, "roadmap": [], "recommended_jobs": []}`,
		},
		{
			name:    "score out of range",
			json:    `{"detected_role": "x", "match_score": 140, "skill_radar": ` + radar6 + `, "roadmap": []}`,
			wantErr: true,
		},
		{
			name:    "short skill radar",
			json:    `{"detected_role": "x", "match_score": 50, "skill_radar": [{"skill": "go", "userScore": 1, "marketScore": 9}], "roadmap": []}`,
			wantErr: true,
		},
		{
			name:    "partial roadmap",
			json:    `{"detected_role": "x", "match_score": 50, "skill_radar": ` + radar6 + `, "roadmap": [{"month": 1, "skill": "go", "course_title": "t", "course_url": "u", "status": "Recommended"}]}`,
			wantErr: true,
		},
		{
			name:    "too many jobs",
			json:    `{"detected_role": "x", "match_score": 50, "skill_radar": ` + radar6 + `, "roadmap": [], "recommended_jobs": [{"title": "a", "url": "u"}, {"title": "b", "url": "u"}, {"title": "c", "url": "u"}, {"title": "d", "url": "u"}]}`,
			wantErr: true,
		},
		{
			name:    "bad roadmap status",
			json:    `{"detected_role": "x", "match_score": 50, "skill_radar": ` + radar6 + `, "roadmap": [{"month": 1, "skill": "go", "course_title": "t", "course_url": "u", "status": "Optional"}]}`,
			wantErr: true,
		},
		{
			name:    "missing roadmap",
			json:    `{"detected_role": "x", "match_score": 50, "skill_radar": ` + radar6 + `}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSynthesis(tt.json)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateString_BadSchema(t *testing.T) {
	err := ValidateString(`{"type": nonsense}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Message(t *testing.T) {
	err := ValidateExtraction(`{"gaps": []}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
