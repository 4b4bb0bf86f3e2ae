package validator

import (
	"errors"
	"testing"
)

func TestValidateGenerateQuestionsRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     GenerateQuestionsRequest
		wantErr bool
	}{
		{
			name: "valid minimal",
			req:  GenerateQuestionsRequest{JobRole: "Backend Engineer", ExperienceLevel: "senior"},
		},
		{
			name: "valid full",
			req: GenerateQuestionsRequest{
				JobRole:         "Backend Engineer",
				ExperienceLevel: "mid-level",
				InterviewType:   "system-design",
				Difficulty:      "advanced",
				QuestionCount:   10,
				Skills:          []string{"Go", "Postgres"},
			},
		},
		{
			name:    "missing job role",
			req:     GenerateQuestionsRequest{ExperienceLevel: "senior"},
			wantErr: true,
		},
		{
			name:    "missing experience level",
			req:     GenerateQuestionsRequest{JobRole: "Backend Engineer"},
			wantErr: true,
		},
		{
			name:    "bogus experience level",
			req:     GenerateQuestionsRequest{JobRole: "Backend Engineer", ExperienceLevel: "wizard"},
			wantErr: true,
		},
		{
			name:    "bogus interview type",
			req:     GenerateQuestionsRequest{JobRole: "Backend Engineer", ExperienceLevel: "senior", InterviewType: "casual"},
			wantErr: true,
		},
		{
			name:    "question count too high",
			req:     GenerateQuestionsRequest{JobRole: "Backend Engineer", ExperienceLevel: "senior", QuestionCount: 25},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "longenough"},
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Name: "Dana", Email: "not-an-email", Password: "longenough"},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "short"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorsShape(t *testing.T) {
	v := New()

	err := v.Validate(&GenerateQuestionsRequest{ExperienceLevel: "wizard"})
	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(validationErrs) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(validationErrs), validationErrs)
	}
	for _, fe := range validationErrs {
		if fe.Field == "" || fe.Message == "" || fe.Rule == "" {
			t.Errorf("incomplete field error: %+v", fe)
		}
	}
	if err.Error() == "" {
		t.Error("Error() should describe the failures")
	}
}
