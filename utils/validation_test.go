package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestStruct struct {
	Content string `validate:"required"`
	URL     string `validate:"required,url"`
	Limit   int    `validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		s := TestStruct{
			Content: "some captured text",
			URL:     "https://example.com/page",
			Limit:   10,
		}

		err := ValidateStruct(&s)
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		s := TestStruct{
			URL:   "https://example.com/page",
			Limit: 10,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Content")
	})

	t.Run("invalid url", func(t *testing.T) {
		s := TestStruct{
			Content: "text",
			URL:     "not a url",
			Limit:   10,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "URL")
	})

	t.Run("limit out of range", func(t *testing.T) {
		s := TestStruct{
			Content: "text",
			URL:     "https://example.com",
			Limit:   200,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Limit")
	})
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{
			name:      "valid UUID",
			input:     "550e8400-e29b-41d4-a716-446655440000",
			expectErr: false,
		},
		{
			name:      "invalid UUID",
			input:     "not-a-uuid",
			expectErr: true,
		},
		{
			name:      "empty string",
			input:     "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequired(t *testing.T) {
	t.Run("non-empty value", func(t *testing.T) {
		err := ValidateRequired("value", "field")
		assert.NoError(t, err)
	})

	t.Run("empty value", func(t *testing.T) {
		err := ValidateRequired("", "field")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field is required")
	})
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"photo", "document", "todo"}

	t.Run("allowed value", func(t *testing.T) {
		err := ValidateOneOf("photo", "contentType", allowed)
		assert.NoError(t, err)
	})

	t.Run("disallowed value", func(t *testing.T) {
		err := ValidateOneOf("poem", "contentType", allowed)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contentType must be one of")
	})
}

func TestIsValidationError(t *testing.T) {
	t.Run("validation error", func(t *testing.T) {
		err := &ValidationError{Message: "Validation failed"}
		assert.True(t, IsValidationError(err))
	})

	t.Run("other error", func(t *testing.T) {
		assert.False(t, IsValidationError(errors.New("boom")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, IsValidationError(nil))
	})
}

func TestGetValidationFields(t *testing.T) {
	t.Run("validation error with fields", func(t *testing.T) {
		err := &ValidationError{
			Message: "Validation failed",
			Fields:  map[string]string{"URL": "URL must be a valid URL"},
		}

		fields := GetValidationFields(err)
		assert.Equal(t, "URL must be a valid URL", fields["URL"])
	})

	t.Run("other error", func(t *testing.T) {
		assert.Nil(t, GetValidationFields(errors.New("boom")))
	})
}
