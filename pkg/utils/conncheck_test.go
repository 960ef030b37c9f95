package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "with port",
			url:  "postgresql://user:pw@db.example.com:5433/f1etl",
			want: "db.example.com:5433",
		},
		{
			name: "without port defaults to 5432",
			url:  "postgresql://user:pw@db.example.com/f1etl",
			want: "db.example.com:5432",
		},
		{
			name: "not a postgresql url",
			url:  "mysql://user:pw@db.example.com/f1etl",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}
