//nolint:funlen // ok for tests
package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f1muse/f1-etl-go/pkg/model"
)

func TestResolve(t *testing.T) {
	type fields struct {
		mapping map[string]string
		aliases map[string]string
	}
	tests := []struct {
		name   string
		fields fields
		driver model.DriverInfo
		want   string
	}{
		{
			name:   "mapped mnemonic",
			fields: fields{mapping: map[string]string{"VER": "max_verstappen"}},
			driver: model.DriverInfo{Abbreviation: "VER"},
			want:   "max_verstappen",
		},
		{
			name:   "mapping lookup is case insensitive",
			fields: fields{mapping: map[string]string{"ver": "max_verstappen"}},
			driver: model.DriverInfo{Abbreviation: "Ver"},
			want:   "max_verstappen",
		},
		{
			name:   "unmapped driver gets synthesized id",
			fields: fields{},
			driver: model.DriverInfo{Abbreviation: "COL", FirstName: "Franco", LastName: "Colapinto"},
			want:   "franco_colapinto",
		},
		{
			name: "alias override corrects synthesized id",
			fields: fields{
				aliases: map[string]string{"carlos_sainz": "carlos_sainz_jr"},
			},
			driver: model.DriverInfo{Abbreviation: "SAI", FirstName: "Carlos", LastName: "Sainz"},
			want:   "carlos_sainz_jr",
		},
		{
			name:   "name parts are trimmed and lowercased",
			fields: fields{},
			driver: model.DriverInfo{FirstName: " Nyck ", LastName: "De Vries"},
			want:   "nyck_de_vries",
		},
		{
			name:   "no name falls back to mnemonic",
			fields: fields{},
			driver: model.DriverInfo{Abbreviation: "HUL"},
			want:   "hul",
		},
		{
			name:   "no identity at all falls back to provider key",
			fields: fields{},
			driver: model.DriverInfo{Key: "27"},
			want:   "driver_27",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []Option{}
			if tt.fields.mapping != nil {
				opts = append(opts, WithMapping(tt.fields.mapping))
			}
			if tt.fields.aliases != nil {
				opts = append(opts, WithAliases(tt.fields.aliases))
			}
			r := NewResolver(opts...)
			assert.Equal(t, tt.want, r.Resolve(tt.driver))
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver()
	d := model.DriverInfo{Abbreviation: "COL", FirstName: "Franco", LastName: "Colapinto"}
	first := r.Resolve(d)
	for range 5 {
		assert.Equal(t, first, r.Resolve(d))
	}
}
