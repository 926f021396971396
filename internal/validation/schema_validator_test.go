package validation

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAML_ProductionTables(t *testing.T) {
	v := NewSchemaValidator()

	tests := []struct {
		name     string
		data     string
		wantErr  bool
		errorMsg string
	}{
		{
			name: "valid override",
			data: "rarity_rates:\n  rare: {coins: 120, gems: 30}\ncapacity:\n  base: 5\n",
		},
		{
			name: "empty document",
			data: "",
		},
		{
			name:     "unknown rarity",
			data:     "rarity_rates:\n  cosmic: {coins: 1, gems: 1}\n",
			wantErr:  true,
			errorMsg: "schema validation failed",
		},
		{
			name:     "negative rate",
			data:     "rarity_rates:\n  rare: {coins: -1, gems: 1}\n",
			wantErr:  true,
			errorMsg: "/rarity_rates/rare/coins",
		},
		{
			name:     "critical cap above one",
			data:     "critical:\n  chance_cap: 1.5\n",
			wantErr:  true,
			errorMsg: "chance_cap",
		},
		{
			name:     "unknown top-level section",
			data:     "surprise: true\n",
			wantErr:  true,
			errorMsg: "schema validation failed",
		},
		{
			name:     "malformed YAML",
			data:     "rarity_rates: [\n",
			wantErr:  true,
			errorMsg: "parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateYAML([]byte(tt.data), SchemaProductionTables)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := NewSchemaValidator().ValidateBytes([]byte(`{}`), "schemas/missing.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestShippedProductionTablesMatchSchema(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	path := filepath.Join(filepath.Dir(file), "..", "..", "configs", "production.yaml")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NoError(t, NewSchemaValidator().ValidateYAML(data, SchemaProductionTables))
}
