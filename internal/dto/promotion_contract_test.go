package dto_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
)

// promotionReportSchema is the wire contract the dashboard consumes. Changing
// a field name or dropping a required key breaks downstream renderers, so the
// shape is pinned here.
const promotionReportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["success", "stream", "migration_batch", "total_promoted", "total_graduated", "promotion_flow", "promotion_details"],
  "properties": {
    "success": {"type": "boolean"},
    "stream": {"type": "string", "minLength": 1},
    "migration_batch": {"type": "string", "minLength": 1},
    "total_promoted": {"type": "integer", "minimum": 0},
    "total_graduated": {"type": "integer", "minimum": 0},
    "promotion_flow": {"type": "array", "items": {"type": "string"}},
    "promotion_details": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action", "count", "student_ids"],
        "properties": {
          "action": {"enum": ["graduate", "promote"]},
          "from_semester": {"type": "integer", "minimum": 1},
          "to_semester": {"type": "integer", "minimum": 2},
          "semester": {"type": "integer", "minimum": 1},
          "count": {"type": "integer", "minimum": 0},
          "student_ids": {"type": "array", "items": {"type": "string"}},
          "error": {"type": "string"}
        }
      }
    }
  }
}`

func TestPromotionReportWireContract(t *testing.T) {
	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("promotion_report.json", strings.NewReader(promotionReportSchema)))
	schema, err := compiler.Compile("promotion_report.json")
	require.NoError(t, err)

	report := dto.PromotionReport{
		Success:        true,
		Stream:         "BCA",
		MigrationBatch: "BCA-20260824T060000Z-deadbeef",
		TotalPromoted:  42,
		TotalGraduated: 7,
		PromotionFlow: []string{
			"graduated semester 6 (7 students)",
			"promoted semester 5 to 6 (10 students)",
		},
		PromotionDetails: []dto.PromotionStep{
			{Action: dto.PromotionActionGraduate, Semester: 6, Count: 7, StudentIDs: []string{"BCA19001"}},
			{Action: dto.PromotionActionPromote, FromSemester: 5, ToSemester: 6, Count: 10, StudentIDs: []string{"BCA20001"}},
		},
	}

	payload, err := json.Marshal(report)
	require.NoError(t, err)

	var document interface{}
	require.NoError(t, json.Unmarshal(payload, &document))
	require.NoError(t, schema.Validate(document))
}

func TestPromotionReportContractCatchesDrift(t *testing.T) {
	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("promotion_report.json", strings.NewReader(promotionReportSchema)))
	schema, err := compiler.Compile("promotion_report.json")
	require.NoError(t, err)

	var document interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"success": true, "stream": "BCA"}`), &document))
	require.Error(t, schema.Validate(document), "missing required keys must fail validation")
}
