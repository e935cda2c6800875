package dto

// Promotion step action labels.
const (
	PromotionActionGraduate = "graduate"
	PromotionActionPromote  = "promote"
)

// PromotionStep describes one unit of work inside a promotion run.
type PromotionStep struct {
	Action       string   `json:"action"`
	FromSemester int      `json:"from_semester,omitempty"`
	ToSemester   int      `json:"to_semester,omitempty"`
	Semester     int      `json:"semester,omitempty"`
	Count        int      `json:"count"`
	StudentIDs   []string `json:"student_ids"`
	Error        string   `json:"error,omitempty"`
}

// PromotionReport summarises one promotion run for a stream.
type PromotionReport struct {
	Success          bool            `json:"success"`
	Stream           string          `json:"stream"`
	MigrationBatch   string          `json:"migration_batch"`
	TotalPromoted    int             `json:"total_promoted"`
	TotalGraduated   int             `json:"total_graduated"`
	PromotionFlow    []string        `json:"promotion_flow"`
	PromotionDetails []PromotionStep `json:"promotion_details"`
}
