package audit

import "time"

// Entry - append-only record of a state-changing operation.
type Entry struct {
	ID          string                 `json:"id"`
	CompanyID   string                 `json:"company_id"`
	ActorUserID string                 `json:"actor_user_id"`
	Action      string                 `json:"action"`
	Entity      string                 `json:"entity"`
	EntityID    string                 `json:"entity_id"`
	Details     map[string]interface{} `json:"details,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
