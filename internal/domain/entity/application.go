package entity

import "time"

// Application represents an ITSA assessment submission
type Application struct {
	ID                    int64     `json:"id"`
	OwnerID               int64     `json:"owner_id"`
	AppName               string    `json:"app_name"`
	Domain                string    `json:"domain"`
	NetworkClassification string    `json:"network_classification"`
	Address               string    `json:"address"`
	OfficialName          string    `json:"official_name"`
	OfficialEmployeeNo    string    `json:"official_employee_no"`
	OfficialRank          string    `json:"official_rank"`
	OfficialPosition      string    `json:"official_position"`
	Purpose               string    `json:"purpose"`
	Audience              string    `json:"audience"`
	Hosting               string    `json:"hosting"`
	Framework             string    `json:"framework"`
	Operator              string    `json:"operator"`
	RoleCount             int       `json:"role_count"`
	RoleNames             string    `json:"role_names"`
	AccountMechanism      string    `json:"account_mechanism"`
	CredentialMechanism   string    `json:"credential_mechanism"`
	HasPasswordReset      bool      `json:"has_password_reset"`
	ContactPIC            string    `json:"contact_pic"`
	ExtraNotes            string    `json:"extra_notes"`
	AdminReply            *string   `json:"admin_reply,omitempty"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ApplicationFields carries the owner-editable fields of an application.
// Used by create and resubmission updates so the status and admin reply
// columns are never touched through field edits.
type ApplicationFields struct {
	AppName               string `json:"app_name"`
	Domain                string `json:"domain"`
	NetworkClassification string `json:"network_classification"`
	Address               string `json:"address"`
	OfficialName          string `json:"official_name"`
	OfficialEmployeeNo    string `json:"official_employee_no"`
	OfficialRank          string `json:"official_rank"`
	OfficialPosition      string `json:"official_position"`
	Purpose               string `json:"purpose"`
	Audience              string `json:"audience"`
	Hosting               string `json:"hosting"`
	Framework             string `json:"framework"`
	Operator              string `json:"operator"`
	RoleCount             int    `json:"role_count"`
	RoleNames             string `json:"role_names"`
	AccountMechanism      string `json:"account_mechanism"`
	CredentialMechanism   string `json:"credential_mechanism"`
	HasPasswordReset      bool   `json:"has_password_reset"`
	ContactPIC            string `json:"contact_pic"`
	ExtraNotes            string `json:"extra_notes"`
}
