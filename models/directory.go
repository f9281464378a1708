package models

// Submission links a candidate to a customer requirement. This service only
// reads submissions; they are owned by the submission workflow.
type Submission struct {
	ID            string `bson:"id" json:"id"`
	CandidateID   string `bson:"candidate_id" json:"candidate_id"`
	RequirementID string `bson:"requirement_id" json:"requirement_id"`
	CustomerID    string `bson:"customer_id" json:"customer_id"`
	Status        string `bson:"status,omitempty" json:"status,omitempty"`
}

// Candidate carries the few candidate fields rate suggestion needs.
type Candidate struct {
	ID              string `bson:"id" json:"id"`
	FullName        string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	ExperienceYears *int   `bson:"experience_years,omitempty" json:"experience_years,omitempty"`
}
