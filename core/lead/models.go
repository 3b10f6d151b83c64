package lead

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-landing/core"
)

// Students count ranges
const (
	Students0To500    = "0-500"
	Students501To1500 = "501-1500"
	Students1501Plus  = "1501+"
)

// Billing periods
const (
	BillingAnnual   = "annual"
	BillingLifetime = "lifetime"
)

var StudentsCounts = []string{Students0To500, Students501To1500, Students1501Plus}

// Lead is a captured pricing-form request.
type Lead struct {
	ID            string    `json:"id"`
	SchoolName    string    `json:"school_name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	StudentsCount string    `json:"students_count"`
	Plan          string    `json:"plan"`
	Billing       string    `json:"billing"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// NewLead contains the pricing-form fields.
type NewLead struct {
	SchoolName    string `json:"school_name" validate:"required,max=150"`
	ContactPerson string `json:"contact_person" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,phone"`
	StudentsCount string `json:"students_count" validate:"required,oneof=0-500 501-1500 1501+"`
	Plan          string `json:"plan" validate:"required,max=50"`
	Billing       string `json:"billing" validate:"omitempty,oneof=annual lifetime"`
	Message       string `json:"message" validate:"max=2000"`
}

func (nl *NewLead) Validate(validate *validator.Validate) error {
	nl.SchoolName = core.CleanString(nl.SchoolName)
	nl.ContactPerson = core.CleanString(nl.ContactPerson)
	nl.Email = core.CleanString(nl.Email, true /* lower */)
	nl.Phone = core.CleanString(nl.Phone)
	nl.StudentsCount = core.CleanString(nl.StudentsCount)
	nl.Plan = core.CleanString(nl.Plan)
	nl.Billing = core.CleanString(nl.Billing, true /* lower */)
	nl.Message = core.CleanString(nl.Message)
	if nl.Billing == "" {
		nl.Billing = BillingAnnual
	}
	return validate.Struct(nl)
}

// Receipt is the success message shown once a lead is submitted.
type Receipt struct {
	Lead     Lead   `json:"lead"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	FollowUp string `json:"follow_up"`
}

type Ordering struct {
	Field     string
	Ascending bool
}

type QueryFilter struct {
	Search    string     `query:"search"`
	Plan      string     `query:"plan"`
	Billing   string     `query:"billing"`
	Orderings []Ordering `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Plan == "" && qf.Billing == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Plan = core.CleanString(qf.Plan)
	qf.Billing = core.CleanString(qf.Billing, true /* lower */)
}
