package lead

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-landing/core"
)

const followUpText = "Our team will contact you within 24 hours to schedule a personalized demo."

var ErrNotFound = errors.New("lead not found")

type (
	Repository interface {
		CreateLead(l Lead) (Lead, error)
		QueryAllLeads() ([]Lead, error)
		GetLeadByID(id string) (Lead, error)
		// FilterLeads applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Lead.SchoolName, Lead.ContactPerson or Lead.Email.
		FilterLeads(filter QueryFilter) ([]Lead, error)
	}

	ServiceInterface interface {
		Submit(ctx context.Context, nl NewLead) (Receipt, error)
		QueryAll() ([]Lead, error)
		GetByID(id string) (Lead, error)
		Query(filter QueryFilter) ([]Lead, error)
	}

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		validate   *validator.Validate
		logger     core.Logger
		delay      time.Duration
		salesEmail mail.Address
		nowFunc    func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	repo Repository,
	mailSvc core.EmailService,
	validate *validator.Validate,
	logger core.Logger,
	conf *core.Config,
) (*Service, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(logger, "logger"),
		vala.IsNotNil(conf, "conf"),
	).Check(); err != nil {
		return nil, err
	}
	return &Service{
		repo:       repo,
		mailSvc:    mailSvc,
		validate:   validate,
		logger:     logger,
		delay:      conf.Lead.SubmitDelay,
		salesEmail: conf.Lead.SalesEmail,
		nowFunc:    time.Now,
	}, nil
}

// Submit validates and records a lead after the simulated submission delay.
// A confirmation is mailed to the contact and a notification to sales.
func (svc *Service) Submit(ctx context.Context, nl NewLead) (Receipt, error) {
	if err := nl.Validate(svc.validate); err != nil {
		return Receipt{}, err
	}

	if svc.delay > 0 {
		timer := time.NewTimer(svc.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return Receipt{}, errors.Wrap(ctx.Err(), "submitting lead")
		}
	}

	l, err := svc.repo.CreateLead(Lead{
		ID:            uuid.New().String(),
		SchoolName:    nl.SchoolName,
		ContactPerson: nl.ContactPerson,
		Email:         nl.Email,
		Phone:         nl.Phone,
		StudentsCount: nl.StudentsCount,
		Plan:          nl.Plan,
		Billing:       nl.Billing,
		Message:       nl.Message,
		CreatedAt:     svc.nowFunc().UTC(),
	})
	if err != nil {
		return Receipt{}, errors.Wrap(err, "creating lead")
	}
	svc.logger.Info(fmt.Sprintf("lead: %s requested the %s plan", l.SchoolName, l.Plan), map[string]interface{}{"lead": l.ID})

	svc.sendEmails(l)
	return NewReceipt(l), nil
}

func (svc *Service) sendEmails(l Lead) {
	messages := []*core.EmailMessage{
		{
			To:           []mail.Address{{Name: l.ContactPerson, Address: l.Email}},
			Subject:      fmt.Sprintf("Your %s Plan request", l.Plan),
			TemplateName: "lead_received",
			TemplateData: l,
		},
	}
	if svc.salesEmail.Address != "" {
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{svc.salesEmail},
			Subject:      "New demo request: " + l.SchoolName,
			TemplateName: "lead_notify",
			TemplateData: l,
		})
	}
	svc.mailSvc.SendMessages(messages...)
}

func (svc *Service) QueryAll() ([]Lead, error) {
	return svc.repo.QueryAllLeads()
}

func (svc *Service) GetByID(id string) (Lead, error) {
	return svc.repo.GetLeadByID(id)
}

func (svc *Service) Query(filter QueryFilter) ([]Lead, error) {
	filter.Clean()
	return svc.repo.FilterLeads(filter)
}

// NewReceipt builds the success message for l.
func NewReceipt(l Lead) Receipt {
	return Receipt{
		Lead:     l,
		Title:    fmt.Sprintf("Thank You, %s!", l.ContactPerson),
		Message:  fmt.Sprintf("Your request for the %s Plan has been received.", l.Plan),
		FollowUp: followUpText,
	}
}
