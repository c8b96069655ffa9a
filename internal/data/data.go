package data

import (
	"github.com/rs/zerolog"

	"github.com/upseller/upseller/gcal"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/llm"
	"github.com/upseller/upseller/marketplace"
)

// MasterRepositories contains the master service's repositories
type MasterRepositories struct {
	Conversations repo.ConversationRepo
	Messenger     repo.MessengerRepo
	Scheduler     repo.SchedulerRepo
}

// NewMasterRepositories creates the master service's repositories
func NewMasterRepositories(messengerBaseURL, calendarBaseURL string) *MasterRepositories {
	return &MasterRepositories{
		Conversations: NewConversationRepo(),
		Messenger:     NewMessengerClient(messengerBaseURL),
		Scheduler:     NewSchedulerClient(calendarBaseURL),
	}
}

// MessengerRepositories contains the messenger service's repositories
type MessengerRepositories struct {
	Generator repo.GeneratorRepo
	Outbound  repo.OutboundRepo
}

// NewMessengerRepositories creates the messenger service's repositories.
// llmClient may be nil, which disables the generator strategy.
func NewMessengerRepositories(llmClient *llm.Client, log zerolog.Logger) *MessengerRepositories {
	return &MessengerRepositories{
		Generator: NewGeneratorRepo(llmClient),
		Outbound:  NewOutboundRepo(marketplace.NewAutomation(log)),
	}
}

// CalendarRepositories contains the calendar service's repositories
type CalendarRepositories struct {
	Appointments repo.AppointmentRepo
	Tokens       repo.TokenRepo
	Calendar     repo.CalendarRepo
}

// NewCalendarRepositories creates the calendar service's repositories.
// The gcal client shares the token repository through a token source.
func NewCalendarRepositories(appointmentsDBPath, tokensDBPath string, newClient func(gcal.TokenSource) *gcal.Client) (*CalendarRepositories, error) {
	appointments, err := NewAppointmentRepo(appointmentsDBPath)
	if err != nil {
		return nil, err
	}

	tokens, err := NewTokenRepo(tokensDBPath)
	if err != nil {
		return nil, err
	}

	client := newClient(NewGcalTokenSource(tokens))

	return &CalendarRepositories{
		Appointments: appointments,
		Tokens:       tokens,
		Calendar:     NewCalendarRepo(client),
	}, nil
}
