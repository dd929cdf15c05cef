package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// IntentAdminReport tags exchanges answered by the height report
const IntentAdminReport = "admin_query"

var (
	ErrUnauthenticated = errors.New("authenticated identity required")
	ErrInvalidAudience = errors.New("invalid audience")
	ErrOwnerMismatch   = errors.New("session belongs to another user")
)

// ProfileStore reads and commits member profiles
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, input *domain.ProfileUpsert) (*domain.Profile, error)
}

// NLPGateway answers free text. Implementations never fail; they return a
// fallback response instead.
type NLPGateway interface {
	Invoke(ctx context.Context, req domain.NLPRequest) domain.NLPResponse
}

// ReportSource renders the admin height report
type ReportSource interface {
	HeightReport(ctx context.Context) (string, error)
}

// ExchangeLogger archives question/answer pairs
type ExchangeLogger interface {
	Record(ctx context.Context, exchange *domain.ChatExchange) error
}

// Controller drives sessions through the machine and executes the side
// effects each transition asks for.
type Controller struct {
	machine   *Machine
	profiles  ProfileStore
	nlp       NLPGateway
	reports   ReportSource
	exchanges ExchangeLogger

	logTimeout time.Duration
	wg         sync.WaitGroup
}

// ControllerOption customizes a Controller
type ControllerOption func(*Controller)

// WithExchangeLogger enables best-effort recording of exchanges
func WithExchangeLogger(l ExchangeLogger) ControllerOption {
	return func(c *Controller) {
		c.exchanges = l
	}
}

// WithReportSource enables the admin height report
func WithReportSource(r ReportSource) ControllerOption {
	return func(c *Controller) {
		c.reports = r
	}
}

// WithLogTimeout bounds each background exchange write
func WithLogTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.logTimeout = d
		}
	}
}

// NewController creates a new conversation controller
func NewController(machine *Machine, profiles ProfileStore, nlp NLPGateway, opts ...ControllerOption) *Controller {
	c := &Controller{
		machine:    machine,
		profiles:   profiles,
		nlp:        nlp,
		logTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens a session. Member and admin sessions require an identity.
func (c *Controller) Start(ctx context.Context, aud Audience, owner *Identity) (*Session, error) {
	if !aud.Valid() {
		return nil, ErrInvalidAudience
	}
	if aud != AudienceGuest && owner == nil {
		return nil, ErrUnauthenticated
	}

	s := NewSession(aud, owner)
	onboarded := false
	if aud == AudienceMember {
		profile, err := c.profiles.Get(ctx, owner.ID)
		if err != nil {
			log.Error().Err(err).
				Str("session_id", s.ID.String()).
				Str("user_id", owner.ID.String()).
				Msg("Failed to fetch profile")
			s.appendBot(c.machine.FetchFailed())
		} else if profile != nil && profile.OnboardingComplete {
			onboarded = true
		}
	}

	s.apply(c.machine.Start(aud, onboarded))
	return s, nil
}

// Handle processes one user input. Turns are applied strictly in order; the
// caller must not invoke Handle concurrently for the same session.
func (c *Controller) Handle(ctx context.Context, s *Session, in Input) {
	idx := s.appendUser(c.display(s, in))

	out := c.machine.Transition(s.Audience, s.State, s.Draft, in)
	s.annotate(idx, out.Selected)
	if out.Fault {
		log.Warn().
			Str("session_id", s.ID.String()).
			Str("audience", string(s.Audience)).
			Str("state", string(s.State)).
			Msg("Session reached a state outside its transition table")
	}

	if out.Commit != nil {
		if err := c.commit(ctx, s, *out.Commit); err != nil {
			log.Error().Err(err).
				Str("session_id", s.ID.String()).
				Msg("Failed to save profile")
			out = c.machine.CommitFailed()
		}
	}
	s.apply(out)

	switch {
	case out.NLP != nil:
		c.answer(ctx, s, *out.NLP)
	case out.Report:
		c.report(ctx, s, in.Text)
	}
	s.appendBot(out.FollowUp...)
}

// View renders the current session for the client
func (c *Controller) View(s *Session) View {
	return View{
		SessionID:  s.ID,
		Audience:   s.Audience,
		Transcript: s.Transcript,
		Expect:     c.machine.Expect(s.Audience, s.State),
		Redirect:   s.Redirect,
	}
}

// Wait blocks until pending exchange writes have finished
func (c *Controller) Wait() {
	c.wg.Wait()
}

// display picks the text shown for a user turn: typed text, or the label of
// the clicked option.
func (c *Controller) display(s *Session, in Input) string {
	if in.Text != "" {
		return in.Text
	}
	for _, o := range c.machine.Expect(s.Audience, s.State).Options {
		if o.Intent == in.Intent {
			return o.Label
		}
	}
	return string(in.Intent)
}

func (c *Controller) commit(ctx context.Context, s *Session, patch ProfilePatch) error {
	if s.Owner == nil {
		return ErrUnauthenticated
	}
	input := &domain.ProfileUpsert{
		UserID:      s.Owner.ID,
		DisplayName: s.Owner.Username,
		Sex:         string(patch.Sex),
		Age:         patch.Age,
		HeightCm:    patch.HeightCm,
		WeightKg:    patch.WeightKg,
		Allergies:   patch.Allergies,
	}
	if err := c.machine.rules.validate.Struct(input); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	_, err := c.profiles.Upsert(ctx, input)
	return err
}

func (c *Controller) answer(ctx context.Context, s *Session, call NLPCall) {
	req := domain.NLPRequest{Message: call.Message, IsAdmin: call.Elevated}
	if s.Owner != nil {
		id := s.Owner.ID
		req.UserID = &id
	}

	resp := c.nlp.Invoke(ctx, req)
	s.appendBot(botTurn(resp.Response))
	c.record(ctx, s, call.Message, resp)
}

func (c *Controller) report(ctx context.Context, s *Session, question string) {
	if c.reports == nil {
		s.appendBot(c.machine.ReportFailed())
		return
	}
	text, err := c.reports.HeightReport(ctx)
	if err != nil {
		log.Error().Err(err).
			Str("session_id", s.ID.String()).
			Msg("Failed to build height report")
		s.appendBot(c.machine.ReportFailed())
		return
	}
	s.appendBot(botTurn(text))
	c.record(ctx, s, strings.TrimSpace(question), domain.NLPResponse{
		Response:   text,
		Intent:     IntentAdminReport,
		Confidence: 1.0,
	})
}

// record archives an exchange in the background. Failures are logged and
// never reach the user.
func (c *Controller) record(ctx context.Context, s *Session, question string, resp domain.NLPResponse) {
	if c.exchanges == nil || s.Owner == nil {
		return
	}
	if s.Audience == AudienceAdmin {
		question = domain.AdminQuestionPrefix + question
	}
	exchange := &domain.ChatExchange{
		ID:         uuid.New(),
		UserID:     s.Owner.ID,
		Question:   question,
		Answer:     resp.Response,
		Intent:     resp.Intent,
		Confidence: resp.Confidence,
		CreatedAt:  time.Now(),
	}

	sessionID := s.ID.String()
	bg := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logCtx, cancel := context.WithTimeout(bg, c.logTimeout)
		defer cancel()
		if err := c.exchanges.Record(logCtx, exchange); err != nil {
			log.Warn().Err(err).
				Str("session_id", sessionID).
				Msg("Failed to record chat exchange")
		}
	}()
}
