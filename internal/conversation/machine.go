package conversation

import (
	"fmt"
	"strings"
)

// DefaultReportKeywords trigger the admin height report instead of an NLP call
var DefaultReportKeywords = []string{"altura", "height", "estadisticas", "estadísticas", "stats"}

// Config parameterizes the transition tables
type Config struct {
	FAQURL         string
	SignupURL      string
	Bounds         Bounds
	ReportKeywords []string
}

// NLPCall asks the controller to forward a message to the NLP gateway
type NLPCall struct {
	Message  string
	Elevated bool
}

// Outcome is the result of one transition. Turns are bot turns emitted
// before any side effect; FollowUp turns are appended after the side
// effect's own turn (NLP answer or report).
type Outcome struct {
	Next     State
	PlanID   string
	Draft    Draft
	Turns    []Turn
	FollowUp []Turn
	Selected string
	Commit   *ProfilePatch
	NLP      *NLPCall
	Report   bool
	Redirect string
	Rejected bool
	Fault    bool
}

// Machine holds the transition tables for all three audiences. It is
// stateless; every call receives the current state and draft.
type Machine struct {
	cfg   Config
	rules *Rules
}

// NewMachine builds a machine with the given configuration
func NewMachine(cfg Config) *Machine {
	if cfg.FAQURL == "" {
		cfg.FAQURL = "/chatbot/public/FAQs"
	}
	if cfg.SignupURL == "" {
		cfg.SignupURL = "/signup"
	}
	if len(cfg.ReportKeywords) == 0 {
		cfg.ReportKeywords = DefaultReportKeywords
	}
	rules := NewRules(cfg.Bounds)
	cfg.Bounds = rules.Bounds()
	return &Machine{cfg: cfg, rules: rules}
}

func botTurn(text string, options ...Option) Turn {
	return Turn{Speaker: SpeakerBot, Text: text, Options: options}
}

// Start returns the opening outcome of a new session. onboarded is only
// consulted for members.
func (m *Machine) Start(aud Audience, onboarded bool) Outcome {
	switch aud {
	case AudienceGuest:
		return Outcome{
			Next:  StateMenuRoot,
			Turns: []Turn{botTurn(msgGuestWelcome, rootOptions()...)},
		}
	case AudienceMember:
		if onboarded {
			return Outcome{Next: StateFreeChat, Turns: []Turn{botTurn(msgWelcomeBack)}}
		}
		return Outcome{
			Next: StateAskSex,
			Turns: []Turn{
				botTurn(msgIntro),
				botTurn(msgAskSex, sexOptions()...),
			},
		}
	case AudienceAdmin:
		return Outcome{Next: StateFreeChat, Turns: []Turn{botTurn(msgAdminWelcome)}}
	}
	return Outcome{Fault: true, Turns: []Turn{botTurn(msgSessionFault)}}
}

// Expect reports the input shape the given state accepts next
func (m *Machine) Expect(aud Audience, state State) Expectation {
	if opts, ok := m.options(aud, state); ok {
		return Expectation{Kind: InputChoice, Options: opts}
	}
	return Expectation{Kind: InputFreeText}
}

func (m *Machine) options(aud Audience, state State) ([]Option, bool) {
	if aud == AudienceGuest {
		switch state {
		case StateMenuRoot:
			return rootOptions(), true
		case StatePlanMenu:
			return planMenuOptions(), true
		case StatePlanDetail:
			return planDetailOptions(), true
		case StateFAQ, StateContact, StateAbout:
			return []Option{backToMenuOption()}, true
		}
		return nil, false
	}
	if aud != AudienceMember {
		return nil, false
	}
	switch state {
	case StateAskSex:
		return sexOptions(), true
	case StateConfirmSex:
		return confirmOptions("sexo"), true
	case StateConfirmAge:
		return confirmOptions("edad"), true
	case StateConfirmHeight:
		return confirmOptions("altura"), true
	case StateConfirmWeight:
		return confirmOptions("peso"), true
	case StateAskHasAllergies:
		return yesNoOptions(), true
	case StateAllergyMore:
		return allergyMoreOptions(), true
	}
	return nil, false
}

// Transition computes the next state, draft and emitted turns for one
// input. It performs no I/O; side effects are described on the Outcome.
func (m *Machine) Transition(aud Audience, state State, draft Draft, in Input) Outcome {
	switch aud {
	case AudienceGuest:
		return m.guest(state, draft, in)
	case AudienceMember:
		return m.member(state, draft, in)
	case AudienceAdmin:
		return m.admin(state, draft, in)
	}
	return m.Fault(aud)
}

// Fault resets a session whose state has no entry in its transition table
func (m *Machine) Fault(aud Audience) Outcome {
	out := Outcome{Fault: true, Turns: []Turn{botTurn(msgSessionFault)}}
	switch aud {
	case AudienceGuest:
		out.Next = StateMenuRoot
		out.Turns = append(out.Turns, botTurn(msgAnythingElse, rootOptions()...))
	case AudienceMember:
		out.Next = StateAskSex
		out.Turns = append(out.Turns, botTurn(msgAskSex, sexOptions()...))
	case AudienceAdmin:
		out.Next = StateFreeChat
	}
	return out
}

// CommitFailed is applied when persisting a completed draft fails. The
// session falls back to the start of collection with an empty draft.
func (m *Machine) CommitFailed() Outcome {
	return Outcome{
		Next: StateAskSex,
		Turns: []Turn{
			botTurn(msgSaveFailed),
			botTurn(msgAskSex, sexOptions()...),
		},
	}
}

// ReportFailed is the turn emitted when the admin report cannot be built
func (m *Machine) ReportFailed() Turn {
	return botTurn(msgReportFailed)
}

// FetchFailed is the turn emitted when a member profile cannot be loaded
func (m *Machine) FetchFailed() Turn {
	return botTurn(msgFetchFailed)
}

// stay re-prompts in the current state with a single clarifying turn
func stay(state State, draft Draft, text string, options []Option) Outcome {
	return Outcome{
		Next:     state,
		Draft:    draft,
		Turns:    []Turn{botTurn(text, options...)},
		Rejected: true,
	}
}

func (m *Machine) choose(state State, draft Draft, in Input, options []Option, reason string) (Option, *Outcome) {
	opt, err := m.rules.Choice(in, options, reason)
	if err != nil {
		out := stay(state, draft, reason, options)
		return Option{}, &out
	}
	return opt, nil
}

func (m *Machine) guest(state State, draft Draft, in Input) Outcome {
	opts, ok := m.options(AudienceGuest, state)
	if state == StateFreeText {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return stay(state, draft, msgEmptyMessage, nil)
		}
		return Outcome{
			Next:     StateMenuRoot,
			Draft:    draft,
			NLP:      &NLPCall{Message: text},
			FollowUp: []Turn{botTurn(msgAnythingElse, rootOptions()...)},
		}
	}
	if !ok {
		return m.Fault(AudienceGuest)
	}

	opt, rejected := m.choose(state, draft, in, opts, msgChooseOption)
	if rejected != nil {
		return *rejected
	}
	out := Outcome{Draft: draft, Selected: opt.Label}

	switch opt.Intent {
	case IntentPlans, IntentOtherPlans:
		out.Next = StatePlanMenu
		out.Turns = []Turn{botTurn(msgPlanSelection, planMenuOptions()...)}
	case IntentPlanBasic, IntentPlanPremium, IntentPlanPro:
		plan, _ := planByIntent(opt.Intent)
		out.Next = StatePlanDetail
		out.PlanID = plan.ID
		out.Turns = []Turn{botTurn(plan.Details, planDetailOptions()...)}
	case IntentFAQ:
		out.Next = StateFAQ
		faq := botTurn(msgFAQ, backToMenuOption())
		faq.Link = &Link{Label: "Preguntas frecuentes", URL: m.cfg.FAQURL}
		out.Turns = []Turn{faq}
	case IntentContact, IntentTalkAdvisor:
		out.Next = StateContact
		out.Turns = []Turn{botTurn(msgContact, backToMenuOption())}
	case IntentAbout:
		out.Next = StateAbout
		out.Turns = []Turn{botTurn(msgAbout, backToMenuOption())}
	case IntentOther:
		out.Next = StateFreeText
		out.Turns = []Turn{botTurn(msgAskQuestion)}
	case IntentRegister:
		out.Next = state
		out.Redirect = m.cfg.SignupURL
		out.Turns = []Turn{botTurn(msgRedirectSignup)}
	case IntentBackToMenu:
		out.Next = StateMenuRoot
		out.Turns = []Turn{botTurn(msgAnythingElse, rootOptions()...)}
	default:
		return m.Fault(AudienceGuest)
	}
	return out
}

func (m *Machine) member(state State, draft Draft, in Input) Outcome {
	switch state {
	case StateAskSex:
		sex, err := m.rules.Sex(in)
		if err != nil {
			return stay(state, draft, err.Error(), sexOptions())
		}
		d := draft
		d.Sex = sex
		return Outcome{
			Next:     StateConfirmSex,
			Draft:    d,
			Selected: selectedLabel(in, sexOptions()),
			Turns:    []Turn{botTurn(fmt.Sprintf(msgConfirmSex, sex), confirmOptions("sexo")...)},
		}

	case StateAskAge:
		age, err := m.rules.Age(in.Text)
		if err != nil {
			return stay(state, draft, err.Error(), nil)
		}
		d := draft
		d.Age = intPtr(age)
		return Outcome{
			Next:  StateConfirmAge,
			Draft: d,
			Turns: []Turn{botTurn(fmt.Sprintf(msgConfirmAge, age), confirmOptions("edad")...)},
		}

	case StateAskHeight:
		h, err := m.rules.Height(in.Text)
		if err != nil {
			return stay(state, draft, err.Error(), nil)
		}
		d := draft
		d.HeightCm = intPtr(h)
		return Outcome{
			Next:  StateConfirmHeight,
			Draft: d,
			Turns: []Turn{botTurn(fmt.Sprintf(msgConfirmHeight, h), confirmOptions("altura")...)},
		}

	case StateAskWeight:
		w, err := m.rules.Weight(in.Text)
		if err != nil {
			return stay(state, draft, err.Error(), nil)
		}
		d := draft
		d.WeightKg = intPtr(w)
		return Outcome{
			Next:  StateConfirmWeight,
			Draft: d,
			Turns: []Turn{botTurn(fmt.Sprintf(msgConfirmWeight, w), confirmOptions("peso")...)},
		}

	case StateConfirmSex:
		return m.confirm(state, draft, in, "sexo", FieldSex,
			StateAskAge, botTurn(msgAskAge),
			StateAskSex, botTurn(msgReaskSex, sexOptions()...))
	case StateConfirmAge:
		return m.confirm(state, draft, in, "edad", FieldAge,
			StateAskHeight, botTurn(msgAskHeight),
			StateAskAge, botTurn(msgReaskAge))
	case StateConfirmHeight:
		return m.confirm(state, draft, in, "altura", FieldHeight,
			StateAskWeight, botTurn(msgAskWeight),
			StateAskHeight, botTurn(msgReaskHeight))
	case StateConfirmWeight:
		return m.confirm(state, draft, in, "peso", FieldWeight,
			StateAskHasAllergies, botTurn(msgAskHasAllergies, yesNoOptions()...),
			StateAskWeight, botTurn(msgReaskWeight))

	case StateAskHasAllergies:
		opt, rejected := m.choose(state, draft, in, yesNoOptions(), msgRejectYesNo)
		if rejected != nil {
			return *rejected
		}
		if opt.Intent == IntentNo {
			d := draft.Clear(FieldAllergies)
			return m.commit(d, opt.Label)
		}
		return Outcome{
			Next:     StateAskFirstAllergy,
			Draft:    draft,
			Selected: opt.Label,
			Turns:    []Turn{botTurn(msgAskFirstAllergy)},
		}

	case StateAskFirstAllergy, StateAskNextAllergy:
		reason := msgRejectAllergy
		if state == StateAskNextAllergy {
			reason = msgRejectNext
		}
		allergy, err := m.rules.Allergy(in.Text, reason)
		if err != nil {
			return stay(state, draft, err.Error(), nil)
		}
		return Outcome{
			Next:  StateAllergyMore,
			Draft: draft.WithAllergy(allergy),
			Turns: []Turn{
				botTurn(fmt.Sprintf(msgAllergyRecorded, allergy)),
				botTurn(msgAllergyMore, allergyMoreOptions()...),
			},
		}

	case StateAllergyMore:
		opt, rejected := m.choose(state, draft, in, allergyMoreOptions(), msgRejectYesNo)
		if rejected != nil {
			return *rejected
		}
		if opt.Intent == IntentDone {
			return m.commit(draft, opt.Label)
		}
		return Outcome{
			Next:     StateAskNextAllergy,
			Draft:    draft,
			Selected: opt.Label,
			Turns:    []Turn{botTurn(msgAskNextAllergy)},
		}

	case StateFreeChat:
		return m.freeChat(draft, in, false)
	}
	return m.Fault(AudienceMember)
}

func (m *Machine) confirm(state State, draft Draft, in Input, field string, f Field,
	next State, nextTurn Turn, back State, backTurn Turn) Outcome {
	opts := confirmOptions(field)
	opt, rejected := m.choose(state, draft, in, opts, msgConfirmGate)
	if rejected != nil {
		return *rejected
	}
	if opt.Intent == IntentCorrect {
		return Outcome{Next: back, Draft: draft.Clear(f), Selected: opt.Label, Turns: []Turn{backTurn}}
	}
	return Outcome{Next: next, Draft: draft, Selected: opt.Label, Turns: []Turn{nextTurn}}
}

func (m *Machine) commit(draft Draft, selected string) Outcome {
	if !draft.Complete() || !draft.InOrder() {
		return m.Fault(AudienceMember)
	}
	patch := draft.Patch()
	return Outcome{
		Next:     StateFreeChat,
		Draft:    draft,
		Selected: selected,
		Commit:   &patch,
		Turns:    []Turn{botTurn(msgSaved)},
	}
}

func (m *Machine) admin(state State, draft Draft, in Input) Outcome {
	if state != StateFreeChat {
		return m.Fault(AudienceAdmin)
	}
	return m.freeChat(draft, in, true)
}

func (m *Machine) freeChat(draft Draft, in Input, elevated bool) Outcome {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return stay(StateFreeChat, draft, msgEmptyMessage, nil)
	}
	out := Outcome{Next: StateFreeChat, Draft: draft}
	if elevated && m.wantsReport(text) {
		out.Report = true
		return out
	}
	out.NLP = &NLPCall{Message: text, Elevated: elevated}
	return out
}

// wantsReport matches report keywords as case-insensitive substrings
func (m *Machine) wantsReport(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range m.cfg.ReportKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func selectedLabel(in Input, options []Option) string {
	for _, o := range options {
		if (in.Intent != "" && o.Intent == in.Intent) || o.Label == in.Text {
			return o.Label
		}
	}
	return ""
}
