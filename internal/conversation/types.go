package conversation

import "github.com/google/uuid"

// Audience selects which transition table a session runs on
type Audience string

const (
	AudienceGuest  Audience = "guest"
	AudienceMember Audience = "member"
	AudienceAdmin  Audience = "admin"
)

// Valid reports whether the audience is one of the known session kinds
func (a Audience) Valid() bool {
	switch a {
	case AudienceGuest, AudienceMember, AudienceAdmin:
		return true
	}
	return false
}

// State is a node in a transition table
type State string

// Guest menu tree
const (
	StateMenuRoot   State = "MENU_ROOT"
	StatePlanMenu   State = "PLAN_MENU"
	StatePlanDetail State = "PLAN_DETAIL"
	StateFAQ        State = "FAQ"
	StateContact    State = "CONTACT"
	StateAbout      State = "ABOUT"
	StateFreeText   State = "FREE_TEXT"
)

// Member collection pipeline and the shared terminal state
const (
	StateAskSex          State = "ASK_SEX"
	StateConfirmSex      State = "CONFIRM_SEX"
	StateAskAge          State = "ASK_AGE"
	StateConfirmAge      State = "CONFIRM_AGE"
	StateAskHeight       State = "ASK_HEIGHT"
	StateConfirmHeight   State = "CONFIRM_HEIGHT"
	StateAskWeight       State = "ASK_WEIGHT"
	StateConfirmWeight   State = "CONFIRM_WEIGHT"
	StateAskHasAllergies State = "ASK_HAS_ALLERGIES"
	StateAskFirstAllergy State = "ASK_ALLERGY_1"
	StateAllergyMore     State = "ALLERGY_MORE"
	StateAskNextAllergy  State = "ASK_ALLERGY_N"
	StateFreeChat        State = "FREE_CHAT"
)

// Speaker identifies who produced a turn
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Intent is the dispatch key of a selectable option. Labels are presentation only.
type Intent string

const (
	IntentPlans   Intent = "plans"
	IntentFAQ     Intent = "faq"
	IntentContact Intent = "contact"
	IntentAbout   Intent = "about"
	IntentOther   Intent = "other"

	IntentPlanBasic   Intent = "plan_basic"
	IntentPlanPremium Intent = "plan_premium"
	IntentPlanPro     Intent = "plan_pro"

	IntentRegister    Intent = "register"
	IntentTalkAdvisor Intent = "talk_advisor"
	IntentOtherPlans  Intent = "other_plans"
	IntentBackToMenu  Intent = "back_to_menu"
	IntentSexMale     Intent = "sex_male"
	IntentSexFemale   Intent = "sex_female"
	IntentConfirm     Intent = "confirm"
	IntentCorrect     Intent = "correct"
	IntentYes         Intent = "yes"
	IntentNo          Intent = "no"
	IntentAddAnother  Intent = "add_another"
	IntentDone        Intent = "done"
)

// Option is one selectable choice offered on a bot turn
type Option struct {
	Intent Intent `json:"intent"`
	Label  string `json:"label"`
}

// Link is the single safe hyperlink a turn may carry
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Turn is one message in the transcript
type Turn struct {
	ID             int      `json:"id"`
	Speaker        Speaker  `json:"speaker"`
	Text           string   `json:"text"`
	Options        []Option `json:"options,omitempty"`
	Link           *Link    `json:"link,omitempty"`
	SelectedOption string   `json:"selectedOption,omitempty"`
}

// InputKind tells the renderer whether to draw buttons or a text box
type InputKind string

const (
	InputChoice   InputKind = "choice"
	InputFreeText InputKind = "free_text"
)

// Expectation describes the input the current state accepts next
type Expectation struct {
	Kind    InputKind `json:"kind"`
	Options []Option  `json:"options,omitempty"`
}

// Input is one user submission. Intent is set when the user clicked an option;
// Text carries typed input or the clicked label.
type Input struct {
	Text   string `json:"text,omitempty"`
	Intent Intent `json:"intent,omitempty"`
}

// Identity is the resolved authentication context handed in by the caller
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}
