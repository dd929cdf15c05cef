package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine() *Machine {
	return NewMachine(Config{})
}

func TestMachine_Start(t *testing.T) {
	m := newTestMachine()

	t.Run("guest opens on root menu", func(t *testing.T) {
		out := m.Start(AudienceGuest, false)
		assert.Equal(t, StateMenuRoot, out.Next)
		require.Len(t, out.Turns, 1)
		assert.Equal(t, rootOptions(), out.Turns[0].Options)
	})

	t.Run("member without profile starts collection", func(t *testing.T) {
		out := m.Start(AudienceMember, false)
		assert.Equal(t, StateAskSex, out.Next)
		require.Len(t, out.Turns, 2)
		assert.Equal(t, msgIntro, out.Turns[0].Text)
		assert.Equal(t, sexOptions(), out.Turns[1].Options)
	})

	t.Run("onboarded member goes straight to free chat", func(t *testing.T) {
		out := m.Start(AudienceMember, true)
		assert.Equal(t, StateFreeChat, out.Next)
		assert.Equal(t, msgWelcomeBack, out.Turns[0].Text)
	})

	t.Run("admin", func(t *testing.T) {
		out := m.Start(AudienceAdmin, false)
		assert.Equal(t, StateFreeChat, out.Next)
		assert.Equal(t, msgAdminWelcome, out.Turns[0].Text)
	})
}

func TestMachine_GuestMenuTree(t *testing.T) {
	m := newTestMachine()

	tests := []struct {
		name   string
		from   State
		intent Intent
		want   State
	}{
		{"plans", StateMenuRoot, IntentPlans, StatePlanMenu},
		{"faq", StateMenuRoot, IntentFAQ, StateFAQ},
		{"contact", StateMenuRoot, IntentContact, StateContact},
		{"about", StateMenuRoot, IntentAbout, StateAbout},
		{"other", StateMenuRoot, IntentOther, StateFreeText},
		{"pick plan", StatePlanMenu, IntentPlanPremium, StatePlanDetail},
		{"plan menu back", StatePlanMenu, IntentBackToMenu, StateMenuRoot},
		{"talk to advisor", StatePlanDetail, IntentTalkAdvisor, StateContact},
		{"see other plans", StatePlanDetail, IntentOtherPlans, StatePlanMenu},
		{"faq back", StateFAQ, IntentBackToMenu, StateMenuRoot},
		{"contact back", StateContact, IntentBackToMenu, StateMenuRoot},
		{"about back", StateAbout, IntentBackToMenu, StateMenuRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.Transition(AudienceGuest, tt.from, Draft{}, Input{Intent: tt.intent})
			assert.Equal(t, tt.want, out.Next)
			assert.False(t, out.Rejected)
			assert.NotEmpty(t, out.Selected)
		})
	}
}

func TestMachine_GuestPlanDetail(t *testing.T) {
	m := newTestMachine()

	out := m.Transition(AudienceGuest, StatePlanMenu, Draft{}, Input{Intent: IntentPlanPro})
	assert.Equal(t, "pro", out.PlanID)
	plan, ok := PlanByID("pro")
	require.True(t, ok)
	assert.Equal(t, plan.Details, out.Turns[0].Text)
	assert.Equal(t, planDetailOptions(), out.Turns[0].Options)

	out = m.Transition(AudienceGuest, StatePlanDetail, Draft{}, Input{Intent: IntentRegister})
	assert.Equal(t, "/signup", out.Redirect)
}

func TestMachine_GuestFAQCarriesLink(t *testing.T) {
	m := NewMachine(Config{FAQURL: "https://nutrisaas.example/faq"})

	out := m.Transition(AudienceGuest, StateMenuRoot, Draft{}, Input{Intent: IntentFAQ})
	require.Len(t, out.Turns, 1)
	require.NotNil(t, out.Turns[0].Link)
	assert.Equal(t, "https://nutrisaas.example/faq", out.Turns[0].Link.URL)
}

func TestMachine_GuestUnrecognizedChoice(t *testing.T) {
	m := newTestMachine()

	out := m.Transition(AudienceGuest, StatePlanMenu, Draft{}, Input{Text: "quiero el plan gratis"})
	assert.Equal(t, StatePlanMenu, out.Next)
	assert.True(t, out.Rejected)
	require.Len(t, out.Turns, 1)
	assert.Equal(t, msgChooseOption, out.Turns[0].Text)
	assert.Equal(t, planMenuOptions(), out.Turns[0].Options)
}

func TestMachine_GuestFreeText(t *testing.T) {
	m := newTestMachine()

	out := m.Transition(AudienceGuest, StateFreeText, Draft{}, Input{Text: "¿tienen recetas veganas?"})
	assert.Equal(t, StateMenuRoot, out.Next)
	require.NotNil(t, out.NLP)
	assert.Equal(t, "¿tienen recetas veganas?", out.NLP.Message)
	assert.False(t, out.NLP.Elevated)
	require.Len(t, out.FollowUp, 1)
	assert.Equal(t, rootOptions(), out.FollowUp[0].Options)

	out = m.Transition(AudienceGuest, StateFreeText, Draft{}, Input{Text: "   "})
	assert.Equal(t, StateFreeText, out.Next)
	assert.Nil(t, out.NLP)
	assert.True(t, out.Rejected)
}

func TestMachine_AskStatesMoveToConfirm(t *testing.T) {
	m := newTestMachine()
	base := Draft{Sex: SexMale}

	tests := []struct {
		name  string
		from  State
		draft Draft
		input Input
		want  State
		check func(t *testing.T, d Draft)
	}{
		{
			name:  "sex",
			from:  StateAskSex,
			input: Input{Intent: IntentSexFemale},
			want:  StateConfirmSex,
			check: func(t *testing.T, d Draft) { assert.Equal(t, SexFemale, d.Sex) },
		},
		{
			name:  "age",
			from:  StateAskAge,
			draft: base,
			input: Input{Text: "30"},
			want:  StateConfirmAge,
			check: func(t *testing.T, d Draft) { assert.Equal(t, 30, *d.Age) },
		},
		{
			name:  "height",
			from:  StateAskHeight,
			draft: Draft{Sex: SexMale, Age: intPtr(30)},
			input: Input{Text: "180"},
			want:  StateConfirmHeight,
			check: func(t *testing.T, d Draft) { assert.Equal(t, 180, *d.HeightCm) },
		},
		{
			name:  "weight",
			from:  StateAskWeight,
			draft: Draft{Sex: SexMale, Age: intPtr(30), HeightCm: intPtr(180)},
			input: Input{Text: "75"},
			want:  StateConfirmWeight,
			check: func(t *testing.T, d Draft) { assert.Equal(t, 75, *d.WeightKg) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.Transition(AudienceMember, tt.from, tt.draft, tt.input)
			assert.Equal(t, tt.want, out.Next)
			assert.True(t, out.Draft.InOrder())
			tt.check(t, out.Draft)
			require.Len(t, out.Turns, 1)
			assert.Len(t, out.Turns[0].Options, 2)
		})
	}
}

func TestMachine_RejectionIsIdempotent(t *testing.T) {
	m := newTestMachine()
	draft := Draft{Sex: SexFemale}

	first := m.Transition(AudienceMember, StateAskAge, draft, Input{Text: "abc"})
	second := m.Transition(AudienceMember, first.Next, first.Draft, Input{Text: "200"})

	for _, out := range []Outcome{first, second} {
		assert.Equal(t, StateAskAge, out.Next)
		assert.Equal(t, draft, out.Draft)
		assert.True(t, out.Rejected)
		require.Len(t, out.Turns, 1)
		assert.Equal(t, msgRejectAge, out.Turns[0].Text)
		assert.Nil(t, out.Commit)
	}
}

func TestMachine_CorrectFromConfirmAge(t *testing.T) {
	m := newTestMachine()
	draft := Draft{Sex: SexMale, Age: intPtr(30)}

	out := m.Transition(AudienceMember, StateConfirmAge, draft, Input{Intent: IntentCorrect})
	assert.Equal(t, StateAskAge, out.Next)
	assert.Nil(t, out.Draft.Age)
	assert.Equal(t, SexMale, out.Draft.Sex)
	assert.Equal(t, msgReaskAge, out.Turns[0].Text)
}

func TestMachine_ConfirmGateRejectsFreeText(t *testing.T) {
	m := newTestMachine()
	draft := Draft{Sex: SexMale}

	out := m.Transition(AudienceMember, StateConfirmSex, draft, Input{Text: "sí"})
	assert.Equal(t, StateConfirmSex, out.Next)
	assert.True(t, out.Rejected)
	assert.Equal(t, confirmOptions("sexo"), out.Turns[0].Options)
}

func TestMachine_NoAllergiesCommits(t *testing.T) {
	m := newTestMachine()
	draft := Draft{Sex: SexMale, Age: intPtr(30), HeightCm: intPtr(180), WeightKg: intPtr(75)}

	out := m.Transition(AudienceMember, StateAskHasAllergies, draft, Input{Intent: IntentNo})
	assert.Equal(t, StateFreeChat, out.Next)
	require.NotNil(t, out.Commit)
	assert.Equal(t, ProfilePatch{
		Sex:       SexMale,
		Age:       30,
		HeightCm:  180,
		WeightKg:  75,
		Allergies: []string{},
	}, *out.Commit)
}

func TestMachine_CommitWithIncompleteDraftFaults(t *testing.T) {
	m := newTestMachine()

	out := m.Transition(AudienceMember, StateAskHasAllergies, Draft{Sex: SexMale}, Input{Intent: IntentNo})
	assert.True(t, out.Fault)
	assert.Nil(t, out.Commit)
	assert.Equal(t, StateAskSex, out.Next)
}

func TestMachine_AllergyLoopKeepsOrder(t *testing.T) {
	m := newTestMachine()
	draft := Draft{Sex: SexFemale, Age: intPtr(28), HeightCm: intPtr(165), WeightKg: intPtr(60)}

	out := m.Transition(AudienceMember, StateAskHasAllergies, draft, Input{Intent: IntentYes})
	require.Equal(t, StateAskFirstAllergy, out.Next)

	out = m.Transition(AudienceMember, out.Next, out.Draft, Input{Text: "peanuts"})
	require.Equal(t, StateAllergyMore, out.Next)
	require.Len(t, out.Turns, 2)
	assert.Equal(t, `He registrado: "peanuts"`, out.Turns[0].Text)

	out = m.Transition(AudienceMember, out.Next, out.Draft, Input{Intent: IntentAddAnother})
	require.Equal(t, StateAskNextAllergy, out.Next)

	out = m.Transition(AudienceMember, out.Next, out.Draft, Input{Text: ""})
	require.Equal(t, StateAskNextAllergy, out.Next)
	assert.Equal(t, msgRejectNext, out.Turns[0].Text)

	out = m.Transition(AudienceMember, out.Next, out.Draft, Input{Text: "shellfish"})
	require.Equal(t, StateAllergyMore, out.Next)

	out = m.Transition(AudienceMember, out.Next, out.Draft, Input{Intent: IntentDone})
	assert.Equal(t, StateFreeChat, out.Next)
	require.NotNil(t, out.Commit)
	assert.Equal(t, []string{"peanuts", "shellfish"}, out.Commit.Allergies)
}

func TestMachine_MemberFreeChat(t *testing.T) {
	m := newTestMachine()

	out := m.Transition(AudienceMember, StateFreeChat, Draft{}, Input{Text: "dame una receta con altura"})
	assert.Equal(t, StateFreeChat, out.Next)
	require.NotNil(t, out.NLP)
	assert.False(t, out.NLP.Elevated)
	assert.False(t, out.Report)
}

func TestMachine_AdminReportKeywords(t *testing.T) {
	m := newTestMachine()

	for _, text := range []string{"Usuarios por ALTURA", "height stats", "Estadísticas generales", "estadisticas"} {
		t.Run(text, func(t *testing.T) {
			out := m.Transition(AudienceAdmin, StateFreeChat, Draft{}, Input{Text: text})
			assert.True(t, out.Report)
			assert.Nil(t, out.NLP)
		})
	}

	out := m.Transition(AudienceAdmin, StateFreeChat, Draft{}, Input{Text: "¿cuántos planes hay?"})
	assert.False(t, out.Report)
	require.NotNil(t, out.NLP)
	assert.True(t, out.NLP.Elevated)
}

func TestMachine_UnknownStateResets(t *testing.T) {
	m := newTestMachine()

	out := m.Transition(AudienceGuest, StateAskAge, Draft{}, Input{Text: "30"})
	assert.True(t, out.Fault)
	assert.Equal(t, StateMenuRoot, out.Next)
	assert.Equal(t, msgSessionFault, out.Turns[0].Text)

	out = m.Transition(AudienceAdmin, StateMenuRoot, Draft{}, Input{Intent: IntentPlans})
	assert.True(t, out.Fault)
	assert.Equal(t, StateFreeChat, out.Next)
}

func TestMachine_Expect(t *testing.T) {
	m := newTestMachine()

	exp := m.Expect(AudienceGuest, StateMenuRoot)
	assert.Equal(t, InputChoice, exp.Kind)
	assert.Equal(t, rootOptions(), exp.Options)

	assert.Equal(t, InputFreeText, m.Expect(AudienceGuest, StateFreeText).Kind)
	assert.Equal(t, InputFreeText, m.Expect(AudienceMember, StateAskAge).Kind)
	assert.Equal(t, InputChoice, m.Expect(AudienceMember, StateConfirmWeight).Kind)
	assert.Equal(t, InputFreeText, m.Expect(AudienceAdmin, StateFreeChat).Kind)
}
