package conversation

// Bot copy. Labels may change freely; transitions key on Intent.
const (
	msgGuestWelcome   = "¡Hola! Bienvenido a NutriSaas 🥗 ¿En qué puedo ayudarte hoy?"
	msgAnythingElse   = "¿Hay algo más en lo que te pueda ayudar?"
	msgPlanSelection  = "Tenemos 3 planes diseñados para ti:"
	msgFAQ            = "Aquí puedes encontrar respuestas a las preguntas más frecuentes:"
	msgContact        = "Por el momento ninguno de nuestros asesores está disponible. Puedes contactar a un asesor por email contact@nutrisaas.com o llamando al +1 234 567 8900."
	msgAbout          = "NutriSaas es una plataforma que te ayuda a alcanzar tus metas de nutrición con planes personalizados."
	msgAskQuestion    = "Claro, escribe tu pregunta."
	msgRedirectSignup = "¡Excelente! Te llevaremos al registro."
	msgChooseOption   = "No entendí tu selección. Por favor, elige una de las opciones."
	msgEmptyMessage   = "Por favor, escribe un mensaje."

	msgIntro           = "Para personalizar tu experiencia, necesito conocerte mejor."
	msgAskSex          = "¿Cuál es tu sexo?"
	msgReaskSex        = "Por favor, selecciona tu sexo nuevamente."
	msgRejectSex       = "Por favor, selecciona una de las opciones de sexo."
	msgConfirmSex      = "Perfecto, %s registrado. ¿Estás seguro de que esta información es correcta?"
	msgAskAge          = "¿Cuál es tu edad?"
	msgReaskAge        = "Por favor, ingresa tu edad actual nuevamente."
	msgRejectAge       = "Por favor, ingresa tu edad en años (solo números, por ejemplo: 25)."
	msgConfirmAge      = "Perfecto, %d años registrado. ¿Estás seguro de que esta información es correcta?"
	msgAskHeight       = "¿Cuál es tu altura actual? (en cm)"
	msgReaskHeight     = "Por favor, ingresa tu altura actual nuevamente (en cm)."
	msgRejectHeight    = "Por favor, ingresa tu altura en centímetros (solo números, entre 1 y %d)."
	msgConfirmHeight   = "Perfecto, %d cm registrado. ¿Estás seguro de que esta información es correcta?"
	msgAskWeight       = "¿Cuál es tu peso actual? (en kg)"
	msgReaskWeight     = "Por favor, ingresa tu peso actual nuevamente (en kg)."
	msgRejectWeight    = "Por favor, ingresa tu peso en kilogramos (solo números, entre 1 y %d)."
	msgConfirmWeight   = "He registrado %d kg. ¿Es correcto?"
	msgConfirmGate     = "Por favor, confirma o corrige la información usando las opciones."
	msgAskHasAllergies = "¿Tienes alguna alergia alimentaria?"
	msgRejectYesNo     = "Por favor, selecciona 'Sí' o 'No'."
	msgAskFirstAllergy = "¿A qué eres alérgico?"
	msgRejectAllergy   = "Por favor, especifica tu alergia."
	msgAskNextAllergy  = "Por favor, ingresa la siguiente alergia."
	msgRejectNext      = "Por favor, ingresa la alergia o selecciona una opción."
	msgAllergyRecorded = "He registrado: \"%s\""
	msgAllergyMore     = "¿Hay alguna otra alergia que deba conocer?"

	msgWelcomeBack  = "¡Hola de nuevo! ¿En qué te puedo ayudar hoy?"
	msgSaved        = "¡Gracias! He guardado tu información. ¿En qué te puedo ayudar el día de hoy?"
	msgSaveFailed   = "Lo siento, no pude guardar tu información en este momento. Por favor, inténtalo de nuevo."
	msgFetchFailed  = "Lo siento, no pude recuperar tu información en este momento."
	msgAdminWelcome = "¡Hola Admin! ¿En qué te puedo ayudar hoy?"
	msgReportFailed = "❌ Error al generar el reporte de alturas."
	msgSessionFault = "Lo siento, hubo un problema. Por favor, reinicia la conversación o intenta más tarde."
)

// Plan is one subscription plan offered on the guest menu
type Plan struct {
	ID      string
	Intent  Intent
	Label   string
	Details string
}

var plans = []Plan{
	{
		ID:      "basic",
		Intent:  IntentPlanBasic,
		Label:   "🌟 Plan Básico - $9.99/mes",
		Details: "✅ Planes de comida estándar ✅ Seguimiento de nutrientes ✅ Garantía de satisfacción de 30 días",
	},
	{
		ID:      "premium",
		Intent:  IntentPlanPremium,
		Label:   "💎 Plan Premium - $19.99/mes",
		Details: "✅ Planes de comida personalizados ✅ Tracking avanzado de nutrientes ✅ 2 consultas mensuales con nutriólogo ✅ Acceso a +500 recetas",
	},
	{
		ID:      "pro",
		Intent:  IntentPlanPro,
		Label:   "🏆 Plan Pro - $39.99/mes",
		Details: "✅ Todo lo del Plan Premium ✅ Consultas ilimitadas con nutriólogo ✅ Biblioteca de recetas extendida",
	},
}

// PlanByID looks up a plan by its identifier
func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

func planByIntent(intent Intent) (Plan, bool) {
	for _, p := range plans {
		if p.Intent == intent {
			return p, true
		}
	}
	return Plan{}, false
}

func rootOptions() []Option {
	return []Option{
		{Intent: IntentPlans, Label: "📋 Conocer nuestros planes"},
		{Intent: IntentFAQ, Label: "❓ Preguntas frecuentes"},
		{Intent: IntentContact, Label: "📞 Contactar a un asesor"},
		{Intent: IntentAbout, Label: "🍎 ¿Qué es NutriSaas?"},
		{Intent: IntentOther, Label: "Otro"},
	}
}

func backToMenuOption() Option {
	return Option{Intent: IntentBackToMenu, Label: "⬅️ Volver al menú principal"}
}

func planMenuOptions() []Option {
	opts := make([]Option, 0, len(plans)+1)
	for _, p := range plans {
		opts = append(opts, Option{Intent: p.Intent, Label: p.Label})
	}
	return append(opts, backToMenuOption())
}

func planDetailOptions() []Option {
	return []Option{
		{Intent: IntentRegister, Label: "📝 Registrarme ahora"},
		{Intent: IntentTalkAdvisor, Label: "💬 Hablar con un asesor"},
		{Intent: IntentOtherPlans, Label: "⬅️ Ver otros planes"},
	}
}

func sexOptions() []Option {
	return []Option{
		{Intent: IntentSexMale, Label: "♂️ Masculino"},
		{Intent: IntentSexFemale, Label: "♀️ Femenino"},
	}
}

func confirmOptions(field string) []Option {
	return []Option{
		{Intent: IntentConfirm, Label: "✅ Sí, continuar"},
		{Intent: IntentCorrect, Label: "✏️ Corregir " + field},
	}
}

func yesNoOptions() []Option {
	return []Option{
		{Intent: IntentYes, Label: "✅ Sí"},
		{Intent: IntentNo, Label: "❌ No"},
	}
}

func allergyMoreOptions() []Option {
	return []Option{
		{Intent: IntentAddAnother, Label: "➕ Agregar otra alergia"},
		{Intent: IntentDone, Label: "✅ No, eso es todo"},
	}
}
