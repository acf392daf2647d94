package i18n

import (
	"html/template"
	"strings"
)

// Supported languages
const (
	LangEN = "en"
	LangES = "es"
	LangDE = "de"
	LangFI = "fi"
)

// DefaultLanguage is the fallback language
const DefaultLanguage = LangEN

// CookieName stores the selected UI language.
const CookieName = "lang"

// LanguageNames maps language codes to their display names
var LanguageNames = map[string]string{
	LangEN: "English",
	LangES: "Español",
	LangDE: "Deutsch",
	LangFI: "Suomi",
}

// Languages lists the codes in display order.
var Languages = []string{LangEN, LangES, LangDE, LangFI}

// Translations holds all translations
type Translations map[string]map[string]string

// GetTranslations returns all translation maps
func GetTranslations() Translations {
	return translations
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := translations[lang]
	return ok
}

// Normalize maps an Accept-Language style tag such as "de-AT" to a
// supported code, or DefaultLanguage.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_;,"); i != -1 {
		tag = tag[:i]
	}
	if Supported(tag) {
		return tag
	}
	return DefaultLanguage
}

// Get returns a translation for a given language and key
func Get(lang, key string) string {
	if trans, ok := translations[lang]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}
	// Fallback to English
	if trans, ok := translations[DefaultLanguage]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}
	return key
}

// T returns a template function for translations
func T(lang string) func(string) template.HTML {
	return func(key string) template.HTML {
		return template.HTML(template.HTMLEscapeString(Get(lang, key)))
	}
}

var translations = Translations{
	LangEN: {
		"app_name":            "ScriptVoice",
		"tagline":             "Turn a rough script into a punchy voice-over.",
		"input_script":        "Input script",
		"input_placeholder":   "Paste or write your script here...",
		"enhance_script":      "Enhance script",
		"enhanced_script":     "Enhanced script",
		"use_enhanced":        "Use for voice",
		"voice_mode":          "Voice mode",
		"single_voice":        "Single voice",
		"two_voices":          "Two voices",
		"speaker1":            "Speaker 1",
		"speaker2":            "Speaker 2",
		"voice":               "Voice",
		"generate_voice":      "Generate voice",
		"player":              "Player",
		"speed":               "Speed",
		"play":                "Play",
		"pause":               "Pause",
		"download":            "Download",
		"recent_generations":  "Recent generations",
		"no_generations":      "No voices generated yet.",
		"any":                 "Any",
		"filter":              "Filter",
		"script":              "Script",
		"voices":              "Voices",
		"duration":            "Duration",
		"created":             "Created",
		"open":                "Open",
		"back":                "Back",
		"language":            "Language",
		"err_empty_input":     "Input script cannot be empty.",
		"err_duplicate_voice": "Please select two different voices for Speaker 1 and Speaker 2.",
		"err_unknown_voice":   "Please choose one of the available voices.",
		"err_enhance_failed":  "Failed to enhance script. Please try again.",
		"err_generate_failed": "Failed to generate voice. Please try again.",
		"err_not_found":       "Voice generation not found.",
		"err_generic":         "Something went wrong. Please try again.",
	},
	LangES: {
		"app_name":            "ScriptVoice",
		"tagline":             "Convierte un guion en bruto en una locución con fuerza.",
		"input_script":        "Guion de entrada",
		"input_placeholder":   "Pega o escribe tu guion aquí...",
		"enhance_script":      "Mejorar guion",
		"enhanced_script":     "Guion mejorado",
		"use_enhanced":        "Usar para la voz",
		"voice_mode":          "Modo de voz",
		"single_voice":        "Una voz",
		"two_voices":          "Dos voces",
		"speaker1":            "Locutor 1",
		"speaker2":            "Locutor 2",
		"voice":               "Voz",
		"generate_voice":      "Generar voz",
		"player":              "Reproductor",
		"speed":               "Velocidad",
		"play":                "Reproducir",
		"pause":               "Pausa",
		"download":            "Descargar",
		"recent_generations":  "Generaciones recientes",
		"no_generations":      "Todavía no hay voces generadas.",
		"any":                 "Cualquiera",
		"filter":              "Filtrar",
		"script":              "Guion",
		"voices":              "Voces",
		"duration":            "Duración",
		"created":             "Creado",
		"open":                "Abrir",
		"back":                "Volver",
		"language":            "Idioma",
		"err_empty_input":     "El guion de entrada no puede estar vacío.",
		"err_duplicate_voice": "Selecciona dos voces distintas para el Locutor 1 y el Locutor 2.",
		"err_unknown_voice":   "Elige una de las voces disponibles.",
		"err_enhance_failed":  "No se pudo mejorar el guion. Inténtalo de nuevo.",
		"err_generate_failed": "No se pudo generar la voz. Inténtalo de nuevo.",
		"err_not_found":       "No se encontró la generación de voz.",
		"err_generic":         "Algo salió mal. Inténtalo de nuevo.",
	},
	LangDE: {
		"app_name":            "ScriptVoice",
		"tagline":             "Aus einem Rohskript wird ein packendes Voice-over.",
		"input_script":        "Eingabeskript",
		"input_placeholder":   "Skript hier einfügen oder schreiben...",
		"enhance_script":      "Skript verbessern",
		"enhanced_script":     "Verbessertes Skript",
		"use_enhanced":        "Für Stimme verwenden",
		"voice_mode":          "Stimmmodus",
		"single_voice":        "Eine Stimme",
		"two_voices":          "Zwei Stimmen",
		"speaker1":            "Sprecher 1",
		"speaker2":            "Sprecher 2",
		"voice":               "Stimme",
		"generate_voice":      "Stimme erzeugen",
		"player":              "Player",
		"speed":               "Geschwindigkeit",
		"play":                "Abspielen",
		"pause":               "Pause",
		"download":            "Herunterladen",
		"recent_generations":  "Letzte Erzeugungen",
		"no_generations":      "Noch keine Stimmen erzeugt.",
		"any":                 "Beliebig",
		"filter":              "Filtern",
		"script":              "Skript",
		"voices":              "Stimmen",
		"duration":            "Dauer",
		"created":             "Erstellt",
		"open":                "Öffnen",
		"back":                "Zurück",
		"language":            "Sprache",
		"err_empty_input":     "Das Eingabeskript darf nicht leer sein.",
		"err_duplicate_voice": "Bitte wählen Sie zwei verschiedene Stimmen für Sprecher 1 und Sprecher 2.",
		"err_unknown_voice":   "Bitte wählen Sie eine der verfügbaren Stimmen.",
		"err_enhance_failed":  "Das Skript konnte nicht verbessert werden. Bitte erneut versuchen.",
		"err_generate_failed": "Die Stimme konnte nicht erzeugt werden. Bitte erneut versuchen.",
		"err_not_found":       "Stimmerzeugung nicht gefunden.",
		"err_generic":         "Etwas ist schiefgelaufen. Bitte erneut versuchen.",
	},
	LangFI: {
		"app_name":            "ScriptVoice",
		"tagline":             "Raakakäsikirjoituksesta iskevä selostus.",
		"input_script":        "Käsikirjoitus",
		"input_placeholder":   "Liitä tai kirjoita käsikirjoitus tähän...",
		"enhance_script":      "Paranna käsikirjoitusta",
		"enhanced_script":     "Parannettu käsikirjoitus",
		"use_enhanced":        "Käytä äänelle",
		"voice_mode":          "Äänitila",
		"single_voice":        "Yksi ääni",
		"two_voices":          "Kaksi ääntä",
		"speaker1":            "Puhuja 1",
		"speaker2":            "Puhuja 2",
		"voice":               "Ääni",
		"generate_voice":      "Luo ääni",
		"player":              "Soitin",
		"speed":               "Nopeus",
		"play":                "Toista",
		"pause":               "Tauko",
		"download":            "Lataa",
		"recent_generations":  "Viimeisimmät äänet",
		"no_generations":      "Ääniä ei ole vielä luotu.",
		"any":                 "Mikä tahansa",
		"filter":              "Suodata",
		"script":              "Käsikirjoitus",
		"voices":              "Äänet",
		"duration":            "Kesto",
		"created":             "Luotu",
		"open":                "Avaa",
		"back":                "Takaisin",
		"language":            "Kieli",
		"err_empty_input":     "Käsikirjoitus ei voi olla tyhjä.",
		"err_duplicate_voice": "Valitse eri äänet puhujille 1 ja 2.",
		"err_unknown_voice":   "Valitse jokin saatavilla olevista äänistä.",
		"err_enhance_failed":  "Käsikirjoituksen parantaminen epäonnistui. Yritä uudelleen.",
		"err_generate_failed": "Äänen luominen epäonnistui. Yritä uudelleen.",
		"err_not_found":       "Äänen luontia ei löytynyt.",
		"err_generic":         "Jokin meni vikaan. Yritä uudelleen.",
	},
}
