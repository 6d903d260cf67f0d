// Package i18n holds the user-visible message catalog.
package i18n

import "strings"

// DefaultLang is used when no supported language is requested.
const DefaultLang = "en"

var messages = map[string]map[string]string{
	"en": {
		"app_title":            "Food Tracker",
		"welcome_title":        "Welcome to the Food Tracker App",
		"login_or_signup":      "Login or Sign Up",
		"login":                "Login",
		"signup":               "Sign Up",
		"login_subtitle":       "Log In to your account",
		"signup_subtitle":      "Create a new account",
		"username":             "Username",
		"password":             "Password",
		"new_username":         "New Username",
		"new_password":         "New Password",
		"logout":               "Logout",
		"select_food":          "Select a food",
		"weight_grams":         "Enter the weight (in grams)",
		"add_food":             "Add food",
		"your_log":             "Your Food Log",
		"totals":               "Totals",
		"food":                 "Food",
		"weight":               "Weight",
		"fats":                 "Fats",
		"carbs":                "Carbs",
		"proteins":             "Proteins",
		"calories":             "Calories",
		"no_entries":           "Nothing logged yet.",
		"required":             "Required",
		"must_be_number":       "Must be a number",
		"must_be_non_negative": "Must be zero or more",
		"too_long":             "Too long",
		"username_taken":       "Username already exists. Try a different one.",
		"account_created":      "Account created successfully! You can now log in.",
		"invalid_credentials":  "Invalid username or password.",
		"welcome":              "Welcome, %s!",
		"food_added":           "%s (%sg) added to your log.",
		"unknown_food":         "Unknown food, pick one from the list.",
		"invalid_weight":       "Weight must be zero or more grams.",
		"internal_error":       "Something went wrong, please try again.",
	},
	"fr": {
		"app_title":            "Suivi alimentaire",
		"welcome_title":        "Bienvenue sur le suivi alimentaire",
		"login_or_signup":      "Connexion ou inscription",
		"login":                "Connexion",
		"signup":               "Inscription",
		"login_subtitle":       "Connectez-vous à votre compte",
		"signup_subtitle":      "Créer un compte",
		"username":             "Nom d'utilisateur",
		"password":             "Mot de passe",
		"new_username":         "Nouveau nom d'utilisateur",
		"new_password":         "Nouveau mot de passe",
		"logout":               "Déconnexion",
		"select_food":          "Choisir un aliment",
		"weight_grams":         "Poids (en grammes)",
		"add_food":             "Ajouter",
		"your_log":             "Votre journal",
		"totals":               "Totaux",
		"food":                 "Aliment",
		"weight":               "Poids",
		"fats":                 "Lipides",
		"carbs":                "Glucides",
		"proteins":             "Protéines",
		"calories":             "Calories",
		"no_entries":           "Aucune entrée pour le moment.",
		"required":             "Requis",
		"must_be_number":       "Doit être un nombre",
		"must_be_non_negative": "Doit être positif ou nul",
		"too_long":             "Trop long",
		"username_taken":       "Ce nom d'utilisateur existe déjà. Essayez-en un autre.",
		"account_created":      "Compte créé ! Vous pouvez maintenant vous connecter.",
		"invalid_credentials":  "Nom d'utilisateur ou mot de passe invalide.",
		"welcome":              "Bienvenue, %s !",
		"food_added":           "%s (%sg) ajouté à votre journal.",
		"unknown_food":         "Aliment inconnu, choisissez-en un dans la liste.",
		"invalid_weight":       "Le poids doit être positif ou nul.",
		"internal_error":       "Une erreur est survenue, veuillez réessayer.",
	},
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// T translates code into lang. Unknown languages fall back to DefaultLang,
// unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the first supported primary tag of an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if Supported(primary) {
			return primary
		}
	}
	return DefaultLang
}
