package routes

import (
	"fmt"
	"net/http"
)

// PrivacyPolicyHandler serves the Privacy Policy content
func PrivacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	html := `
	<!DOCTYPE html>
	<html lang="sv">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Integritetspolicy</title>
	</head>
	<body>
		<h1>Integritetspolicy</h1>
		<p>Välkommen till PuttPals. Den här sidan beskriver hur vi samlar in, använder och skyddar dina uppgifter.</p>
		<p>Din profil visas bara för andra inloggade golfare, och dina meddelanden delas bara med den du matchat med.</p>
		<p>Frågor? Kontakta <a href="mailto:support@puttpals.se">support@puttpals.se</a>.</p>
	</body>
	</html>
	`
	fmt.Fprint(w, html)
}
